package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nightsales-dashboard/internal/models"
)

var sourceHeader = []any{"Pedido", "Data da venda", "Nome da loja", "Pagamento", "Bairro", "Total"}

func createTempWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "vendas.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendas.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o644))
	return path
}

func date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(day, clock, method, amount string) models.Record {
	tod, err := models.ParseTimeOfDay(clock)
	if err != nil {
		panic(err)
	}
	return models.Record{
		Date:          date(day),
		TimeOfDay:     tod,
		PaymentMethod: method,
		Amount:        decimal.RequireFromString(amount),
	}
}

func requireCents(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Equal(t, want, got.StringFixed(2))
}

// scenarioRecords is the three-sale night used across the aggregate tests.
func scenarioRecords() []models.Record {
	return []models.Record{
		rec("2024-01-05", "00:30", "Cash", "50.00"),
		rec("2024-01-05", "04:15", "Card", "30.00"),
		rec("2024-01-06", "01:00", "Cash", "20.00"),
	}
}
