package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"nightsales-dashboard/internal/config"
	"nightsales-dashboard/internal/models"
	"nightsales-dashboard/internal/server"
	"nightsales-dashboard/internal/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Test helper to create analytics with test data
func newTestAnalytics() *services.Analytics {
	opts := services.DefaultLoadOptions()
	opts.Logger = quietLogger()
	a := services.NewAnalytics(opts)

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	a.SetData([]models.Record{
		{Date: day, TimeOfDay: models.NewTimeOfDay(0, 30, 0), PaymentMethod: "Cash", Amount: decimal.RequireFromString("50.00")},
		{Date: day, TimeOfDay: models.NewTimeOfDay(4, 15, 0), PaymentMethod: "Card", Amount: decimal.RequireFromString("30.00")},
		{Date: day.AddDate(0, 0, 1), TimeOfDay: models.NewTimeOfDay(1, 0, 0), PaymentMethod: "Cash", Amount: decimal.RequireFromString("20.00")},
	})
	return a
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			EnableRateLimit: false,
			AllowedOrigins:  []string{"http://localhost:8084"},
			TrustedProxies:  []string{"127.0.0.1"},
		},
	}
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := server.NewServer(newTestAnalytics(), quietLogger())

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/report", http.StatusOK, "application/json"},
		{"/api/payment-methods", http.StatusOK, "application/json"},
		{"/api/daily-revenue", http.StatusOK, "application/json"},
		{"/api/payment-revenue", http.StatusOK, "application/json"},
		{"/api/hourly-summary", http.StatusOK, "application/json"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/sse/dashboard", http.StatusOK, "text/event-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			// Validate JSON responses
			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

// Test the KPI payload end to end
func TestServer_ReportResponse(t *testing.T) {
	srv := server.NewServer(newTestAnalytics(), quietLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/report?start=2024-01-05&end=2024-01-05&payment=Cash&payment=Card", nil)
	srv.ServeHTTP(w, r)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			TotalRevenue string `json:"total_revenue"`
			TotalOrders  int    `json:"total_orders"`
			DailyRevenue []struct {
				Date string `json:"date"`
			} `json:"daily_revenue"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !response.Success {
		t.Fatal("expected success=true in response")
	}
	if response.Data.TotalOrders != 2 {
		t.Errorf("total_orders = %d, want 2", response.Data.TotalOrders)
	}
	if !decimal.RequireFromString(response.Data.TotalRevenue).Equal(decimal.NewFromInt(80)) {
		t.Errorf("total_revenue = %s, want 80", response.Data.TotalRevenue)
	}
	if len(response.Data.DailyRevenue) != 1 || response.Data.DailyRevenue[0].Date != "2024-01-05" {
		t.Errorf("daily_revenue = %+v, want one entry for 2024-01-05", response.Data.DailyRevenue)
	}
}

// Test error handling for invalid methods and paths
func TestServer_ErrorHandling(t *testing.T) {
	srv := server.NewServer(newTestAnalytics(), quietLogger())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/api/report", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
		{"PATCH", "/sse/dashboard", http.StatusMethodNotAllowed},
		{"GET", "/api/country-revenue", http.StatusNotFound},
		{"GET", "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestNewHandler_Middleware(t *testing.T) {
	handler := newHandler(testConfig(), newTestAnalytics(), quietLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be set")
	}
}

func TestNewHandler_RequestIDPropagation(t *testing.T) {
	handler := newHandler(testConfig(), newTestAnalytics(), quietLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/report?start=2024-01-06&end=2024-01-05", nil)
	r.Header.Set("X-Request-ID", "req-123")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var response struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if response.Error.RequestID != "req-123" {
		t.Errorf("request_id = %q, want req-123", response.Error.RequestID)
	}
	if response.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", response.Error.Code)
	}
}

func TestLoadOptions(t *testing.T) {
	opts, err := loadOptions(config.SalesConfig{
		Sheet:           "Vendas",
		WindowStart:     "22:00",
		WindowEnd:       "02:00",
		TimestampColumn: "Quando",
		PaymentColumn:   "Forma",
		AmountColumn:    "Valor",
	}, quietLogger())
	if err != nil {
		t.Fatalf("loadOptions() failed: %v", err)
	}

	if opts.Sheet != "Vendas" {
		t.Errorf("sheet = %q, want Vendas", opts.Sheet)
	}
	if !opts.Window.CrossesMidnight() {
		t.Error("22:00-02:00 should cross midnight")
	}
	if opts.Columns != (services.Columns{Timestamp: "Quando", Payment: "Forma", Amount: "Valor"}) {
		t.Errorf("columns = %+v", opts.Columns)
	}

	if _, err := loadOptions(config.SalesConfig{WindowStart: "25:00", WindowEnd: "05:00"}, quietLogger()); err == nil {
		t.Error("expected error for an invalid window start")
	}
}
