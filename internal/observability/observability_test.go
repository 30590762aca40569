package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"nightsales-dashboard/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "records", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["service"] != serviceName {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty ctx = %q", got)
	}
}

func TestStartSpan_Nested(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "parent")
	_, child := StartSpan(ctx, "child")

	if child.TraceID != parent.TraceID {
		t.Errorf("child trace %q != parent trace %q", child.TraceID, parent.TraceID)
	}
	if child.ParentID != parent.SpanID {
		t.Errorf("child parent id = %q, want %q", child.ParentID, parent.SpanID)
	}

	child.SetTag("source", "vendas.xlsx")
	child.SetError(errors.New("boom"))
	child.Finish()

	if child.Status != SpanStatusError || child.Duration == nil {
		t.Errorf("unexpected finished span %+v", child)
	}

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("span finished", "span", child)
	if !bytes.Contains(buf.Bytes(), []byte(`"tag.source":"vendas.xlsx"`)) {
		t.Errorf("span attributes missing from log: %s", buf.String())
	}
}
