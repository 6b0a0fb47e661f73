package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSlogTelemetryWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	telemetry := NewSlogTelemetry(slog.New(slog.NewJSONHandler(&buf, nil)))
	telemetry.Record(context.Background(), "dashboard.widget.add", map[string]any{
		"label":   "low-stk",
		"user_id": "user-1",
	})
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "dashboard.widget.add" {
		t.Fatalf("unexpected message %v", record["msg"])
	}
	if record["label"] != "low-stk" || record["user_id"] != "user-1" {
		t.Fatalf("expected payload attributes, got %v", record)
	}
}
