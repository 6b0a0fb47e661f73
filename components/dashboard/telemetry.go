package dashboard

import (
	"context"
	"log/slog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry logs every recorded event at info level.
type SlogTelemetry struct {
	logger *slog.Logger
}

// NewSlogTelemetry adapts a slog logger to Telemetry. A nil logger uses slog.Default().
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{logger: logger}
}

// Record logs the event with its payload as structured attributes.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	attrs := make([]slog.Attr, 0, len(payload))
	for key, value := range payload {
		attrs = append(attrs, slog.Any(key, value))
	}
	t.logger.LogAttrs(ctx, slog.LevelInfo, event, attrs...)
}
