package usersink

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-users/pkg/types"
)

// LogSink writes activity records to a slog logger. It stands in for a
// persistent go-users sink when none is configured.
type LogSink struct {
	Logger *slog.Logger
}

// Log implements Sink.
func (s LogSink) Log(ctx context.Context, record types.ActivityRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "activity",
		slog.String("verb", record.Verb),
		slog.String("object_type", record.ObjectType),
		slog.String("object_id", record.ObjectID),
		slog.String("channel", record.Channel),
		slog.String("actor_id", record.ActorID.String()),
		slog.Any("data", record.Data),
		slog.Time("occurred_at", record.OccurredAt),
	)
	return nil
}

var _ Sink = LogSink{}
