package usersink

import (
	"context"
	"errors"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-inventory-dashboard/pkg/activity"
)

// Sink is the go-users activity sink surface.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook forwards dashboard activity into a go-users sink.
type Hook struct {
	Sink Sink
}

var errMissingSink = errors.New("usersink: sink is required")

// Notify maps evt onto an ActivityRecord. Events without a verb are skipped;
// identifiers that are not UUIDs are recorded as uuid.Nil and kept in Data.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return errMissingSink
	}
	evt = activity.NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	data := make(map[string]any, len(evt.Metadata)+4)
	for k, v := range evt.Metadata {
		data[k] = v
	}
	if evt.WidgetLabel != "" {
		data["widget_label"] = evt.WidgetLabel
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}
	record := types.ActivityRecord{
		ActorID:    parseID(evt.ActorID, "actor_id", data),
		UserID:     parseID(evt.UserID, "user_id", data),
		TenantID:   parseID(evt.TenantID, "tenant_id", data),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	}
	return h.Sink.Log(ctx, record)
}

func parseID(raw, key string, data map[string]any) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		data[key] = raw
		return uuid.Nil
	}
	return id
}

var _ activity.Hook = Hook{}
