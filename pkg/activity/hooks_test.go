package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	ctx := context.Background()

	cases := []Event{
		{},
		{Verb: "dashboard.widget.add"},
		{ObjectType: "dashboard"},
		{Verb: "  ", ObjectType: "dashboard"},
	}
	for _, evt := range cases {
		if err := hooks.Notify(ctx, evt); err != nil {
			t.Fatalf("notify %+v: %v", evt, err)
		}
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected incomplete events skipped, got %d", len(capture.Events))
	}

	if err := hooks.Notify(ctx, Event{Verb: " dashboard.widget.add ", ObjectType: " dashboard_widget ", ObjectID: " low-stk "}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events))
	}
	got := capture.Events[0]
	if got.Verb != "dashboard.widget.add" || got.ObjectID != "low-stk" {
		t.Fatalf("expected trimmed event, got %+v", got)
	}
	if got.OccurredAt.IsZero() || got.OccurredAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", got.OccurredAt)
	}
}

func TestHooksNotifyJoinsErrorsAndContinues(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	capture := &CaptureHook{}
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return first }),
		nil,
		capture,
		HookFunc(func(context.Context, Event) error { return second }),
	}
	err := hooks.Notify(context.Background(), Event{Verb: "dashboard.widgets.clear", ObjectType: "dashboard"})
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected later hooks to still run")
	}
}

func TestNormalizeEventDetachesReferences(t *testing.T) {
	evt := Event{
		Verb:       "dashboard.layout.update",
		ObjectType: "dashboard",
		Metadata:   map[string]any{"widgets": 2},
		Recipients: []string{"ops"},
	}
	n := NormalizeEvent(evt)
	n.Metadata["widgets"] = 5
	n.Recipients[0] = "sales"
	if evt.Metadata["widgets"] != 2 || evt.Recipients[0] != "ops" {
		t.Fatalf("original event mutated: %+v", evt)
	}

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	if got := NormalizeEvent(Event{OccurredAt: stamp}).OccurredAt; !got.Equal(stamp) {
		t.Fatalf("expected preset timestamp kept, got %v", got)
	}
}
