package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type stubReader struct {
	view    DashboardView
	addable []WidgetDescriptor
	err     error
}

func (s *stubReader) State(context.Context, ViewerContext) (DashboardView, error) {
	return s.view, s.err
}

func (s *stubReader) AvailableWidgets(context.Context, ViewerContext) ([]WidgetDescriptor, error) {
	return s.addable, nil
}

func TestControllerRenderJSON(t *testing.T) {
	controller := NewController(newTestService(Options{}))

	var buf bytes.Buffer
	if err := controller.RenderJSON(context.Background(), ViewerContext{UserID: "user", Permissions: grantAll{}}, &buf); err != nil {
		t.Fatalf("RenderJSON returned error: %v", err)
	}
	var payload struct {
		Dashboard struct {
			Widgets []struct {
				Label string `json:"label"`
			} `json:"widgets"`
			Layouts map[string][]map[string]any `json:"layouts"`
		} `json:"dashboard"`
		Addable     []map[string]any `json:"addable"`
		Breakpoints []map[string]any `json:"breakpoints"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Dashboard.Widgets) != 2 || len(payload.Dashboard.Layouts["lg"]) != 2 {
		t.Fatalf("unexpected dashboard payload %s", buf.String())
	}
	if len(payload.Addable) != 1 || payload.Addable[0]["label"] != "gstart" {
		t.Fatalf("unexpected addable payload %+v", payload.Addable)
	}
	if len(payload.Breakpoints) != len(Breakpoints) || payload.Breakpoints[0]["columns"] != float64(12) {
		t.Fatalf("unexpected breakpoints %+v", payload.Breakpoints)
	}
}

func TestControllerRenderPropagatesErrors(t *testing.T) {
	reader := &stubReader{err: errors.New("boom")}
	if _, err := NewController(reader).Render(context.Background(), ViewerContext{UserID: "user"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestControllerRenderNormalizesAddable(t *testing.T) {
	payload, err := NewController(&stubReader{}).Render(context.Background(), ViewerContext{UserID: "user"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if payload.Addable == nil {
		t.Fatalf("expected empty addable slice")
	}
}
