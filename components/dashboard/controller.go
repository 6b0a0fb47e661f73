package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
)

// DashboardReader is the read surface a Controller needs.
type DashboardReader interface {
	State(ctx context.Context, viewer ViewerContext) (DashboardView, error)
	AvailableWidgets(ctx context.Context, viewer ViewerContext) ([]WidgetDescriptor, error)
}

// ViewPayload is everything a rendering surface needs to draw the dashboard
// grid and its widget drawer.
type ViewPayload struct {
	Dashboard   DashboardView      `json:"dashboard"`
	Addable     []WidgetDescriptor `json:"addable"`
	Breakpoints []Breakpoint       `json:"breakpoints"`
}

// Controller assembles view payloads for transports.
type Controller struct {
	reader DashboardReader
}

// NewController wires the reader into a controller.
func NewController(reader DashboardReader) *Controller {
	return &Controller{reader: reader}
}

// Render resolves the dashboard and the addable catalog for a viewer.
func (c *Controller) Render(ctx context.Context, viewer ViewerContext) (ViewPayload, error) {
	if c == nil || c.reader == nil {
		return ViewPayload{}, errors.New("dashboard: controller has no reader")
	}
	view, err := c.reader.State(ctx, viewer)
	if err != nil {
		return ViewPayload{}, err
	}
	addable, err := c.reader.AvailableWidgets(ctx, viewer)
	if err != nil {
		return ViewPayload{}, err
	}
	if addable == nil {
		addable = []WidgetDescriptor{}
	}
	return ViewPayload{
		Dashboard:   view,
		Addable:     addable,
		Breakpoints: append([]Breakpoint(nil), Breakpoints...),
	}, nil
}

// RenderJSON writes the view payload as JSON.
func (c *Controller) RenderJSON(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	payload, err := c.Render(ctx, viewer)
	if err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(payload)
}
