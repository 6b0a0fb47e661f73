package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// RemoveWidgetInput identifies the widget to drop from the viewer's dashboard.
type RemoveWidgetInput struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	Label    string                  `json:"label"`
	ActorID  string                  `json:"actor_id,omitempty"`
	TenantID string                  `json:"tenant_id,omitempty"`
}

type removeService interface {
	RemoveWidget(ctx context.Context, viewer dashboard.ViewerContext, label string) error
}

// RemoveWidgetCommand wraps Service.RemoveWidget.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds a command instance.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if msg.Label == "" {
		return errors.New("remove command requires widget label")
	}
	ctx = withActivity(ctx, msg.Viewer, msg.ActorID, msg.TenantID)
	if err := c.service.RemoveWidget(ctx, msg.Viewer, msg.Label); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.remove", map[string]any{
		"user_id": msg.Viewer.UserID,
		"label":   msg.Label,
	})
	return nil
}
