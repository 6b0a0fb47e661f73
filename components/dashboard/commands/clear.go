package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// ClearWidgetsInput empties the viewer's dashboard.
type ClearWidgetsInput struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	ActorID  string                  `json:"actor_id,omitempty"`
	TenantID string                  `json:"tenant_id,omitempty"`
}

type clearService interface {
	ClearWidgets(ctx context.Context, viewer dashboard.ViewerContext) error
}

// ClearWidgetsCommand wraps Service.ClearWidgets.
type ClearWidgetsCommand struct {
	service   clearService
	telemetry Telemetry
}

// NewClearWidgetsCommand builds a command instance.
func NewClearWidgetsCommand(service clearService, telemetry Telemetry) *ClearWidgetsCommand {
	return &ClearWidgetsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClearWidgetsInput] = (*ClearWidgetsCommand)(nil)

// Execute clears every widget.
func (c *ClearWidgetsCommand) Execute(ctx context.Context, msg ClearWidgetsInput) error {
	if c.service == nil {
		return errors.New("clear command requires service")
	}
	ctx = withActivity(ctx, msg.Viewer, msg.ActorID, msg.TenantID)
	if err := c.service.ClearWidgets(ctx, msg.Viewer); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widgets.clear", map[string]any{"user_id": msg.Viewer.UserID})
	return nil
}
