package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// SetModeInput switches a presentation mode for the viewer.
type SetModeInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Mode   dashboard.Mode          `json:"mode"`
}

type modeService interface {
	SetMode(ctx context.Context, viewer dashboard.ViewerContext, mode dashboard.Mode) (dashboard.DashboardView, error)
}

// SetModeCommand wraps Service.SetMode.
type SetModeCommand struct {
	service   modeService
	telemetry Telemetry
}

// NewSetModeCommand builds a command instance.
func NewSetModeCommand(service modeService, telemetry Telemetry) *SetModeCommand {
	return &SetModeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetModeInput] = (*SetModeCommand)(nil)

// Execute applies the mode.
func (c *SetModeCommand) Execute(ctx context.Context, msg SetModeInput) error {
	if c.service == nil {
		return errors.New("mode command requires service")
	}
	if _, err := c.service.SetMode(ctx, msg.Viewer, msg.Mode); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.mode", map[string]any{
		"user_id": msg.Viewer.UserID,
		"mode":    string(msg.Mode),
	})
	return nil
}
