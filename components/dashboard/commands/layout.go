package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// UpdateLayoutInput carries a layout reported by the rendering surface.
type UpdateLayoutInput struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	Layouts  dashboard.Layouts       `json:"layouts"`
	ActorID  string                  `json:"actor_id,omitempty"`
	TenantID string                  `json:"tenant_id,omitempty"`
}

type layoutService interface {
	UpdateLayout(ctx context.Context, viewer dashboard.ViewerContext, layouts dashboard.Layouts) (bool, error)
}

// UpdateLayoutCommand wraps Service.UpdateLayout. Changes the dashboard is
// not ready to accept are dropped without error.
type UpdateLayoutCommand struct {
	service   layoutService
	telemetry Telemetry
}

// NewUpdateLayoutCommand builds a command instance.
func NewUpdateLayoutCommand(service layoutService, telemetry Telemetry) *UpdateLayoutCommand {
	return &UpdateLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateLayoutInput] = (*UpdateLayoutCommand)(nil)

// Execute applies the layout.
func (c *UpdateLayoutCommand) Execute(ctx context.Context, msg UpdateLayoutInput) error {
	if c.service == nil {
		return errors.New("layout command requires service")
	}
	ctx = withActivity(ctx, msg.Viewer, msg.ActorID, msg.TenantID)
	committed, err := c.service.UpdateLayout(ctx, msg.Viewer, msg.Layouts)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.layout.update", map[string]any{
		"user_id":     msg.Viewer.UserID,
		"breakpoints": len(msg.Layouts),
		"committed":   committed,
	})
	return nil
}
