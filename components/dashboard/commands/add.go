package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// AddWidgetInput selects a catalog widget for the viewer's dashboard.
type AddWidgetInput struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	Label    string                  `json:"label"`
	ActorID  string                  `json:"actor_id,omitempty"`
	TenantID string                  `json:"tenant_id,omitempty"`
}

type addService interface {
	AddWidget(ctx context.Context, viewer dashboard.ViewerContext, label string) error
}

// AddWidgetCommand wraps Service.AddWidget so transports can add widgets
// without linking directly against the service.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	if msg.Label == "" {
		return errors.New("add command requires widget label")
	}
	ctx = withActivity(ctx, msg.Viewer, msg.ActorID, msg.TenantID)
	if err := c.service.AddWidget(ctx, msg.Viewer, msg.Label); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.add", map[string]any{
		"user_id": msg.Viewer.UserID,
		"label":   msg.Label,
	})
	return nil
}

func withActivity(ctx context.Context, viewer dashboard.ViewerContext, actorID, tenantID string) context.Context {
	if actorID == "" && tenantID == "" {
		return ctx
	}
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  actorID,
		UserID:   viewer.UserID,
		TenantID: tenantID,
	})
}
