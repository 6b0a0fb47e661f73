package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// RefreshDashboardInput emits a refresh notification for a viewer.
type RefreshDashboardInput struct {
	Event dashboard.DashboardEvent `json:"event"`
}

type refreshNotifier interface {
	NotifyDashboardUpdated(ctx context.Context, event dashboard.DashboardEvent) error
}

// RefreshDashboardCommand triggers refresh hooks without forcing transports.
type RefreshDashboardCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(service refreshNotifier, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute notifies the dashboard service's refresh hooks.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, msg RefreshDashboardInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if err := c.service.NotifyDashboardUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.refresh", map[string]any{
		"user_id": msg.Event.UserID,
		"reason":  msg.Event.Reason,
	})
	return nil
}
