package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// SetNavigationInput opens or closes the navigation drawer.
type SetNavigationInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Open   bool                    `json:"open"`
}

type navigationService interface {
	SetNavigationOpen(ctx context.Context, viewer dashboard.ViewerContext, open bool) error
}

// SetNavigationCommand persists the navigation drawer flag.
type SetNavigationCommand struct {
	service   navigationService
	telemetry Telemetry
}

// NewSetNavigationCommand creates the command.
func NewSetNavigationCommand(service navigationService, telemetry Telemetry) *SetNavigationCommand {
	return &SetNavigationCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetNavigationInput] = (*SetNavigationCommand)(nil)

// Execute stores the flag for the viewer.
func (c *SetNavigationCommand) Execute(ctx context.Context, msg SetNavigationInput) error {
	if c.service == nil {
		return errors.New("navigation command requires service")
	}
	if msg.Viewer.UserID == "" {
		return errors.New("navigation command requires viewer user id")
	}
	if err := c.service.SetNavigationOpen(ctx, msg.Viewer, msg.Open); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.navigation.save", map[string]any{
		"user_id": msg.Viewer.UserID,
		"open":    msg.Open,
	})
	return nil
}
