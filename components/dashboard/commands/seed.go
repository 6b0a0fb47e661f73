package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// SeedDashboardInput controls bootstrap behavior. Manifests are loaded into
// the registry first; Labels, when set, replace the viewer's selection.
type SeedDashboardInput struct {
	Manifests []string
	Viewer    dashboard.ViewerContext
	Labels    []string
}

// SeedDashboardCommand registers manifest widgets and optionally seeds a
// viewer's dashboard.
type SeedDashboardCommand struct {
	registry  *dashboard.Registry
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(registry *dashboard.Registry, service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		registry:  registry,
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if len(msg.Manifests) > 0 {
		if err := dashboard.RegisterManifests(c.registry, msg.Manifests...); err != nil {
			return err
		}
		if c.service != nil {
			c.service.InvalidateCatalog()
		}
		c.telemetry.Record(ctx, "dashboard.seed.manifests", map[string]any{"count": len(msg.Manifests)})
	}
	if len(msg.Labels) == 0 {
		return nil
	}
	if c.service == nil {
		return errors.New("seed command requires service to seed widgets")
	}
	if err := dashboard.SeedDashboard(ctx, c.service, msg.Viewer, msg.Labels...); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.seed.widgets", map[string]any{
		"user_id": msg.Viewer.UserID,
		"count":   len(msg.Labels),
	})
	return nil
}
