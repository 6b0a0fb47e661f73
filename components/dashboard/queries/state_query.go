package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

type stateService interface {
	State(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.DashboardView, error)
}

// DashboardStateQuery executes read-only dashboard resolution.
type DashboardStateQuery struct {
	service stateService
}

// NewDashboardStateQuery builds the query.
func NewDashboardStateQuery(service stateService) *DashboardStateQuery {
	return &DashboardStateQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.DashboardView] = (*DashboardStateQuery)(nil)

// Query resolves the dashboard for the viewer, hydrating it on first access.
func (q *DashboardStateQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.DashboardView, error) {
	return q.service.State(ctx, viewer)
}
