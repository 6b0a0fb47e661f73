package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

type navigationService interface {
	NavigationOpen(ctx context.Context, viewer dashboard.ViewerContext) (bool, error)
}

// NavigationOpenQuery reports whether the navigation drawer is open.
type NavigationOpenQuery struct {
	service navigationService
}

// NewNavigationOpenQuery builds the query.
func NewNavigationOpenQuery(service navigationService) *NavigationOpenQuery {
	return &NavigationOpenQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, bool] = (*NavigationOpenQuery)(nil)

// Query returns the stored flag, defaulting to open.
func (q *NavigationOpenQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (bool, error) {
	return q.service.NavigationOpen(ctx, viewer)
}
