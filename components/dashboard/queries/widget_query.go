package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

type catalogService interface {
	AvailableWidgets(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.WidgetDescriptor, error)
}

// AddableWidgetsQuery lists catalog widgets the viewer can still add.
type AddableWidgetsQuery struct {
	service catalogService
}

// NewAddableWidgetsQuery builds the query.
func NewAddableWidgetsQuery(service catalogService) *AddableWidgetsQuery {
	return &AddableWidgetsQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, []dashboard.WidgetDescriptor] = (*AddableWidgetsQuery)(nil)

// Query resolves the drawer contents for the viewer.
func (q *AddableWidgetsQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.WidgetDescriptor, error) {
	return q.service.AvailableWidgets(ctx, viewer)
}
