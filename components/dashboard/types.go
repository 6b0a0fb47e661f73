package dashboard

import (
	"context"

	"github.com/goliatone/go-inventory-dashboard/components/session"
)

// StateStore persists the per-viewer dashboard state. Every field is
// independently settable; implementations are last-write-wins.
type StateStore interface {
	LoadDashboard(ctx context.Context, viewer ViewerContext) (StoredDashboard, error)
	SaveWidgets(ctx context.Context, viewer ViewerContext, widgets []string) error
	SaveLayouts(ctx context.Context, viewer ViewerContext, layouts Layouts) error
	NavigationOpen(ctx context.Context, viewer ViewerContext) (*bool, error)
	SetNavigationOpen(ctx context.Context, viewer ViewerContext, open bool) error
	ShowSampleDashboard(ctx context.Context, viewer ViewerContext) (bool, error)
	SetShowSampleDashboard(ctx context.Context, viewer ViewerContext, show bool) error
}

// RefreshHook notifies transports (REST/WebSocket) about dashboard changes.
type RefreshHook interface {
	DashboardUpdated(ctx context.Context, event DashboardEvent) error
}

// RemoteWidgetSource lists widgets contributed by backend plugins.
type RemoteWidgetSource interface {
	RemoteWidgets(ctx context.Context) ([]WidgetDescriptor, error)
}

// WidgetDescriptor is one catalog entry. Labels are unique within a catalog
// and minimum dimensions are at least one grid unit.
type WidgetDescriptor struct {
	Label                string               `json:"label" yaml:"label" validate:"required"`
	Name                 string               `json:"name" yaml:"name"`
	NameLocalized        map[string]string    `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string               `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string    `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string               `json:"category,omitempty" yaml:"category,omitempty"`
	MinWidth             int                  `json:"minWidth" yaml:"min_width" validate:"gte=1"`
	MinHeight            int                  `json:"minHeight" yaml:"min_height" validate:"gte=1"`
	Requires             *session.Requirement `json:"requires,omitempty" yaml:"requires,omitempty"`
	Schema               map[string]any       `json:"schema,omitempty" yaml:"schema,omitempty"`
	Source               string               `json:"source,omitempty" yaml:"-"`
}

// Descriptor sources.
const (
	SourceBuiltin  = "builtin"
	SourcePlugin   = "plugin"
	SourceManifest = "manifest"
)

// StoredDashboard is the durable snapshot of one viewer's dashboard.
type StoredDashboard struct {
	Widgets             []string `json:"widgets"`
	Layouts             Layouts  `json:"layouts"`
	ShowSampleDashboard bool     `json:"show_sample_dashboard"`
}

// ViewerContext captures the active user/locale information needed to build dashboards.
type ViewerContext struct {
	UserID      string              `json:"user_id"`
	Locale      string              `json:"locale,omitempty"`
	Permissions session.Permissions `json:"-"`
}

// DashboardView is the read model handed to transports.
type DashboardView struct {
	UserID              string             `json:"user_id"`
	Widgets             []WidgetDescriptor `json:"widgets"`
	Layouts             Layouts            `json:"layouts"`
	Loaded              bool               `json:"loaded"`
	Editing             bool               `json:"editing"`
	Removing            bool               `json:"removing"`
	WidgetDrawerOpen    bool               `json:"widget_drawer_open"`
	ShowSampleDashboard bool               `json:"show_sample_dashboard"`
	CatalogError        string             `json:"catalog_error,omitempty"`
	Empty               bool               `json:"empty"`
}

// Labels returns the selected widget labels in order.
func (v DashboardView) Labels() []string {
	labels := make([]string, 0, len(v.Widgets))
	for _, w := range v.Widgets {
		labels = append(labels, w.Label)
	}
	return labels
}

// Event reasons emitted through the RefreshHook.
const (
	ReasonHydrate = "hydrate"
	ReasonAdd     = "add"
	ReasonRemove  = "remove"
	ReasonClear   = "clear"
	ReasonLayout  = "layout"
	ReasonMode    = "mode"
)

// DashboardEvent describes changes that transports might care about.
type DashboardEvent struct {
	UserID  string   `json:"user_id"`
	Reason  string   `json:"reason"`
	Label   string   `json:"label,omitempty"`
	Widgets []string `json:"widgets,omitempty"`
}
