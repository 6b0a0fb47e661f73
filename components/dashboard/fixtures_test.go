package dashboard

import (
	"context"
	"errors"

	"github.com/goliatone/go-inventory-dashboard/components/session"
)

type grantAll struct{}

func (grantAll) HasRolePermission(string, string) bool  { return true }
func (grantAll) HasModelPermission(string, string) bool { return true }
func (grantAll) IsStaff() bool                          { return true }

type roleGrants map[string]bool

func (g roleGrants) HasRolePermission(role, _ string) bool   { return g[role] }
func (g roleGrants) HasModelPermission(model, _ string) bool { return g[model] }
func (g roleGrants) IsStaff() bool                           { return false }

var _ session.Permissions = roleGrants(nil)

func testDescriptors() []WidgetDescriptor {
	return []WidgetDescriptor{
		{Label: "filtered-orders-chart", Name: "Sales Orders", MinWidth: 6, MinHeight: 4},
		{Label: "low-stk", Name: "Low Stock", MinWidth: 2, MinHeight: 1},
		{Label: "gstart", Name: "Getting Started", MinWidth: 5, MinHeight: 4},
	}
}

func testCatalog(items ...WidgetDescriptor) CatalogSnapshot {
	if len(items) == 0 {
		items = testDescriptors()
	}
	return CatalogSnapshot{Items: items, Loaded: true}
}

func testRegistry(items ...WidgetDescriptor) *Registry {
	if len(items) == 0 {
		items = testDescriptors()
	}
	reg := NewEmptyRegistry()
	for _, item := range items {
		if err := reg.RegisterDescriptor(item); err != nil {
			panic(err)
		}
	}
	return reg
}

func hydratedDashboard(store StateStore) *Dashboard {
	if store == nil {
		store = NewInMemoryStateStore()
	}
	board := NewDashboard(ViewerContext{UserID: "user-1"}, store)
	if _, err := board.Hydrate(context.Background(), testCatalog()); err != nil {
		panic(err)
	}
	return board
}

func findEntry(entries []LayoutEntry, id string) (LayoutEntry, bool) {
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return LayoutEntry{}, false
}

// failingStore fails loads or writes on demand.
type failingStore struct {
	*InMemoryStateStore
	loadErr  error
	writeErr error
}

func newFailingStore() *failingStore {
	return &failingStore{InMemoryStateStore: NewInMemoryStateStore()}
}

func (s *failingStore) LoadDashboard(ctx context.Context, viewer ViewerContext) (StoredDashboard, error) {
	if s.loadErr != nil {
		return StoredDashboard{}, s.loadErr
	}
	return s.InMemoryStateStore.LoadDashboard(ctx, viewer)
}

func (s *failingStore) SaveLayouts(ctx context.Context, viewer ViewerContext, layouts Layouts) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.InMemoryStateStore.SaveLayouts(ctx, viewer, layouts)
}

var errStoreDown = errors.New("store down")

type recordingRefreshHook struct {
	events []DashboardEvent
	err    error
}

func (h *recordingRefreshHook) DashboardUpdated(_ context.Context, event DashboardEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingRefreshHook) reasons() []string {
	out := make([]string, 0, len(h.events))
	for _, evt := range h.events {
		out = append(out, evt.Reason)
	}
	return out
}

type recordingTelemetry struct {
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events = append(t.events, event)
}

type staticRemote struct {
	items []WidgetDescriptor
	err   error
	calls int
}

func (r *staticRemote) RemoteWidgets(context.Context) ([]WidgetDescriptor, error) {
	r.calls++
	return r.items, r.err
}
