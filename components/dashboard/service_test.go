package dashboard

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-inventory-dashboard/components/session"
)

func newTestService(opts Options) *Service {
	if opts.Catalog == nil {
		opts.Catalog = NewCatalogLoader(CatalogOptions{Registry: testRegistry()})
	}
	return NewService(opts)
}

func TestServiceHydratesLazily(t *testing.T) {
	hook := &recordingRefreshHook{}
	service := newTestService(Options{RefreshHook: hook})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}

	view, err := service.State(context.Background(), viewer)
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if !view.Loaded || !slices.Equal(view.Labels(), []string{"filtered-orders-chart", "low-stk"}) {
		t.Fatalf("unexpected hydrated view %+v", view)
	}
	if _, err := service.State(context.Background(), viewer); err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if got := hook.reasons(); !slices.Equal(got, []string{ReasonHydrate}) {
		t.Fatalf("expected a single hydrate event, got %v", got)
	}
}

func TestServiceRequiresViewer(t *testing.T) {
	service := newTestService(Options{})
	if _, err := service.State(context.Background(), ViewerContext{}); !errors.Is(err, ErrMissingViewer) {
		t.Fatalf("expected ErrMissingViewer, got %v", err)
	}
	if err := service.AddWidget(context.Background(), ViewerContext{}, "low-stk"); !errors.Is(err, ErrMissingViewer) {
		t.Fatalf("expected ErrMissingViewer, got %v", err)
	}
}

func TestServiceFiltersCatalogByPermissions(t *testing.T) {
	reg := testRegistry(
		WidgetDescriptor{Label: "filtered-orders-chart", MinWidth: 6, MinHeight: 4, Requires: session.ViewRole("sales_order")},
		WidgetDescriptor{Label: "low-stk", MinWidth: 2, MinHeight: 1, Requires: session.ViewModel("part")},
		WidgetDescriptor{Label: "gstart", MinWidth: 5, MinHeight: 4},
	)
	service := NewService(Options{Catalog: NewCatalogLoader(CatalogOptions{Registry: reg})})
	viewer := ViewerContext{UserID: "user-2", Permissions: roleGrants{"part": true}}

	view, err := service.State(context.Background(), viewer)
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if got := view.Labels(); !slices.Equal(got, []string{"low-stk"}) {
		t.Fatalf("expected only permitted defaults, got %v", got)
	}
	if err := service.AddWidget(context.Background(), viewer, "filtered-orders-chart"); !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget for hidden widget, got %v", err)
	}
	available, err := service.AvailableWidgets(context.Background(), viewer)
	if err != nil {
		t.Fatalf("AvailableWidgets returned error: %v", err)
	}
	if len(available) != 1 || available[0].Label != "gstart" {
		t.Fatalf("expected gstart available, got %+v", available)
	}
}

func TestServiceMutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	hook := &recordingRefreshHook{}
	telemetry := &recordingTelemetry{}
	service := newTestService(Options{RefreshHook: hook, Telemetry: telemetry})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}

	if err := service.AddWidget(ctx, viewer, "gstart"); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
	if err := service.RemoveWidget(ctx, viewer, "low-stk"); err != nil {
		t.Fatalf("RemoveWidget returned error: %v", err)
	}
	committed, err := service.UpdateLayout(ctx, viewer, Layouts{"lg": {
		{ID: "filtered-orders-chart", X: 0, Y: 0, W: 6, H: 4},
		{ID: "gstart", X: 6, Y: 0, W: 6, H: 4},
	}})
	if err != nil || !committed {
		t.Fatalf("expected committed layout, got %v %v", committed, err)
	}
	if err := service.ClearWidgets(ctx, viewer); err != nil {
		t.Fatalf("ClearWidgets returned error: %v", err)
	}

	want := []string{ReasonHydrate, ReasonAdd, ReasonRemove, ReasonLayout, ReasonClear}
	if got := hook.reasons(); !slices.Equal(got, want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	if hook.events[1].Label != "gstart" || !slices.Contains(hook.events[1].Widgets, "gstart") {
		t.Fatalf("unexpected add event %+v", hook.events[1])
	}
	wantTelemetry := []string{"dashboard.hydrate", "dashboard.add", "dashboard.remove", "dashboard.layout", "dashboard.clear"}
	if !slices.Equal(telemetry.events, wantTelemetry) {
		t.Fatalf("expected telemetry %v, got %v", wantTelemetry, telemetry.events)
	}
}

func TestServiceRefreshHookErrorPropagates(t *testing.T) {
	hook := &recordingRefreshHook{err: errors.New("hook failed")}
	service := newTestService(Options{RefreshHook: hook})
	_, err := service.State(context.Background(), ViewerContext{UserID: "user-1", Permissions: grantAll{}})
	if err == nil {
		t.Fatalf("expected hook error")
	}
}

func TestServiceSetMode(t *testing.T) {
	ctx := context.Background()
	service := newTestService(Options{})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}

	view, err := service.SetMode(ctx, viewer, ModeEdit)
	if err != nil || !view.Editing {
		t.Fatalf("expected editing, got %+v %v", view, err)
	}
	view, _ = service.SetMode(ctx, viewer, ModeRemove)
	if !view.Removing {
		t.Fatalf("expected removing mode")
	}
	view, _ = service.SetMode(ctx, viewer, ModeAccept)
	if view.Editing || view.Removing {
		t.Fatalf("accept should close both modes, got %+v", view)
	}
	view, _ = service.SetMode(ctx, viewer, ModeDrawerOpen)
	if !view.WidgetDrawerOpen {
		t.Fatalf("expected drawer open")
	}
	view, _ = service.SetMode(ctx, viewer, ModeDrawerClose)
	if view.WidgetDrawerOpen {
		t.Fatalf("expected drawer closed")
	}
	view, _ = service.SetMode(ctx, viewer, ModeToggleEdit)
	if !view.Editing {
		t.Fatalf("expected toggle to enable editing")
	}
	if _, err := service.SetMode(ctx, viewer, Mode("dance")); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestServiceNavigationOpenSeedsTrue(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()
	service := newTestService(Options{StateStore: store})
	viewer := ViewerContext{UserID: "user-1"}

	open, err := service.NavigationOpen(ctx, viewer)
	if err != nil || !open {
		t.Fatalf("expected navigation open by default, got %v %v", open, err)
	}
	stored, _ := store.NavigationOpen(ctx, viewer)
	if stored == nil || !*stored {
		t.Fatalf("expected default seeded into the store")
	}
	if err := service.SetNavigationOpen(ctx, viewer, false); err != nil {
		t.Fatalf("SetNavigationOpen returned error: %v", err)
	}
	open, _ = service.NavigationOpen(ctx, viewer)
	if open {
		t.Fatalf("expected navigation closed after update")
	}
}

func TestServiceForgetRehydratesFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()
	service := newTestService(Options{StateStore: store})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}

	if err := service.AddWidget(ctx, viewer, "gstart"); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
	service.Forget(viewer)
	view, err := service.State(ctx, viewer)
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if got := view.Labels(); !slices.Equal(got, []string{"filtered-orders-chart", "low-stk", "gstart"}) {
		t.Fatalf("expected stored selection restored, got %v", got)
	}
	if view.ShowSampleDashboard {
		t.Fatalf("sample flag should stay cleared")
	}
}

func TestServiceClearedDashboardReturnsToDefaults(t *testing.T) {
	ctx := context.Background()
	service := newTestService(Options{})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}

	if err := service.ClearWidgets(ctx, viewer); err != nil {
		t.Fatalf("ClearWidgets returned error: %v", err)
	}
	service.Forget(viewer)
	view, _ := service.State(ctx, viewer)
	if !view.ShowSampleDashboard || len(view.Widgets) != 2 {
		t.Fatalf("expected defaults after reload, got %+v", view)
	}
}

func TestServiceStateLocalizesNames(t *testing.T) {
	reg := testRegistry(WidgetDescriptor{
		Label:         "low-stk",
		Name:          "Low Stock",
		NameLocalized: map[string]string{"es": "Stock bajo"},
		MinWidth:      2,
		MinHeight:     1,
	})
	service := NewService(Options{Catalog: NewCatalogLoader(CatalogOptions{Registry: reg})})
	view, err := service.State(context.Background(), ViewerContext{UserID: "user-1", Locale: "es-MX"})
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if len(view.Widgets) != 1 || view.Widgets[0].Name != "Stock bajo" {
		t.Fatalf("expected localized name, got %+v", view.Widgets)
	}
}

func TestServiceLoadFailureSurfaces(t *testing.T) {
	store := newFailingStore()
	store.loadErr = errStoreDown
	service := newTestService(Options{StateStore: store})
	viewer := ViewerContext{UserID: "user-1", Permissions: grantAll{}}
	if _, err := service.State(context.Background(), viewer); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	store.loadErr = nil
	view, err := service.State(context.Background(), viewer)
	if err != nil || !view.Loaded {
		t.Fatalf("expected retry to hydrate, got %+v %v", view, err)
	}
}
