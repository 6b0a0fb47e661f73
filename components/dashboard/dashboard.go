package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-inventory-dashboard/components/session"
)

var (
	// ErrUnknownWidget is returned when a label is not in the viewer's catalog.
	ErrUnknownWidget = errors.New("dashboard: widget not in catalog")
	// ErrNotHydrated is returned for mutations before the dashboard loaded.
	ErrNotHydrated = errors.New("dashboard: dashboard not hydrated")
	// ErrMissingViewer is returned when a viewer has no user id.
	ErrMissingViewer = errors.New("dashboard: viewer context missing user id")
)

// Dashboard is one viewer's dashboard state machine. The zero flags describe
// a fresh dashboard: not loaded, not editing, not removing, drawer closed.
type Dashboard struct {
	mu         sync.Mutex
	viewer     ViewerContext
	store      StateStore
	catalog    CatalogSnapshot
	widgets    []WidgetDescriptor
	layouts    Layouts
	loaded     bool
	editing    bool
	removing   bool
	drawerOpen bool
	sample     bool
}

// NewDashboard builds an unhydrated dashboard for viewer backed by store.
func NewDashboard(viewer ViewerContext, store StateStore) *Dashboard {
	return &Dashboard{
		viewer:  viewer,
		store:   store,
		layouts: Layouts{},
	}
}

// Hydrate loads the dashboard once the catalog has finished loading. A stored
// non-empty selection is restored; otherwise the default selection is packed
// and shown as the sample dashboard. Later calls only refresh the catalog.
func (d *Dashboard) Hydrate(ctx context.Context, catalog CatalogSnapshot) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !catalog.Loaded {
		return false, nil
	}
	d.catalog = catalog
	if d.loaded {
		return false, nil
	}
	stored, err := d.store.LoadDashboard(ctx, d.viewer)
	if err != nil {
		return false, fmt.Errorf("dashboard: load stored dashboard: %w", err)
	}
	if len(stored.Widgets) > 0 {
		d.widgets = d.resolve(stored.Widgets)
		restored := fillMissing(PruneUnselected(stored.Layouts, d.labels()), d.widgets)
		d.layouts = Reconcile(restored, catalog.Items, false)
		d.sample = stored.ShowSampleDashboard
		d.loaded = true
		return true, nil
	}
	labels := DefaultSelection(catalog.Items)
	d.widgets = d.resolve(labels)
	d.layouts = DefaultLayouts(labels, catalog.Items)
	d.sample = true
	d.loaded = true
	return true, errors.Join(
		d.saveWidgets(ctx),
		d.saveLayouts(ctx),
		d.saveSample(ctx),
	)
}

// AddWidget appends label to the selection and resets every entry to its
// minimum size. Labels already selected are left alone.
func (d *Dashboard) AddWidget(ctx context.Context, label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return ErrNotHydrated
	}
	desc, ok := d.catalog.Descriptor(label)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, label)
	}
	if d.selected(label) {
		return nil
	}
	var errs []error
	if d.sample {
		d.sample = false
		errs = append(errs, d.saveSample(ctx))
	}
	d.widgets = append(d.widgets, desc)
	d.layouts = Reconcile(appendEntry(PruneLayouts(d.layouts, label), desc), d.catalog.Items, true)
	errs = append(errs, d.saveWidgets(ctx), d.saveLayouts(ctx))
	return errors.Join(errs...)
}

// RemoveWidget drops label from the selection and every breakpoint. Other
// entries keep their size.
func (d *Dashboard) RemoveWidget(ctx context.Context, label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return ErrNotHydrated
	}
	d.widgets = slices.DeleteFunc(d.widgets, func(w WidgetDescriptor) bool {
		return w.Label == label
	})
	d.layouts = PruneLayouts(d.layouts, label)
	var errs []error
	if d.sample {
		d.sample = false
		errs = append(errs, d.saveSample(ctx))
	}
	errs = append(errs, d.saveWidgets(ctx), d.saveLayouts(ctx))
	return errors.Join(errs...)
}

// ClearAll empties the selection and every layout and leaves the sample
// dashboard presentation.
func (d *Dashboard) ClearAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return ErrNotHydrated
	}
	d.widgets = nil
	d.layouts = Layouts{}
	var errs []error
	if d.sample {
		d.sample = false
		errs = append(errs, d.saveSample(ctx))
	}
	errs = append(errs, d.saveWidgets(ctx), d.saveLayouts(ctx))
	return errors.Join(errs...)
}

// OnLayoutChange applies a layout reported by the rendering surface. Only the
// minimum size floor is enforced. Changes seen before hydration or before the
// catalog loaded are discarded and reported as not committed.
func (d *Dashboard) OnLayoutChange(ctx context.Context, layouts Layouts) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded || !d.catalog.Loaded {
		return false, nil
	}
	d.layouts = Reconcile(PruneUnselected(layouts, d.labels()), d.catalog.Items, false)
	return true, d.saveLayouts(ctx)
}

// ToggleEditing flips the editing flag.
func (d *Dashboard) ToggleEditing() {
	d.mu.Lock()
	d.editing = !d.editing
	d.mu.Unlock()
}

// StartEditing enables drag and resize.
func (d *Dashboard) StartEditing() {
	d.mu.Lock()
	d.editing = true
	d.mu.Unlock()
}

// StartRemoving shows the remove affordance.
func (d *Dashboard) StartRemoving() {
	d.mu.Lock()
	d.removing = true
	d.mu.Unlock()
}

// AcceptLayout leaves both editing and removing modes.
func (d *Dashboard) AcceptLayout() {
	d.mu.Lock()
	d.editing = false
	d.removing = false
	d.mu.Unlock()
}

// OpenWidgetDrawer shows the widget picker.
func (d *Dashboard) OpenWidgetDrawer() {
	d.mu.Lock()
	d.drawerOpen = true
	d.mu.Unlock()
}

// CloseWidgetDrawer hides the widget picker.
func (d *Dashboard) CloseWidgetDrawer() {
	d.mu.Lock()
	d.drawerOpen = false
	d.mu.Unlock()
}

// Loaded reports whether hydration completed.
func (d *Dashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DashboardView{
		UserID:              d.viewer.UserID,
		Widgets:             cloneDescriptors(d.widgets),
		Layouts:             d.layouts.Clone(),
		Loaded:              d.loaded,
		Editing:             d.editing,
		Removing:            d.removing,
		WidgetDrawerOpen:    d.drawerOpen,
		ShowSampleDashboard: d.sample,
		CatalogError:        d.catalog.ErrorMessage(),
		Empty:               len(d.widgets) == 0,
	}
}

// Addable lists catalog widgets not yet selected that perms may see.
func (d *Dashboard) Addable(perms session.Permissions) []WidgetDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	candidates := make([]WidgetDescriptor, 0, len(d.catalog.Items))
	for _, item := range d.catalog.Items {
		if !d.selected(item.Label) {
			candidates = append(candidates, item)
		}
	}
	return FilterAvailable(candidates, perms)
}

// resolve maps labels onto catalog descriptors, dropping unknown labels and
// duplicates while keeping the stored order.
func (d *Dashboard) resolve(labels []string) []WidgetDescriptor {
	out := make([]WidgetDescriptor, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		desc, ok := d.catalog.Descriptor(label)
		if !ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, desc)
	}
	return out
}

func (d *Dashboard) selected(label string) bool {
	return slices.ContainsFunc(d.widgets, func(w WidgetDescriptor) bool {
		return w.Label == label
	})
}

func (d *Dashboard) labels() []string {
	labels := make([]string, 0, len(d.widgets))
	for _, w := range d.widgets {
		labels = append(labels, w.Label)
	}
	return labels
}

func (d *Dashboard) saveWidgets(ctx context.Context) error {
	if err := d.store.SaveWidgets(ctx, d.viewer, d.labels()); err != nil {
		return fmt.Errorf("dashboard: save widgets: %w", err)
	}
	return nil
}

func (d *Dashboard) saveLayouts(ctx context.Context) error {
	if err := d.store.SaveLayouts(ctx, d.viewer, ReduceLayouts(d.layouts)); err != nil {
		return fmt.Errorf("dashboard: save layouts: %w", err)
	}
	return nil
}

func (d *Dashboard) saveSample(ctx context.Context) error {
	if err := d.store.SetShowSampleDashboard(ctx, d.viewer, d.sample); err != nil {
		return fmt.Errorf("dashboard: save sample flag: %w", err)
	}
	return nil
}
