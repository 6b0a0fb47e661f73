package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/goliatone/go-inventory-dashboard/pkg/activity"
)

// ErrUnknownMode is returned by SetMode for unsupported mode names.
var ErrUnknownMode = errors.New("dashboard: unknown mode")

// Mode names a presentation toggle.
type Mode string

// Supported modes.
const (
	ModeEdit        Mode = "edit"
	ModeToggleEdit  Mode = "toggle-edit"
	ModeRemove      Mode = "remove"
	ModeAccept      Mode = "accept"
	ModeDrawerOpen  Mode = "drawer-open"
	ModeDrawerClose Mode = "drawer-close"
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	StateStore      StateStore
	Catalog         *CatalogLoader
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	ActivityHooks   activity.Hooks
	ActivityConfig  activity.Config
	LayoutValidator LayoutValidator
	Logger          *slog.Logger
}

// Service hosts one Dashboard per viewer and fans changes out to hooks.
type Service struct {
	opts     Options
	activity *activity.Emitter

	mu     sync.Mutex
	boards map[string]*Dashboard
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.StateStore == nil {
		opts.StateStore = NewInMemoryStateStore()
	}
	if opts.Catalog == nil {
		opts.Catalog = NewCatalogLoader(CatalogOptions{Logger: opts.Logger})
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.LayoutValidator == nil {
		opts.LayoutValidator = NewLayoutValidator()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		boards:   make(map[string]*Dashboard),
	}
}

// LayoutValidator exposes the validator transports use for layout documents.
func (s *Service) LayoutValidator() LayoutValidator {
	return s.opts.LayoutValidator
}

// Hydrate loads the viewer's dashboard if needed and returns its state.
func (s *Service) Hydrate(ctx context.Context, viewer ViewerContext) (DashboardView, error) {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return DashboardView{}, err
	}
	return s.localize(board.Snapshot(), viewer), nil
}

// State returns the viewer's dashboard with names resolved for the viewer locale.
func (s *Service) State(ctx context.Context, viewer ViewerContext) (DashboardView, error) {
	return s.Hydrate(ctx, viewer)
}

// AvailableWidgets lists widgets the viewer may still add.
func (s *Service) AvailableWidgets(ctx context.Context, viewer ViewerContext) ([]WidgetDescriptor, error) {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return LocalizeDescriptors(board.Addable(viewer.Permissions), viewer.Locale), nil
}

// AddWidget appends label to the viewer's dashboard.
func (s *Service) AddWidget(ctx context.Context, viewer ViewerContext, label string) error {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return err
	}
	if err := board.AddWidget(ctx, label); err != nil {
		return err
	}
	return s.publish(ctx, viewer, board.Snapshot(), ReasonAdd, label)
}

// RemoveWidget drops label from the viewer's dashboard.
func (s *Service) RemoveWidget(ctx context.Context, viewer ViewerContext, label string) error {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return err
	}
	if err := board.RemoveWidget(ctx, label); err != nil {
		return err
	}
	return s.publish(ctx, viewer, board.Snapshot(), ReasonRemove, label)
}

// ClearWidgets empties the viewer's dashboard.
func (s *Service) ClearWidgets(ctx context.Context, viewer ViewerContext) error {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return err
	}
	if err := board.ClearAll(ctx); err != nil {
		return err
	}
	return s.publish(ctx, viewer, board.Snapshot(), ReasonClear, "")
}

// UpdateLayout applies a layout reported by the rendering surface. It reports
// whether the change was committed.
func (s *Service) UpdateLayout(ctx context.Context, viewer ViewerContext, layouts Layouts) (bool, error) {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return false, err
	}
	committed, err := board.OnLayoutChange(ctx, layouts)
	if err != nil || !committed {
		return committed, err
	}
	return true, s.publish(ctx, viewer, board.Snapshot(), ReasonLayout, "")
}

// SetMode applies a presentation toggle and returns the resulting state.
func (s *Service) SetMode(ctx context.Context, viewer ViewerContext, mode Mode) (DashboardView, error) {
	board, err := s.board(ctx, viewer)
	if err != nil {
		return DashboardView{}, err
	}
	switch mode {
	case ModeEdit:
		board.StartEditing()
	case ModeToggleEdit:
		board.ToggleEditing()
	case ModeRemove:
		board.StartRemoving()
	case ModeAccept:
		board.AcceptLayout()
	case ModeDrawerOpen:
		board.OpenWidgetDrawer()
	case ModeDrawerClose:
		board.CloseWidgetDrawer()
	default:
		return DashboardView{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	view := board.Snapshot()
	if err := s.publish(ctx, viewer, view, ReasonMode, string(mode)); err != nil {
		return DashboardView{}, err
	}
	return s.localize(view, viewer), nil
}

// NavigationOpen reports the navigation drawer flag, seeding true when unset.
func (s *Service) NavigationOpen(ctx context.Context, viewer ViewerContext) (bool, error) {
	if viewer.UserID == "" {
		return false, ErrMissingViewer
	}
	open, err := s.opts.StateStore.NavigationOpen(ctx, viewer)
	if err != nil {
		return false, fmt.Errorf("dashboard: load navigation state: %w", err)
	}
	if open != nil {
		return *open, nil
	}
	if err := s.opts.StateStore.SetNavigationOpen(ctx, viewer, true); err != nil {
		return true, fmt.Errorf("dashboard: seed navigation state: %w", err)
	}
	return true, nil
}

// SetNavigationOpen persists the navigation drawer flag.
func (s *Service) SetNavigationOpen(ctx context.Context, viewer ViewerContext, open bool) error {
	if viewer.UserID == "" {
		return ErrMissingViewer
	}
	if err := s.opts.StateStore.SetNavigationOpen(ctx, viewer, open); err != nil {
		return fmt.Errorf("dashboard: save navigation state: %w", err)
	}
	s.recordTelemetry(ctx, "dashboard.navigation", map[string]any{
		"user_id": viewer.UserID,
		"open":    open,
	})
	return nil
}

// Forget drops the in-process dashboard for viewer, e.g. after logout. The
// next access hydrates again from the state store.
func (s *Service) Forget(viewer ViewerContext) {
	s.mu.Lock()
	delete(s.boards, viewer.UserID)
	s.mu.Unlock()
}

// InvalidateCatalog forces plugin widgets to be refetched on the next access.
func (s *Service) InvalidateCatalog() {
	s.opts.Catalog.Invalidate()
}

// NotifyDashboardUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyDashboardUpdated(ctx context.Context, event DashboardEvent) error {
	if err := s.opts.RefreshHook.DashboardUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.event", map[string]any{
		"user_id": event.UserID,
		"reason":  event.Reason,
		"label":   event.Label,
	})
	return nil
}

// board returns the viewer's dashboard, hydrating it against a fresh catalog
// snapshot. Hydration failures leave the dashboard unloaded so a later call
// can retry without overwriting durable state.
func (s *Service) board(ctx context.Context, viewer ViewerContext) (*Dashboard, error) {
	if viewer.UserID == "" {
		return nil, ErrMissingViewer
	}
	s.mu.Lock()
	board, ok := s.boards[viewer.UserID]
	if !ok {
		board = NewDashboard(viewer, s.opts.StateStore)
		s.boards[viewer.UserID] = board
	}
	s.mu.Unlock()

	snapshot := s.opts.Catalog.Load(ctx, viewer.Permissions)
	hydrated, err := board.Hydrate(ctx, snapshot)
	if err != nil {
		s.opts.Logger.Error("dashboard hydration failed",
			slog.String("user_id", viewer.UserID),
			slog.Any("error", err),
		)
		if !board.Loaded() {
			return nil, err
		}
	}
	if hydrated {
		if err := s.publish(ctx, viewer, board.Snapshot(), ReasonHydrate, ""); err != nil {
			return nil, err
		}
	}
	return board, nil
}

func (s *Service) publish(ctx context.Context, viewer ViewerContext, view DashboardView, reason, label string) error {
	event := DashboardEvent{
		UserID:  viewer.UserID,
		Reason:  reason,
		Label:   label,
		Widgets: view.Labels(),
	}
	if err := s.opts.RefreshHook.DashboardUpdated(ctx, event); err != nil {
		return err
	}
	payload := map[string]any{
		"user_id": viewer.UserID,
		"widgets": len(event.Widgets),
	}
	if label != "" {
		payload["label"] = label
	}
	s.recordTelemetry(ctx, "dashboard."+reason, payload)
	s.emitActivity(ctx, viewer, reason, label, view)
	return nil
}

var activityVerbs = map[string]string{
	ReasonAdd:    "dashboard.widget.add",
	ReasonRemove: "dashboard.widget.remove",
	ReasonClear:  "dashboard.widgets.clear",
	ReasonLayout: "dashboard.layout.update",
}

func (s *Service) emitActivity(ctx context.Context, viewer ViewerContext, reason, label string, view DashboardView) {
	verb, ok := activityVerbs[reason]
	if !ok || !s.activity.Enabled() {
		return
	}
	meta := activityContextFor(ctx, viewer)
	evt := activity.Event{
		Verb:       verb,
		ActorID:    meta.ActorID,
		UserID:     meta.UserID,
		TenantID:   meta.TenantID,
		ObjectType: "dashboard",
		ObjectID:   viewer.UserID,
		Metadata: map[string]any{
			"widgets": view.Labels(),
		},
	}
	if label != "" {
		evt.ObjectType = "dashboard_widget"
		evt.ObjectID = label
		evt.WidgetLabel = label
		evt.Metadata["label"] = label
	}
	if err := s.activity.Emit(ctx, evt); err != nil {
		s.opts.Logger.Warn("dashboard activity emit failed",
			slog.String("verb", verb),
			slog.Any("error", err),
		)
	}
}

func (s *Service) localize(view DashboardView, viewer ViewerContext) DashboardView {
	view.Widgets = LocalizeDescriptors(view.Widgets, viewer.Locale)
	return view
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type noopRefreshHook struct{}

func (noopRefreshHook) DashboardUpdated(context.Context, DashboardEvent) error {
	return nil
}
