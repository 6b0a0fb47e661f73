package dashboard

import (
	"context"
	"sync"
)

// InMemoryStateStore provides a concurrency-safe default store.
type InMemoryStateStore struct {
	mu   sync.RWMutex
	data map[string]storedState
}

type storedState struct {
	widgets []string
	layouts Layouts
	nav     *bool
	sample  bool
}

// NewInMemoryStateStore creates an empty state store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		data: make(map[string]storedState),
	}
}

// LoadDashboard returns the stored dashboard or an empty one.
func (s *InMemoryStateStore) LoadDashboard(_ context.Context, viewer ViewerContext) (StoredDashboard, error) {
	if viewer.UserID == "" {
		return StoredDashboard{}, ErrMissingViewer
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.data[viewer.UserID]
	return StoredDashboard{
		Widgets:             append([]string(nil), state.widgets...),
		Layouts:             state.layouts.Clone(),
		ShowSampleDashboard: state.sample,
	}, nil
}

// SaveWidgets persists the widget selection.
func (s *InMemoryStateStore) SaveWidgets(_ context.Context, viewer ViewerContext, widgets []string) error {
	return s.update(viewer, func(state *storedState) {
		state.widgets = append([]string(nil), widgets...)
	})
}

// SaveLayouts persists the layouts in reduced form.
func (s *InMemoryStateStore) SaveLayouts(_ context.Context, viewer ViewerContext, layouts Layouts) error {
	return s.update(viewer, func(state *storedState) {
		state.layouts = ReduceLayouts(layouts)
	})
}

// NavigationOpen returns nil when the flag was never set.
func (s *InMemoryStateStore) NavigationOpen(_ context.Context, viewer ViewerContext) (*bool, error) {
	if viewer.UserID == "" {
		return nil, ErrMissingViewer
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	nav := s.data[viewer.UserID].nav
	if nav == nil {
		return nil, nil
	}
	open := *nav
	return &open, nil
}

// SetNavigationOpen persists the navigation drawer flag.
func (s *InMemoryStateStore) SetNavigationOpen(_ context.Context, viewer ViewerContext, open bool) error {
	return s.update(viewer, func(state *storedState) {
		state.nav = &open
	})
}

// ShowSampleDashboard reports whether the viewer still sees the sample dashboard.
func (s *InMemoryStateStore) ShowSampleDashboard(_ context.Context, viewer ViewerContext) (bool, error) {
	if viewer.UserID == "" {
		return false, ErrMissingViewer
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[viewer.UserID].sample, nil
}

// SetShowSampleDashboard persists the sample dashboard flag.
func (s *InMemoryStateStore) SetShowSampleDashboard(_ context.Context, viewer ViewerContext, show bool) error {
	return s.update(viewer, func(state *storedState) {
		state.sample = show
	})
}

func (s *InMemoryStateStore) update(viewer ViewerContext, fn func(*storedState)) error {
	if viewer.UserID == "" {
		return ErrMissingViewer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.data[viewer.UserID]
	fn(&state)
	s.data[viewer.UserID] = state
	return nil
}

var _ StateStore = (*InMemoryStateStore)(nil)
