package dashboard

import (
	core "github.com/goliatone/go-inventory-dashboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext identifies the viewer a dashboard belongs to.
type ViewerContext = core.ViewerContext

// StateStore persists per-viewer dashboard state.
type StateStore = core.StateStore

// Layouts maps breakpoints to layout entries.
type Layouts = core.Layouts

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewInMemoryStateStore proxies to the in-process store.
func NewInMemoryStateStore() *core.InMemoryStateStore {
	return core.NewInMemoryStateStore()
}
