package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-inventory-dashboard/components/session"
)

const remoteCacheKey = "remote"

// CatalogSnapshot is the catalog as seen by one viewer. Loaded flips once the
// catalog fetch completed, successfully or not; Err carries a remote failure
// while the built-in items stay usable.
type CatalogSnapshot struct {
	Items  []WidgetDescriptor
	Loaded bool
	Err    error
}

// Descriptor looks up a catalog item by label.
func (s CatalogSnapshot) Descriptor(label string) (WidgetDescriptor, bool) {
	for _, item := range s.Items {
		if item.Label == label {
			return item, true
		}
	}
	return WidgetDescriptor{}, false
}

// ErrorMessage returns the catalog failure text, if any.
func (s CatalogSnapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// CatalogOptions configures a CatalogLoader.
type CatalogOptions struct {
	Registry  *Registry
	Remote    RemoteWidgetSource
	Cache     DescriptorCache
	Validator DescriptorValidator
	Logger    *slog.Logger
}

// CatalogLoader merges built-in and plugin widgets into per-viewer snapshots.
type CatalogLoader struct {
	registry  *Registry
	remote    RemoteWidgetSource
	cache     DescriptorCache
	validator DescriptorValidator
	logger    *slog.Logger
}

// NewCatalogLoader builds a loader with safe defaults.
func NewCatalogLoader(opts CatalogOptions) *CatalogLoader {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewDescriptorValidator()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CatalogLoader{
		registry:  opts.Registry,
		remote:    opts.Remote,
		cache:     opts.Cache,
		validator: opts.Validator,
		logger:    opts.Logger,
	}
}

// Registry exposes the built-in registry.
func (l *CatalogLoader) Registry() *Registry {
	return l.registry
}

// Load returns the catalog filtered for perms. It always reports Loaded.
func (l *CatalogLoader) Load(ctx context.Context, perms session.Permissions) CatalogSnapshot {
	items := l.registry.Descriptors()
	snapshot := CatalogSnapshot{Loaded: true}
	remote, err := l.remoteItems(ctx)
	if err != nil {
		snapshot.Err = fmt.Errorf("dashboard: load plugin widgets: %w", err)
		l.logger.Warn("plugin widgets unavailable", slog.Any("error", err))
	}
	seen := make(map[string]struct{}, len(items)+len(remote))
	for _, item := range items {
		seen[item.Label] = struct{}{}
	}
	for _, item := range remote {
		if _, dup := seen[item.Label]; dup {
			continue
		}
		if err := l.validator.Validate(item); err != nil {
			l.logger.Debug("skipping plugin widget", slog.String("label", item.Label), slog.Any("error", err))
			continue
		}
		item.Source = SourcePlugin
		item.normalizeLocalizedFields()
		seen[item.Label] = struct{}{}
		items = append(items, item)
	}
	snapshot.Items = FilterAvailable(items, perms)
	return snapshot
}

// Invalidate forces the next Load to refetch plugin widgets.
func (l *CatalogLoader) Invalidate() {
	if invalidator, ok := l.cache.(interface{ Invalidate(string) }); ok {
		invalidator.Invalidate(remoteCacheKey)
	}
}

func (l *CatalogLoader) remoteItems(ctx context.Context) ([]WidgetDescriptor, error) {
	if l.remote == nil {
		return nil, nil
	}
	load := func() ([]WidgetDescriptor, error) {
		return l.remote.RemoteWidgets(ctx)
	}
	if l.cache == nil {
		return load()
	}
	return l.cache.GetOrLoad(remoteCacheKey, load)
}

// FilterAvailable keeps the items whose requirement perms satisfies.
func FilterAvailable(items []WidgetDescriptor, perms session.Permissions) []WidgetDescriptor {
	out := make([]WidgetDescriptor, 0, len(items))
	for _, item := range items {
		if item.Requires.SatisfiedBy(perms) {
			out = append(out, item)
		}
	}
	return out
}
