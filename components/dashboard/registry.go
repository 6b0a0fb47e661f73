package dashboard

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateWidget is returned when a label is registered twice.
var ErrDuplicateWidget = errors.New("dashboard: widget label already registered")

// WidgetHook lets packages register widgets during init().
type WidgetHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []WidgetHook
)

// RegisterWidgetHook registers a hook executed against new registries.
func RegisterWidgetHook(h WidgetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry is the built-in widget catalog with hook + manifest support.
// Registration order is preserved.
type Registry struct {
	mu           sync.RWMutex
	order        []string
	descriptors  map[string]WidgetDescriptor
	manifestMeta map[string]ManifestPlugin
	validator    DescriptorValidator
}

// NewRegistry builds a registry seeded with the inventory widgets and applies
// global hooks.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{
		descriptors:  map[string]WidgetDescriptor{},
		manifestMeta: map[string]ManifestPlugin{},
		validator:    NewDescriptorValidator(),
	}
}

func (r *Registry) registerDefaults() {
	for _, desc := range DefaultWidgetDescriptors() {
		_ = r.RegisterDescriptor(desc)
	}
}

// ApplyHooks executes registered widget hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDescriptor validates and stores a widget descriptor.
func (r *Registry) RegisterDescriptor(desc WidgetDescriptor) error {
	if err := r.validator.Validate(desc); err != nil {
		return err
	}
	if desc.Source == "" {
		desc.Source = SourceBuiltin
	}
	desc.normalizeLocalizedFields()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[desc.Label]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWidget, desc.Label)
	}
	r.descriptors[desc.Label] = desc
	r.order = append(r.order, desc.Label)
	return nil
}

// Descriptor fetches a widget descriptor by label.
func (r *Registry) Descriptor(label string) (WidgetDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[label]
	return desc, ok
}

// PluginMetadata returns any manifest metadata registered for a widget.
func (r *Registry) PluginMetadata(label string) (ManifestPlugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[label]
	return meta, ok
}

// Descriptors returns all registered descriptors in registration order.
func (r *Registry) Descriptors() []WidgetDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WidgetDescriptor, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.descriptors[label])
	}
	return out
}

func (r *Registry) recordPluginMetadata(label string, meta ManifestPlugin) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[label] = meta
}
