package dashboard

import (
	"sync"
	"time"
)

// DescriptorCache memoizes remote widget listings so each dashboard load does
// not hit the plugin endpoint.
type DescriptorCache interface {
	GetOrLoad(key string, load func() ([]WidgetDescriptor, error)) ([]WidgetDescriptor, error)
}

// TTLDescriptorCache is an in-memory TTL cache for remote descriptors.
// Failed loads are never cached.
type TTLDescriptorCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedDescriptors
}

type cachedDescriptors struct {
	items   []WidgetDescriptor
	expires time.Time
}

// NewDescriptorCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewDescriptorCache(ttl time.Duration) *TTLDescriptorCache {
	return &TTLDescriptorCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedDescriptors),
	}
}

// GetOrLoad returns a cached entry or loads/stores a new one.
func (c *TTLDescriptorCache) GetOrLoad(key string, load func() ([]WidgetDescriptor, error)) ([]WidgetDescriptor, error) {
	if items, ok := c.get(key); ok {
		return items, nil
	}
	items, err := load()
	if err != nil {
		return nil, err
	}
	c.set(key, items)
	return cloneDescriptors(items), nil
}

// Invalidate drops a cached entry.
func (c *TTLDescriptorCache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *TTLDescriptorCache) get(key string) ([]WidgetDescriptor, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return nil, false
	}
	return cloneDescriptors(entry.items), true
}

func (c *TTLDescriptorCache) set(key string, items []WidgetDescriptor) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedDescriptors{
		items:   cloneDescriptors(items),
		expires: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func cloneDescriptors(items []WidgetDescriptor) []WidgetDescriptor {
	if items == nil {
		return nil
	}
	out := make([]WidgetDescriptor, len(items))
	copy(out, items)
	return out
}
