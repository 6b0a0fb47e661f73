package activity

import (
	"context"
	"sync"
)

// CaptureHook records events in memory. Useful in tests and previews.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

// Notify appends evt.
func (h *CaptureHook) Notify(_ context.Context, evt Event) error {
	h.mu.Lock()
	h.Events = append(h.Events, evt)
	h.mu.Unlock()
	return nil
}
