package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps every event it receives. Tests and examples use it to
// inspect what a storage operation emitted. Err, when set, is returned from
// every Notify.
type CaptureHook struct {
	Err error

	mu     sync.Mutex
	events []Event
}

// Notify implements ActivityHook.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	h.events = append(h.events, NormalizeEvent(event))
	h.mu.Unlock()
	return h.Err
}

// Recorded returns the events seen so far, oldest first.
func (h *CaptureHook) Recorded() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

// Verbs returns the verb of each recorded event in order.
func (h *CaptureHook) Verbs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	verbs := make([]string, len(h.events))
	for i, event := range h.events {
		verbs[i] = event.Verb
	}
	return verbs
}
