package activity

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Change describes one key whose value moved from OldValue to NewValue. A nil
// NewValue means the key was removed.
type Change struct {
	OldValue any
	NewValue any
}

// Event describes a storage occurrence fanned out to hooks: a write, a clear,
// a tier migration or an external modification of the backing file.
type Event struct {
	ID         string
	Verb       string
	Area       string
	Keys       []string
	Changes    map[string]Change
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivityHook receives normalized events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event and delivers it to every hook, even after one
// fails. Failures are joined. Events lacking a verb or an area are dropped.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	event = NormalizeEvent(event)
	if event.Verb == "" || event.Area == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook != nil {
			errs = append(errs, hook.Notify(ctx, event))
		}
	}
	return errors.Join(errs...)
}

// NormalizeEvent returns a copy of event with trimmed strings, private
// collections, a generated ID and a timestamp when those are missing.
func NormalizeEvent(event Event) Event {
	out := event
	out.ID = strings.TrimSpace(event.ID)
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.Verb = strings.TrimSpace(event.Verb)
	out.Area = strings.TrimSpace(event.Area)
	out.Channel = strings.TrimSpace(event.Channel)
	out.Metadata = cloneOrNil(event.Metadata)
	out.Changes = cloneOrNil(event.Changes)
	out.Keys = nil
	if len(event.Keys) > 0 {
		out.Keys = slices.Clone(event.Keys)
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}

func cloneOrNil[M ~map[K]V, K comparable, V any](src M) M {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
