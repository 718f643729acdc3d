package activity

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "storage"

// Config controls emission defaults.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter fans out events to a mutable set of subscribed hooks.
type Emitter struct {
	mu      sync.RWMutex
	hooks   map[uint64]ActivityHook
	nextID  uint64
	enabled bool
	channel string
}

// NewEmitter constructs an emitter from initial hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	e := &Emitter{
		hooks:   map[uint64]ActivityHook{},
		enabled: cfg.Enabled,
		channel: channel,
	}
	for _, hook := range hooks {
		e.Subscribe(hook)
	}
	return e
}

// Subscribe registers hook and returns a function removing it again.
func (e *Emitter) Subscribe(hook ActivityHook) (cancel func()) {
	if e == nil || hook == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.hooks[id] = hook
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.hooks, id)
			e.mu.Unlock()
		})
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	if e == nil || !e.enabled {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.hooks) > 0
}

// Emit forwards the event to all hooks, applying the default channel when
// missing. Hooks run on the caller's goroutine, in subscription order.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.snapshot().Notify(ctx, event)
}

func (e *Emitter) snapshot() Hooks {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]uint64, 0, len(e.hooks))
	for id := range e.hooks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make(Hooks, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.hooks[id])
	}
	return out
}
