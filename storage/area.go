// Package storage implements the two-tier key/value configuration store:
// a durable tier that is preferred when available and a fallback tier that
// is always present. Values are flat JSON-compatible scalars and strings.
package storage

import (
	"context"
)

// Operation names reported in *ctxsearch.StorageError.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpRemove = "remove"
	OpClear  = "clear"
	OpProbe  = "probe"
	OpWatch  = "watch"
)

// Area is one key/value backend. Get with no keys returns every stored pair.
type Area interface {
	Name() string
	Get(ctx context.Context, keys ...string) (map[string]any, error)
	Set(ctx context.Context, values map[string]any) error
	Remove(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// Prober is implemented by areas that can report whether they are usable.
type Prober interface {
	Probe(ctx context.Context) error
}

// Watcher is implemented by areas that can observe writes made by other
// processes. Watch returns once watching has started; notify is called from
// a background goroutine until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, notify func()) error
}
