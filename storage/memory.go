package storage

import (
	"context"
	"sync"
)

// MemoryArea is a minimal in-memory Area intended for tests and examples.
// Faults can be injected per operation.
type MemoryArea struct {
	name string

	mu     sync.RWMutex
	values map[string]any
	faults map[string]error
}

// NewMemoryArea builds an empty area reported under name.
func NewMemoryArea(name string) *MemoryArea {
	return &MemoryArea{
		name:   name,
		values: map[string]any{},
		faults: map[string]error{},
	}
}

// Name implements Area.
func (a *MemoryArea) Name() string { return a.name }

// Fail makes every later call of op return err. A nil err clears the fault.
func (a *MemoryArea) Fail(op string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		delete(a.faults, op)
		return
	}
	a.faults[op] = err
}

// Probe implements Prober.
func (a *MemoryArea) Probe(context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.faults[OpProbe]
}

// Get implements Area.
func (a *MemoryArea) Get(_ context.Context, keys ...string) (map[string]any, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if err := a.faults[OpGet]; err != nil {
		return nil, err
	}
	out := map[string]any{}
	if len(keys) == 0 {
		for key, value := range a.values {
			out[key] = value
		}
		return out, nil
	}
	for _, key := range keys {
		if value, ok := a.values[key]; ok {
			out[key] = value
		}
	}
	return out, nil
}

// Set implements Area.
func (a *MemoryArea) Set(_ context.Context, values map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.faults[OpSet]; err != nil {
		return err
	}
	for key, value := range values {
		a.values[key] = value
	}
	return nil
}

// Remove implements Area.
func (a *MemoryArea) Remove(_ context.Context, keys ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.faults[OpRemove]; err != nil {
		return err
	}
	for _, key := range keys {
		delete(a.values, key)
	}
	return nil
}

// Clear implements Area.
func (a *MemoryArea) Clear(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.faults[OpClear]; err != nil {
		return err
	}
	a.values = map[string]any{}
	return nil
}
