package query

import "sync"

// ProgramCache stores compiled programs. Keys are prefixed with the engine
// name so one cache can serve several runners.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryCache is a ProgramCache backed by a map.
type MemoryCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{programs: map[string]any{}}
}

// Get implements ProgramCache.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

// Set implements ProgramCache.
func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs[key] = value
}

// Len reports how many programs are cached.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// compiled returns the cached program for expression, compiling and storing
// it on a miss. A nil cache compiles every time.
func compiled[P any](cache ProgramCache, engine, expression string, compile func(string) (P, error)) (P, error) {
	key := engine + ":" + expression
	if cache != nil {
		if hit, ok := cache.Get(key); ok {
			if program, ok := hit.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile(expression)
	if err != nil {
		return program, err
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}
