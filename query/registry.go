package query

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-ctxsearch/template"
)

// Function represents a callable registered against evaluators.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// DefaultRegistry returns a registry holding render, encode and targets.
func DefaultRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("render", func(args ...any) (any, error) {
		tmpl, text, err := twoStrings("render", args)
		if err != nil {
			return nil, err
		}
		return template.Render(tmpl, text), nil
	})
	_ = r.Register("encode", func(args ...any) (any, error) {
		text, err := oneString("encode", args)
		if err != nil {
			return nil, err
		}
		return template.PercentEncode(text), nil
	})
	_ = r.Register("targets", func(args ...any) (any, error) {
		id, err := oneString("targets", args)
		if err != nil {
			return nil, err
		}
		parts := template.SplitTargets(id)
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			out = append(out, part)
		}
		return out, nil
	})
	return r
}

// ErrUnknownFunction is returned by Call for a name nothing registered.
var ErrUnknownFunction = errors.New("query: unknown function")

// Register adds fn under the lowercased name. Names are case-insensitive and
// may be registered once.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return errors.New("query: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("query: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, taken := r.functions[key]; taken {
		return fmt.Errorf("query: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns an independent registry holding the same functions.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	functions := maps.Clone(r.functions)
	if functions == nil {
		functions = map[string]Function{}
	}
	return &FunctionRegistry{functions: functions}
}

// Call invokes the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.functions[strings.ToLower(name)]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn(args...)
}

// Names returns the registered names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.functions))
}

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("query: %s expects 1 argument, got %d", name, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("query: %s expects a string, got %T", name, args[0])
	}
	return s, nil
}

func twoStrings(name string, args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("query: %s expects 2 arguments, got %d", name, len(args))
	}
	a, ok := args[0].(string)
	if !ok {
		return "", "", fmt.Errorf("query: %s expects strings, got %T", name, args[0])
	}
	b, ok := args[1].(string)
	if !ok {
		return "", "", fmt.Errorf("query: %s expects strings, got %T", name, args[1])
	}
	return a, b, nil
}
