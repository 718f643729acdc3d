//go:build js_eval

package query

import (
	"github.com/dop251/goja"
)

func init() {
	factories[EngineJS] = newJSEvaluator
}

// jsEvaluator runs each expression in a fresh goja runtime so evaluations
// never share globals. Compiled programs are reusable across runtimes.
type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

func newJSEvaluator(cache ProgramCache, registry *FunctionRegistry) Evaluator {
	return &jsEvaluator{cache: cache, registry: registry}
}

func (e *jsEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := compiled(e.cache, EngineJS, expression, compileJS)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	if err := e.bind(vm, ctx); err != nil {
		return nil, err
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func compileJS(expression string) (*goja.Program, error) {
	return goja.Compile("", "(function(){ return ("+expression+"); })()", false)
}

func (e *jsEvaluator) bind(vm *goja.Runtime, ctx Context) error {
	for key, value := range ctx.bindings() {
		if err := vm.Set(key, value); err != nil {
			return err
		}
	}
	if e.registry == nil {
		return nil
	}
	if err := vm.Set("call", func(name string, args ...any) (any, error) {
		return e.registry.Call(name, args...)
	}); err != nil {
		return err
	}
	for _, name := range e.registry.Names() {
		fn := name
		if err := vm.Set(fn, func(args ...any) (any, error) {
			return e.registry.Call(fn, args...)
		}); err != nil {
			return err
		}
	}
	return nil
}
