package query

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEvaluator runs expr-lang programs. Registry functions are bound at
// compile time as native expr functions.
type exprEvaluator struct {
	cache   ProgramCache
	options []exprlang.Option
}

func newExprEvaluator(cache ProgramCache, registry *FunctionRegistry) Evaluator {
	e := &exprEvaluator{
		cache: cache,
		options: []exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		},
	}
	if registry != nil {
		for _, name := range registry.Names() {
			fn := name
			e.options = append(e.options, exprlang.Function(fn, func(args ...any) (any, error) {
				return registry.Call(fn, args...)
			}))
		}
	}
	return e
}

func (e *exprEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := compiled(e.cache, EngineExpr, expression, e.compile)
	if err != nil {
		return nil, err
	}
	return exprlang.Run(program, ctx.bindings())
}

func (e *exprEvaluator) compile(expression string) (*exprvm.Program, error) {
	return exprlang.Compile(expression, e.options...)
}
