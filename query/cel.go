package query

import (
	"reflect"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

var anySliceType = reflect.TypeOf([]any{})

// celVariables are the bindings declared in every CEL environment.
var celVariables = []string{"entries", "enabled", "prefs", "selection", "area", "args"}

// celEvaluator runs CEL programs. The environment is built once per
// evaluator; programs are cached per expression.
type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	env      *celgo.Env
	envErr   error
}

func newCELEvaluator(cache ProgramCache, registry *FunctionRegistry) Evaluator {
	e := &celEvaluator{cache: cache, registry: registry}
	e.env, e.envErr = e.buildEnv()
	return e
}

func (e *celEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	if e.envErr != nil {
		return nil, e.envErr
	}
	program, err := compiled(e.cache, EngineCEL, expression, e.compile)
	if err != nil {
		return nil, err
	}
	out, _, err := program.Eval(ctx.bindings())
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celEvaluator) compile(expression string) (celgo.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return e.env.Program(ast)
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
	}
	for _, name := range celVariables {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	if e.registry != nil {
		opts = append(opts,
			celgo.Function("render",
				celgo.Overload("render_string_string",
					[]*celgo.Type{celgo.StringType, celgo.StringType}, celgo.StringType,
					celgo.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
						return e.callValue("render", lhs, rhs)
					}),
				),
			),
			celgo.Function("encode",
				celgo.Overload("encode_string",
					[]*celgo.Type{celgo.StringType}, celgo.StringType,
					celgo.UnaryBinding(func(value ref.Val) ref.Val {
						return e.callValue("encode", value)
					}),
				),
			),
			celgo.Function("targets",
				celgo.Overload("targets_string",
					[]*celgo.Type{celgo.StringType}, celgo.ListType(celgo.StringType),
					celgo.UnaryBinding(func(value ref.Val) ref.Val {
						return e.callValue("targets", value)
					}),
				),
			),
			celgo.Function("call",
				celgo.Overload("call_string_list",
					[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)}, celgo.DynType,
					celgo.BinaryBinding(e.callBinding),
				),
			),
		)
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) callValue(name string, values ...ref.Val) ref.Val {
	args := make([]any, 0, len(values))
	for _, val := range values {
		args = append(args, val.Value())
	}
	result, err := e.registry.Call(name, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

func (e *celEvaluator) callBinding(nameVal, argsVal ref.Val) ref.Val {
	name, ok := nameVal.Value().(string)
	if !ok {
		return types.NewErr("query: call name must be string")
	}
	list, ok := argsVal.Value().([]any)
	if !ok {
		converted, err := argsVal.ConvertToNative(anySliceType)
		if err != nil {
			return types.NewErr("query: call arguments must be a list")
		}
		list = converted.([]any)
	}
	result, err := e.registry.Call(name, list...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
