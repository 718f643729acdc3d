package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Engine names.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// ErrEngineUnavailable reports an engine that is unknown or not compiled in.
var ErrEngineUnavailable = errors.New("query: engine unavailable")

// Evaluator executes an expression against a Context.
type Evaluator interface {
	Evaluate(ctx Context, expression string) (any, error)
}

// factory builds an Evaluator sharing a program cache and a function registry.
type factory func(cache ProgramCache, registry *FunctionRegistry) Evaluator

var (
	engineOrder = []string{EngineExpr, EngineCEL, EngineJS}
	factories   = map[string]factory{
		EngineExpr: newExprEvaluator,
		EngineCEL:  newCELEvaluator,
	}
)

// Engines lists the engines available in this build.
func Engines() []string {
	out := make([]string, 0, len(engineOrder))
	for _, name := range engineOrder {
		if _, ok := factories[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Runner evaluates expressions with one engine and logs every attempt.
type Runner struct {
	engine    string
	evaluator Evaluator
	cache     ProgramCache
	registry  *FunctionRegistry
	logger    *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProgramCache shares compiled programs between runners.
func WithProgramCache(cache ProgramCache) RunnerOption {
	return func(r *Runner) {
		r.cache = cache
	}
}

// WithFunctionRegistry replaces the default function registry.
func WithFunctionRegistry(registry *FunctionRegistry) RunnerOption {
	return func(r *Runner) {
		if registry != nil {
			r.registry = registry.Clone()
		}
	}
}

// NewRunner builds a Runner for engine; an empty name selects expr.
func NewRunner(engine string, opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		engine:   strings.ToLower(strings.TrimSpace(engine)),
		logger:   zap.NewNop(),
		registry: DefaultRegistry(),
	}
	if r.engine == "" {
		r.engine = EngineExpr
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	build, ok := factories[r.engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEngineUnavailable, engine)
	}
	r.evaluator = build(r.cache, r.registry)
	return r, nil
}

// Engine returns the engine name.
func (r *Runner) Engine() string { return r.engine }

// Evaluate runs expression and wraps failures in *EvaluationError.
func (r *Runner) Evaluate(ctx Context, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	start := time.Now()
	value, err := r.evaluator.Evaluate(ctx, expression)
	err = annotate(r.engine, expression, ctx.areaLabel(), err)

	log := r.logger.With(
		zap.String("engine", r.engine),
		zap.String("expr", expression),
		zap.String("area", ctx.areaLabel()),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		log.Debug("evaluation failed", zap.Error(err))
		return nil, err
	}
	log.Debug("evaluated")
	return value, nil
}
