package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyExpression is returned for blank input.
var ErrEmptyExpression = errors.New("query: expression must not be empty")

// EvaluationError ties an engine failure to the expression and the storage
// area whose snapshot was being queried.
type EvaluationError struct {
	Engine string
	Expr   string
	Area   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("query: ")
	b.WriteString(e.Engine)
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Area != "" {
		b.WriteString(" on ")
		b.WriteString(e.Area)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// annotate attaches evaluation metadata to err. An *EvaluationError already
// in the chain keeps its engine and only gains the fields it lacks.
func annotate(engine, expr, area string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if !errors.As(err, &existing) {
		return &EvaluationError{Engine: engine, Expr: expr, Area: area, Err: err}
	}
	if existing.Engine == "" {
		existing.Engine = engine
	}
	if existing.Expr == "" {
		existing.Expr = expr
	}
	if existing.Area == "" {
		existing.Area = area
	}
	return existing
}
