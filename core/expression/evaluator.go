package expression

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
)

// ErrUndefined is returned when an expression references a name that is not
// present in the evaluation variables, or resolves to nothing.
var ErrUndefined = errors.New("undefined reference")

// Evaluator evaluates an expression against a set of variables.
type Evaluator interface {
	// Evaluate returns the value of expression with vars as its environment.
	// Errors wrapping ErrUndefined signal a missing reference.
	Evaluate(expression string, vars map[string]any) (any, error)
}

// Expr evaluates expressions with the expr-lang engine.
//
// The `in` operator is overloaded for two strings to mean substring
// containment, so templates such as `'web' in dog_group` work on plain
// string facts as well as on lists and maps.
type Expr struct{}

// NewExpr creates an expr-lang backed evaluator.
func NewExpr() *Expr {
	return &Expr{}
}

// Evaluate implements Evaluator.
func (e *Expr) Evaluate(expression string, vars map[string]any) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty expression: %w", ErrUndefined)
	}
	if vars == nil {
		vars = map[string]any{}
	}

	program, err := expr.Compile(expression,
		expr.Env(vars),
		expr.Function("strContains", strContains, new(func(string, string) bool)),
		expr.Operator("in", "strContains"),
	)
	if err != nil {
		var fe *file.Error
		if errors.As(err, &fe) && strings.HasPrefix(fe.Message, "unknown name") {
			return nil, fmt.Errorf("%s: %w", fe.Message, ErrUndefined)
		}
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%q evaluated to nothing: %w", expression, ErrUndefined)
	}
	return out, nil
}

func strContains(params ...any) (any, error) {
	needle, ok := params[0].(string)
	if !ok {
		return nil, fmt.Errorf("in: expected string, got %T", params[0])
	}
	haystack, ok := params[1].(string)
	if !ok {
		return nil, fmt.Errorf("in: expected string, got %T", params[1])
	}
	return strings.Contains(haystack, needle), nil
}
