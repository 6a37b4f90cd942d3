package compile

import (
	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/match"
)

// String compiles a case-insensitive string match.
//
//	Exact      lower(field) == lower(value)
//	StartsWith startsWith(lower(field), lower(value))
//	Contains   contains(lower(field), lower(value))
//
// A nil match is no filtering. A null field value never matches.
func String[T any](m *match.StringMatch, field expr.Accessor[T, string]) (expr.Predicate[T], error) {
	if m == nil {
		return expr.Predicate[T]{}, nil
	}

	folded := expr.Lower{Operand: value}
	needle := expr.Lower{Operand: expr.Const{Value: m.Value}}

	var body expr.Expr
	switch m.Kind {
	case match.StringMatchExact:
		body = expr.Compare{Op: expr.OpEq, Left: folded, Right: needle}
	case match.StringMatchStartsWith:
		body = expr.StartsWith{Operand: folded, Prefix: needle}
	case match.StringMatchContains:
		body = expr.Contains{Operand: folded, Substr: needle}
	default:
		if err := m.Validate(); err != nil {
			return expr.Predicate[T]{}, err
		}
		return expr.Predicate[T]{}, match.Errorf(match.ErrCodeInvalidMatchKind, "unknown string match kind %s", m.Kind)
	}

	return expr.Lift(expr.NewPredicate[string](value, body), field), nil
}

// ExactString compiles a case-insensitive equality filter on a plain string.
// The empty string is no filtering.
func ExactString[T any](filter string, field expr.Accessor[T, string]) expr.Predicate[T] {
	if filter == "" {
		return expr.Predicate[T]{}
	}
	body := expr.Compare{
		Op:    expr.OpEq,
		Left:  expr.Lower{Operand: value},
		Right: expr.Lower{Operand: expr.Const{Value: filter}},
	}
	return expr.Lift(expr.NewPredicate[string](value, body), field)
}
