package compile

import (
	"github.com/google/uuid"

	"github.com/roach88/matchq/internal/expr"
)

// Bool compiles field == *filter. A nil filter is no filtering.
func Bool[T any](filter *bool, field expr.Accessor[T, bool]) expr.Predicate[T] {
	if filter == nil {
		return expr.Predicate[T]{}
	}
	body := expr.Compare{Op: expr.OpEq, Left: value, Right: expr.Const{Value: *filter}}
	return expr.Lift(expr.NewPredicate[bool](value, body), field)
}

// IDSet compiles field ∈ ids. An empty set is no filtering.
//
// The set is copied; later changes to ids do not affect the predicate.
func IDSet[T any](ids []uuid.UUID, field expr.Accessor[T, uuid.UUID]) expr.Predicate[T] {
	if len(ids) == 0 {
		return expr.Predicate[T]{}
	}
	set := make([]any, len(ids))
	for i, id := range ids {
		set[i] = id
	}
	body := expr.In{Operand: value, Set: set}
	return expr.Lift(expr.NewPredicate[uuid.UUID](value, body), field)
}
