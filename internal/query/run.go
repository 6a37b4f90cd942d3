package query

import (
	"fmt"

	"github.com/roach88/matchq/internal/expr"
)

// Run executes q in memory against records and returns the matching ones in
// input order. The records slice is not modified.
//
// Evaluation follows expr.Eval semantics, which every other backend must
// reproduce.
func Run[T any](q Query[T], records []T) ([]T, error) {
	p := q.Predicate()
	if p.IsNoFilter() {
		out := make([]T, len(records))
		copy(out, records)
		return out, nil
	}

	var out []T
	for i, rec := range records {
		ok, err := expr.Test(p, rec)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s on record %d: %w", q.source, i, err)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count returns how many records match q.
func Count[T any](q Query[T], records []T) (int, error) {
	matched, err := Run(q, records)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}
