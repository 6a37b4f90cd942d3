package query

import (
	"fmt"
	"time"

	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/match"
	"github.com/roach88/matchq/internal/reldate"
)

// FromFilter builds a query from a decoded filter document.
//
// Each entry becomes a filter on the column of the same name. Filters are
// applied in the order ids, strings, dates, bools; within a group they are
// sorted by column name.
func FromFilter[T any](f *match.Filter, r *reldate.Resolver) (Query[T], error) {
	q := From[T](f.Source).WithResolver(r)
	q = AllCommonFilters(q, f.Base)

	var err error
	for _, s := range f.Strings {
		q, err = StringMatch(q, expr.Field[T, string](s.Field), s.Match)
		if err != nil {
			return Query[T]{}, fmt.Errorf("build query for %s: %w", f.Source, err)
		}
	}
	for _, d := range f.Dates {
		q, err = DateMatch(q, expr.Field[T, *time.Time](d.Field), d.Match)
		if err != nil {
			return Query[T]{}, fmt.Errorf("build query for %s: %w", f.Source, err)
		}
	}
	for _, b := range f.Bools {
		q = BooleanMatch(q, expr.Field[T, bool](b.Field), b.Value)
	}
	return q, nil
}
