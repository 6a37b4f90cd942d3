package query

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/matchq/internal/compile"
	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/match"
)

// IDColumn is the identifier column FilterByID filters on.
const IDColumn = "id"

// StringMatch restricts q with a case-insensitive string match.
func StringMatch[T any](q Query[T], field expr.Accessor[T, string], m *match.StringMatch) (Query[T], error) {
	p, err := compile.String(m, field)
	if err != nil {
		return Query[T]{}, fmt.Errorf("string match on %s: %w", describe(field.Lambda), err)
	}
	return apply(q, "string", field.Lambda, p), nil
}

// ExactStringMatch restricts q to rows whose field equals filter, ignoring
// case. An empty filter leaves q unchanged.
func ExactStringMatch[T any](q Query[T], field expr.Accessor[T, string], filter string) Query[T] {
	return apply(q, "exact_string", field.Lambda, compile.ExactString(filter, field))
}

// BooleanMatch restricts q to rows whose field equals *filter. A nil filter
// leaves q unchanged.
func BooleanMatch[T any](q Query[T], field expr.Accessor[T, bool], filter *bool) Query[T] {
	return apply(q, "boolean", field.Lambda, compile.Bool(filter, field))
}

// DateMatch restricts q with a date match. Relative ranges read "now" once
// from q's resolver.
func DateMatch[T any](q Query[T], field expr.Accessor[T, *time.Time], m *match.DateMatch) (Query[T], error) {
	p, err := compile.Date(m, field, q.resolver)
	if err != nil {
		return Query[T]{}, fmt.Errorf("date match on %s: %w", describe(field.Lambda), err)
	}
	return apply(q, "date", field.Lambda, p), nil
}

// IDSetMatch restricts q to rows whose field is one of ids. An empty set
// leaves q unchanged.
func IDSetMatch[T any](q Query[T], field expr.Accessor[T, uuid.UUID], ids []uuid.UUID) Query[T] {
	return apply(q, "id_set", field.Lambda, compile.IDSet(ids, field))
}

// FilterByID restricts q to the identifiers in filter, read from IDColumn.
func FilterByID[T any](q Query[T], filter match.BaseFilter) Query[T] {
	return IDSetMatch(q, expr.Field[T, uuid.UUID](IDColumn), filter.IDs)
}

// AllCommonFilters applies every filter carried by a BaseFilter.
func AllCommonFilters[T any](q Query[T], filter match.BaseFilter) Query[T] {
	return FilterByID(q, filter)
}

// ApplyFilter dispatches on the runtime type of matchValue:
//
//	*match.StringMatch  field is expr.Accessor[T, string]
//	string              field is expr.Accessor[T, string] (exact, "" skips)
//	*bool, bool         field is expr.Accessor[T, bool]
//	*match.DateMatch    field is expr.Accessor[T, *time.Time]
//	[]uuid.UUID         field is expr.Accessor[T, uuid.UUID]
//	match.BaseFilter    field is ignored
//
// A nil matchValue, typed or not, leaves q unchanged whatever field is.
// Mismatched accessor types and unsupported values fail with
// match.ErrCodeInvalidArgument.
func ApplyFilter[T any](q Query[T], matchValue any, field any) (Query[T], error) {
	switch m := matchValue.(type) {
	case nil:
		return q, nil
	case *match.StringMatch:
		if m == nil {
			return q, nil
		}
		a, err := accessor[T, string](field, m)
		if err != nil {
			return Query[T]{}, err
		}
		return StringMatch(q, a, m)
	case string:
		a, err := accessor[T, string](field, m)
		if err != nil {
			return Query[T]{}, err
		}
		return ExactStringMatch(q, a, m), nil
	case *bool:
		if m == nil {
			return q, nil
		}
		a, err := accessor[T, bool](field, m)
		if err != nil {
			return Query[T]{}, err
		}
		return BooleanMatch(q, a, m), nil
	case bool:
		a, err := accessor[T, bool](field, m)
		if err != nil {
			return Query[T]{}, err
		}
		return BooleanMatch(q, a, &m), nil
	case *match.DateMatch:
		if m == nil {
			return q, nil
		}
		a, err := accessor[T, *time.Time](field, m)
		if err != nil {
			return Query[T]{}, err
		}
		return DateMatch(q, a, m)
	case []uuid.UUID:
		a, err := accessor[T, uuid.UUID](field, m)
		if err != nil {
			return Query[T]{}, err
		}
		return IDSetMatch(q, a, m), nil
	case match.BaseFilter:
		return AllCommonFilters(q, m), nil
	case *match.BaseFilter:
		if m == nil {
			return q, nil
		}
		return AllCommonFilters(q, *m), nil
	default:
		return Query[T]{}, match.Errorf(match.ErrCodeInvalidArgument, "unsupported match value %T", matchValue)
	}
}

func accessor[T, V any](field any, matchValue any) (expr.Accessor[T, V], error) {
	a, ok := field.(expr.Accessor[T, V])
	if !ok {
		var want expr.Accessor[T, V]
		return want, match.Errorf(match.ErrCodeInvalidArgument,
			"%T needs a field of type %T, got %T", matchValue, want, field)
	}
	return a, nil
}

func apply[T any](q Query[T], kind string, field expr.Lambda, p expr.Predicate[T]) Query[T] {
	if p.IsNoFilter() {
		slog.Debug("filter skipped", "source", q.source, "kind", kind, "field", describe(field))
		return q
	}
	slog.Debug("filter applied", "source", q.source, "kind", kind, "predicate", p.String())
	return q.Where(p)
}

func describe(field expr.Lambda) string {
	if field.Body == nil {
		return "<nil field>"
	}
	return expr.FormatExpr(field.Body)
}
