package compile

import (
	"strings"
	"time"

	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/match"
	"github.com/roach88/matchq/internal/reldate"
)

// Date compiles a date match into a half-open interval test.
//
// Every predicate starts with field != null, so null values never match.
//
//	Exact     [startOfDay(date), startOfDay(date)+1 day)
//	Absolute  [onOrAfter, before), each bound optional; floored to midnight
//	          unless IncludeTime is set
//	Relative  offsets resolved through r against a single reading of its
//	          clock; full precision when a zone is given, day precision
//	          otherwise
//
// A nil match is no filtering. A nil resolver reads the system clock.
func Date[T any](m *match.DateMatch, field expr.Accessor[T, *time.Time], r *reldate.Resolver) (expr.Predicate[T], error) {
	if m == nil {
		return expr.Predicate[T]{}, nil
	}
	if err := m.Validate(); err != nil {
		return expr.Predicate[T]{}, err
	}

	var (
		body expr.Expr
		err  error
	)
	switch m.Kind {
	case match.DateMatchExact:
		start := startOfDay(*m.ExactDate)
		end := start.AddDate(0, 0, 1)
		body, err = interval(&start, &end, true, m.Kind.String())

	case match.DateMatchRange:
		body, err = rangeBody(m.Range, r)
	}
	if err != nil {
		return expr.Predicate[T]{}, err
	}

	return expr.Lift(expr.NewPredicate[*time.Time](value, body), field), nil
}

func rangeBody(dr *match.DateRange, r *reldate.Resolver) (expr.Expr, error) {
	switch dr.Kind {
	case match.RangeAbsolute:
		a := dr.Absolute
		return interval(a.OnOrAfter, a.Before, a.IncludesTime(), dr.Kind.String())

	case match.RangeRelative:
		rel := dr.Relative
		start, end, err := r.ResolveRange(rel.StartDateOffsetDays, rel.EndDateOffsetDays, rel.TimeZone)
		if err != nil {
			return nil, err
		}
		zoned := strings.TrimSpace(rel.TimeZone) != ""
		return interval(start, end, zoned, dr.Kind.String())

	default:
		return nil, match.Errorf(match.ErrCodeUndefinedRangeType, "unknown range type: %s", dr.Kind)
	}
}

// interval builds v != null && v >= start && v < end, omitting absent
// bounds. Without includeTime both bounds are floored to midnight.
func interval(start, end *time.Time, includeTime bool, label string) (expr.Expr, error) {
	if start == nil && end == nil {
		return nil, match.Errorf(match.ErrCodeInvalidDateRange, "%s date range has neither a start nor an end", label)
	}

	operands := []expr.Expr{expr.IsNotNull{Operand: value}}
	if start != nil {
		operands = append(operands, expr.Compare{Op: expr.OpGe, Left: value, Right: expr.Const{Value: bound(*start, includeTime)}})
	}
	if end != nil {
		operands = append(operands, expr.Compare{Op: expr.OpLt, Left: value, Right: expr.Const{Value: bound(*end, includeTime)}})
	}
	return expr.And{Operands: operands}, nil
}

func bound(t time.Time, includeTime bool) time.Time {
	if includeTime {
		return t
	}
	return startOfDay(t)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
