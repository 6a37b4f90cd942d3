package query

import (
	"slices"

	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/reldate"
)

// Query is an immutable, deferred selection of records of type T.
type Query[T any] struct {
	source    string
	conjuncts []expr.Predicate[T]
	resolver  *reldate.Resolver
}

// From starts a query over the named source (table, collection).
func From[T any](source string) Query[T] {
	return Query[T]{source: source}
}

// Source returns the source name.
func (q Query[T]) Source() string {
	return q.source
}

// WithResolver returns a query whose relative date filters resolve "now"
// through r. Without one the system clock is used.
func (q Query[T]) WithResolver(r *reldate.Resolver) Query[T] {
	q.resolver = r
	return q
}

// Resolver returns the resolver used for relative date filters.
func (q Query[T]) Resolver() *reldate.Resolver {
	return q.resolver
}

// Where returns a query that additionally requires p.
//
// The zero predicate leaves the query unchanged.
func (q Query[T]) Where(p expr.Predicate[T]) Query[T] {
	if p.IsNoFilter() {
		return q
	}
	q.conjuncts = append(slices.Clip(q.conjuncts), p)
	return q
}

// Conjuncts returns a copy of the attached predicates in application order.
func (q Query[T]) Conjuncts() []expr.Predicate[T] {
	return slices.Clone(q.conjuncts)
}

// Predicate returns the AND of all attached predicates. A query without
// filters returns the zero predicate.
func (q Query[T]) Predicate() expr.Predicate[T] {
	return expr.Conjoin(q.conjuncts...)
}

// String renders the query for logs and diagnostics.
func (q Query[T]) String() string {
	return "from " + q.source + " where " + q.Predicate().String()
}
