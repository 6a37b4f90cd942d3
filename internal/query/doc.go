// Package query provides the immutable queryable value and the filter facade.
//
// A Query[T] names a source and carries a list of predicate conjuncts. It is
// a value: Where and every facade function return a new Query and never
// modify the receiver, so filters can be chained in any order and shared
// queries can be extended concurrently.
//
//	q := query.From[Invoice]("invoices")
//	q, err := query.StringMatch(q, customer, match.StartsWith("acme"))
//	q, err = query.DateMatch(q, paidOn, lastWeek)
//	q = query.BooleanMatch(q, archived, match.Ptr(false))
//
// Nothing is evaluated until a backend runs the query: Run evaluates it in
// memory, querysql translates it to SQL, and store executes that SQL.
package query
