// Package expr provides the symbolic predicate representation used by matchq.
//
// Predicates are expression trees, not closures. A tree can be rewritten
// (Lift), inspected (Walk, Validate, Format), evaluated in-process (Eval) or
// translated by a backend into its native filter form (see querysql).
//
// ARCHITECTURE:
//
//	[match values] → [compile] → [expr.Predicate[V]]
//	                                   │ Lift(field accessor)
//	                                   ▼
//	                            [expr.Predicate[T]] → [query.Query[T]]
//	                                                     │
//	                                      ┌──────────────┴─────────────┐
//	                                      ▼                            ▼
//	                              query.Run (Eval)            querysql (SQL text)
//
// SEALED INTERFACE:
//
// Expr is sealed using the marker method pattern. Only node types declared in
// this package implement it, so backends can switch exhaustively:
//
//	switch n := e.(type) {
//	case Member:
//	    // column reference
//	case Compare:
//	    // binary comparison
//	default:
//	    // unsupported by this backend
//	}
//
// LAMBDAS AND PHANTOM TYPES:
//
// A Lambda binds exactly one parameter. Predicate[T] and Accessor[T, V] wrap a
// Lambda and carry the record type T (and value type V) as phantom type
// parameters so that Lift can only combine a predicate over V with an accessor
// that produces V.
//
// NULL SEMANTICS:
//
// A missing or nil value never satisfies a comparison, a string test or a set
// membership test. Only IsNotNull observes nil directly. This mirrors what SQL
// backends do with NULL in a WHERE clause.
package expr
