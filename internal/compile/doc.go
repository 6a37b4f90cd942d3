// Package compile turns match values into symbolic predicates.
//
// Each compiler writes its predicate against the primitive field type (a
// string, a bool, a *time.Time, an id) and lifts it onto the record type
// through the caller's accessor with expr.Lift. Absent match values compile
// to the zero predicate, which callers treat as "no filtering". Invalid match
// values fail with a *match.Error and never yield a partial predicate.
//
// Nothing here evaluates a predicate. The only input read at compile time is
// "now", taken once per Date call from the reldate.Resolver's clock.
package compile

import "github.com/roach88/matchq/internal/expr"

// value is the parameter primitive predicates are written against before
// lifting.
var value = expr.Param{Name: "v"}
