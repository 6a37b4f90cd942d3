package expr

// DefaultParam is the parameter name used by constructors in this package.
const DefaultParam = "x"

// Lambda is a single-parameter expression: Param => Body.
type Lambda struct {
	Param Param
	Body  Expr
}

// Predicate is a boolean-valued Lambda over records of type T.
//
// The zero Predicate has a nil Body and means "no filtering". Compilers
// return it for absent match values and query.Query ignores it.
type Predicate[T any] struct {
	Lambda
}

// Accessor is a Lambda extracting a value of type V from a record of type T.
//
// Accessors must be pure: Lift treats the body as a substitutable
// sub-expression and may duplicate it.
type Accessor[T, V any] struct {
	Lambda
}

// NewPredicate creates a predicate over V with the given parameter and body.
func NewPredicate[V any](param Param, body Expr) Predicate[V] {
	return Predicate[V]{Lambda{Param: param, Body: body}}
}

// IsNoFilter reports whether p is the zero "no filtering" predicate.
func (p Predicate[T]) IsNoFilter() bool {
	return p.Body == nil
}

// Field returns an accessor reading the named field (column) of T.
//
// Example:
//
//	expr.Field[Invoice, *time.Time]("paid_on")
//
// is the lambda x => x.paid_on.
func Field[T, V any](name string) Accessor[T, V] {
	p := Param{Name: DefaultParam}
	return Accessor[T, V]{Lambda{Param: p, Body: Member{Target: p, Name: name}}}
}

// Then extends an accessor with a nested field read.
//
//	Then[Order, Customer, string](expr.Field[Order, Customer]("customer"), "email")
//
// is the lambda x => x.customer.email.
func Then[T, V, W any](a Accessor[T, V], name string) Accessor[T, W] {
	return Accessor[T, W]{Lambda{Param: a.Param, Body: Member{Target: a.Body, Name: name}}}
}

// Identity returns the accessor x => x.
func Identity[V any]() Accessor[V, V] {
	p := Param{Name: DefaultParam}
	return Accessor[V, V]{Lambda{Param: p, Body: p}}
}

// Lift rewrites a predicate over V into an equivalent predicate over T.
//
// Every reference to p's parameter is replaced by the accessor body and the
// result is re-bound to the accessor's parameter:
//
//	p = v => lower(v) == "abc"
//	a = x => x.name
//	Lift(p, a) = x => lower(x.name) == "abc"
//
// The result is a new tree; neither input is modified. Lifting the zero
// predicate yields the zero predicate.
func Lift[T, V any](p Predicate[V], a Accessor[T, V]) Predicate[T] {
	if p.IsNoFilter() {
		return Predicate[T]{}
	}
	body := Substitute(p.Body, p.Param, a.Body)
	return Predicate[T]{Lambda{Param: a.Param, Body: body}}
}

// Conjoin combines predicates over the same record type with AND.
//
// No-filter predicates are skipped, nested Ands are flattened, and all
// operands are re-bound to a single parameter. Conjoin of nothing (or only
// no-filter predicates) is the zero predicate.
func Conjoin[T any](preds ...Predicate[T]) Predicate[T] {
	param := Param{Name: DefaultParam}
	var operands []Expr
	for _, p := range preds {
		if p.IsNoFilter() {
			continue
		}
		body := p.Body
		if p.Param != param {
			body = Substitute(body, p.Param, param)
		}
		if and, ok := body.(And); ok {
			operands = append(operands, and.Operands...)
			continue
		}
		operands = append(operands, body)
	}

	switch len(operands) {
	case 0:
		return Predicate[T]{}
	case 1:
		return Predicate[T]{Lambda{Param: param, Body: operands[0]}}
	default:
		return Predicate[T]{Lambda{Param: param, Body: And{Operands: operands}}}
	}
}
