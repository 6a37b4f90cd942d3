package expr

// Expr is a node in a predicate or accessor expression tree.
//
// This is a sealed interface - only types in this package implement it.
//
// Node types:
//   - Param: the free variable bound by the enclosing Lambda
//   - Member: field access on another expression (x.created_on)
//   - Const: a literal value
//   - Lower: locale-insensitive lowercase of a string operand
//   - Compare: binary comparison (==, !=, <, <=, >, >=)
//   - StartsWith, Contains: string tests
//   - In: membership in a literal set
//   - IsNotNull: presence test
//   - And, Or, Not: boolean connectives
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Param is a lambda parameter reference.
//
// Params are matched by name. Lift replaces every occurrence of the predicate's
// parameter with the accessor body, so names never need to be unique across
// trees.
type Param struct {
	Name string
}

func (Param) exprNode() {}

// Member is a named field read from Target.
//
// Example:
//
//	Member{Target: Param{Name: "x"}, Name: "created_on"}
//
// renders as x.created_on and translates to the SQL column created_on.
type Member struct {
	Target Expr
	Name   string
}

func (Member) exprNode() {}

// Const is a literal value.
//
// Supported values are strings, bools, signed and unsigned integers,
// time.Time and comparable identifier types such as uuid.UUID. A nil Value is
// the null literal.
type Const struct {
	Value any
}

func (Const) exprNode() {}

// Lower is the locale-insensitive lowercase of its operand (see Fold).
type Lower struct {
	Operand Expr
}

func (Lower) exprNode() {}

// CompareOp identifies a binary comparison operator.
type CompareOp string

const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// Compare is a binary comparison between two operands.
//
// Null on either side makes the comparison false, including for OpNe.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (Compare) exprNode() {}

// StartsWith is true when Operand begins with Prefix.
type StartsWith struct {
	Operand Expr
	Prefix  Expr
}

func (StartsWith) exprNode() {}

// Contains is true when Operand contains Substr.
type Contains struct {
	Operand Expr
	Substr  Expr
}

func (Contains) exprNode() {}

// In is true when Operand equals one of the literal values in Set.
// An empty Set never matches.
type In struct {
	Operand Expr
	Set     []any
}

func (In) exprNode() {}

// IsNotNull is true when Operand evaluates to a non-nil value.
type IsNotNull struct {
	Operand Expr
}

func (IsNotNull) exprNode() {}

// And is a conjunction. An empty And is true.
type And struct {
	Operands []Expr
}

func (And) exprNode() {}

// Or is a disjunction. An empty Or is false.
type Or struct {
	Operands []Expr
}

func (Or) exprNode() {}

// Not negates its operand.
type Not struct {
	Operand Expr
}

func (Not) exprNode() {}

