package expr

import "fmt"

// ValidationResult contains the structural analysis of a lambda.
type ValidationResult struct {
	// Valid is true when the lambda is closed and well formed.
	Valid bool

	// Problems lists every structural problem found. Empty when Valid.
	Problems []string
}

// Validate checks that a lambda is well formed:
//  1. The body references no parameter other than the lambda's own (closed)
//  2. No node has a nil child where one is required
//  3. Member names are non-empty
//
// An unbound parameter after Lift means the accessor and predicate were built
// against different parameters and the tree cannot be evaluated or
// translated.
//
// Validate is a pure function with no side effects.
func Validate(l Lambda) ValidationResult {
	v := &validator{param: l.Param, problems: []string{}}
	if l.Body == nil {
		v.addProblem("nil body")
	} else {
		v.validate(l.Body)
	}

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	param    Param
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) require(parent string, children ...Expr) bool {
	for _, c := range children {
		if c == nil {
			v.addProblem("%s with nil operand", parent)
			return false
		}
	}
	return true
}

func (v *validator) validate(e Expr) {
	switch n := e.(type) {
	case Param:
		if n.Name != v.param.Name {
			v.addProblem("unbound parameter %q (lambda binds %q)", n.Name, v.param.Name)
		}
	case Const:
	case Member:
		if n.Name == "" {
			v.addProblem("member with empty name")
		}
		if v.require("member", n.Target) {
			v.validate(n.Target)
		}
	case Lower:
		if v.require("lower", n.Operand) {
			v.validate(n.Operand)
		}
	case Compare:
		if v.require(fmt.Sprintf("compare %s", n.Op), n.Left, n.Right) {
			v.validate(n.Left)
			v.validate(n.Right)
		}
	case StartsWith:
		if v.require("startsWith", n.Operand, n.Prefix) {
			v.validate(n.Operand)
			v.validate(n.Prefix)
		}
	case Contains:
		if v.require("contains", n.Operand, n.Substr) {
			v.validate(n.Operand)
			v.validate(n.Substr)
		}
	case In:
		if v.require("in", n.Operand) {
			v.validate(n.Operand)
		}
	case IsNotNull:
		if v.require("isNotNull", n.Operand) {
			v.validate(n.Operand)
		}
	case And:
		for _, op := range n.Operands {
			if v.require("and", op) {
				v.validate(op)
			}
		}
	case Or:
		for _, op := range n.Operands {
			if v.require("or", op) {
				v.validate(op)
			}
		}
	case Not:
		if v.require("not", n.Operand) {
			v.validate(n.Operand)
		}
	default:
		v.addProblem("unknown node type %T", e)
	}
}
