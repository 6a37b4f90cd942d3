package expr

import "fmt"

// Substitute returns a copy of e with every reference to param replaced by
// with. The replacement itself is not traversed again.
func Substitute(e Expr, param Param, with Expr) Expr {
	return Rewrite(e, func(n Expr) (Expr, bool) {
		if p, ok := n.(Param); ok && p.Name == param.Name {
			return with, true
		}
		return nil, false
	})
}

// Rewrite rebuilds e top-down. For each node, fn may return a replacement and
// true, in which case the replacement is used as-is and its children are not
// visited. Otherwise the node is copied with rewritten children.
//
// Rewrite never mutates e; slices in the result are freshly allocated.
func Rewrite(e Expr, fn func(Expr) (Expr, bool)) Expr {
	if e == nil {
		return nil
	}
	if repl, ok := fn(e); ok {
		return repl
	}

	switch n := e.(type) {
	case Param, Const:
		return n
	case Member:
		return Member{Target: Rewrite(n.Target, fn), Name: n.Name}
	case Lower:
		return Lower{Operand: Rewrite(n.Operand, fn)}
	case Compare:
		return Compare{Op: n.Op, Left: Rewrite(n.Left, fn), Right: Rewrite(n.Right, fn)}
	case StartsWith:
		return StartsWith{Operand: Rewrite(n.Operand, fn), Prefix: Rewrite(n.Prefix, fn)}
	case Contains:
		return Contains{Operand: Rewrite(n.Operand, fn), Substr: Rewrite(n.Substr, fn)}
	case In:
		set := make([]any, len(n.Set))
		copy(set, n.Set)
		return In{Operand: Rewrite(n.Operand, fn), Set: set}
	case IsNotNull:
		return IsNotNull{Operand: Rewrite(n.Operand, fn)}
	case And:
		return And{Operands: rewriteAll(n.Operands, fn)}
	case Or:
		return Or{Operands: rewriteAll(n.Operands, fn)}
	case Not:
		return Not{Operand: Rewrite(n.Operand, fn)}
	default:
		// Sealed interface: unreachable unless a node type is added without
		// updating this switch.
		panic(fmt.Sprintf("expr: unhandled node type %T", e))
	}
}

func rewriteAll(es []Expr, fn func(Expr) (Expr, bool)) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = Rewrite(e, fn)
	}
	return out
}

// Walk visits e and its descendants depth-first, parent before children.
// If fn returns false the children of that node are skipped.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch n := e.(type) {
	case Member:
		Walk(n.Target, fn)
	case Lower:
		Walk(n.Operand, fn)
	case Compare:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case StartsWith:
		Walk(n.Operand, fn)
		Walk(n.Prefix, fn)
	case Contains:
		Walk(n.Operand, fn)
		Walk(n.Substr, fn)
	case In:
		Walk(n.Operand, fn)
	case IsNotNull:
		Walk(n.Operand, fn)
	case And:
		for _, op := range n.Operands {
			Walk(op, fn)
		}
	case Or:
		for _, op := range n.Operands {
			Walk(op, fn)
		}
	case Not:
		Walk(n.Operand, fn)
	}
}
