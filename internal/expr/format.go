package expr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format renders a lambda as deterministic text, for logs and tests.
//
//	x => ((x.name != null) && (lower(x.name) == lower("Abc")))
//
// The zero lambda renders as "true".
func Format(l Lambda) string {
	if l.Body == nil {
		return "true"
	}
	return l.Param.Name + " => " + FormatExpr(l.Body)
}

// String implements fmt.Stringer.
func (p Predicate[T]) String() string {
	return Format(p.Lambda)
}

// FormatExpr renders a single expression.
func FormatExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case Param:
		b.WriteString(n.Name)
	case Member:
		writeExpr(b, n.Target)
		b.WriteByte('.')
		b.WriteString(n.Name)
	case Const:
		b.WriteString(formatConst(n.Value))
	case Lower:
		b.WriteString("lower(")
		writeExpr(b, n.Operand)
		b.WriteByte(')')
	case Compare:
		b.WriteByte('(')
		writeExpr(b, n.Left)
		b.WriteString(" " + string(n.Op) + " ")
		writeExpr(b, n.Right)
		b.WriteByte(')')
	case StartsWith:
		writeCall(b, "startsWith", n.Operand, n.Prefix)
	case Contains:
		writeCall(b, "contains", n.Operand, n.Substr)
	case In:
		b.WriteString("in(")
		writeExpr(b, n.Operand)
		b.WriteString(", [")
		for i, v := range n.Set {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatConst(v))
		}
		b.WriteString("])")
	case IsNotNull:
		b.WriteByte('(')
		writeExpr(b, n.Operand)
		b.WriteString(" != null)")
	case And:
		writeJoined(b, n.Operands, " && ", "true")
	case Or:
		writeJoined(b, n.Operands, " || ", "false")
	case Not:
		b.WriteByte('!')
		writeExpr(b, n.Operand)
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func writeCall(b *strings.Builder, name string, args ...Expr) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, a)
	}
	b.WriteByte(')')
}

func writeJoined(b *strings.Builder, ops []Expr, sep, empty string) {
	if len(ops) == 0 {
		b.WriteString(empty)
		return
	}
	b.WriteByte('(')
	for i, op := range ops {
		if i > 0 {
			b.WriteString(sep)
		}
		writeExpr(b, op)
	}
	b.WriteByte(')')
}

func formatConst(v any) string {
	switch c := normalize(v).(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(c)
	case time.Time:
		return strconv.Quote(c.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return strconv.Quote(c.String())
	default:
		return fmt.Sprint(c)
	}
}
