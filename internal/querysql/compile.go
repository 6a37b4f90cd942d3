package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/query"
)

// Compiler renders queries as parameterized SELECT statements.
//
// CRITICAL: All values are parameterized, never interpolated.
// CRITICAL: Every statement ends with ORDER BY id.
type Compiler struct {
	Dialect Dialect

	// Columns is the select list; empty selects every column.
	Columns []string
}

// NewCompiler creates a Compiler selecting every column.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{Dialect: d}
}

// Compile renders q as a SELECT statement with its parameters.
func Compile[T any](c *Compiler, q query.Query[T]) (string, []any, error) {
	return c.CompileSelect(q.Source(), q.Predicate().Lambda)
}

// CompileSelect renders SELECT ... FROM source WHERE where ORDER BY id.
// A nil where body selects every row.
func (c *Compiler) CompileSelect(source string, where expr.Lambda) (string, []any, error) {
	from, err := QuoteIdent(source)
	if err != nil {
		return "", nil, fmt.Errorf("compile select: %w", err)
	}
	cols, err := c.selectList()
	if err != nil {
		return "", nil, fmt.Errorf("compile select: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", cols, from)

	var args []any
	if where.Body != nil {
		w := &whereBuilder{dialect: c.Dialect, param: where.Param.Name}
		cond, err := w.predicate(where.Body)
		if err != nil {
			return "", nil, fmt.Errorf("compile where on %s: %w", source, err)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(cond)
		args = w.args
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(c.Dialect.orderBy())
	return sb.String(), args, nil
}

// CompileWhere renders only the condition of where, for callers assembling
// their own statements. Placeholders are numbered from 1.
func (c *Compiler) CompileWhere(where expr.Lambda) (string, []any, error) {
	if where.Body == nil {
		return "1 = 1", nil, nil
	}
	w := &whereBuilder{dialect: c.Dialect, param: where.Param.Name}
	cond, err := w.predicate(where.Body)
	if err != nil {
		return "", nil, err
	}
	return cond, w.args, nil
}

func (c *Compiler) selectList() (string, error) {
	if len(c.Columns) == 0 {
		return "*", nil
	}
	parts := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		q, err := QuoteIdent(col)
		if err != nil {
			return "", err
		}
		parts[i] = q
	}
	return strings.Join(parts, ", "), nil
}

type whereBuilder struct {
	dialect Dialect
	param   string
	args    []any
}

func (w *whereBuilder) bind(v any) (string, error) {
	p, err := w.dialect.EncodeValue(v)
	if err != nil {
		return "", err
	}
	w.args = append(w.args, p)
	return w.dialect.Placeholder(len(w.args)), nil
}

// predicate renders a boolean-valued node.
func (w *whereBuilder) predicate(e expr.Expr) (string, error) {
	switch n := e.(type) {
	case expr.Compare:
		left, err := w.scalar(n.Left)
		if err != nil {
			return "", err
		}
		right, err := w.scalar(n.Right)
		if err != nil {
			return "", err
		}
		op, err := sqlOperator(n.Op)
		if err != nil {
			return "", err
		}
		return left + " " + op + " " + right, nil

	case expr.StartsWith:
		return w.like(n.Operand, n.Prefix, "", "%")

	case expr.Contains:
		return w.like(n.Operand, n.Substr, "%", "%")

	case expr.In:
		operand, err := w.scalar(n.Operand)
		if err != nil {
			return "", err
		}
		if len(n.Set) == 0 {
			return "1 = 0", nil
		}
		marks := make([]string, len(n.Set))
		for i, v := range n.Set {
			if marks[i], err = w.bind(v); err != nil {
				return "", err
			}
		}
		return operand + " IN (" + strings.Join(marks, ", ") + ")", nil

	case expr.IsNotNull:
		operand, err := w.scalar(n.Operand)
		if err != nil {
			return "", err
		}
		return operand + " IS NOT NULL", nil

	case expr.And:
		return w.join(n.Operands, " AND ", "1 = 1")

	case expr.Or:
		return w.join(n.Operands, " OR ", "1 = 0")

	case expr.Not:
		inner, err := w.predicate(n.Operand)
		if err != nil {
			return "", err
		}
		// A NULL comparison is false in-process; keep NOT of it true.
		return "NOT COALESCE((" + inner + "), 1 = 0)", nil

	case expr.Member:
		return w.scalar(n)

	case expr.Const:
		b, ok := n.Value.(bool)
		if !ok {
			return "", fmt.Errorf("constant %v used as a condition", n.Value)
		}
		if b {
			return "1 = 1", nil
		}
		return "1 = 0", nil

	default:
		return "", fmt.Errorf("unsupported predicate node %T", e)
	}
}

// scalar renders a value-producing node.
func (w *whereBuilder) scalar(e expr.Expr) (string, error) {
	switch n := e.(type) {
	case expr.Member:
		p, ok := n.Target.(expr.Param)
		if !ok {
			return "", fmt.Errorf("nested field %s is not a column", expr.FormatExpr(n))
		}
		if p.Name != w.param {
			return "", fmt.Errorf("unbound parameter %q", p.Name)
		}
		return QuoteIdent(n.Name)

	case expr.Const:
		return w.bind(n.Value)

	case expr.Lower:
		if c, ok := n.Operand.(expr.Const); ok {
			s, err := constString(c)
			if err != nil {
				return "", err
			}
			return w.bind(expr.Fold(s))
		}
		inner, err := w.scalar(n.Operand)
		if err != nil {
			return "", err
		}
		return w.dialect.fold(inner), nil

	case expr.Param:
		return "", fmt.Errorf("bare parameter %q has no column form", n.Name)

	default:
		return "", fmt.Errorf("unsupported value node %T", e)
	}
}

func (w *whereBuilder) like(operand, pattern expr.Expr, prefix, suffix string) (string, error) {
	col, err := w.scalar(operand)
	if err != nil {
		return "", err
	}

	var text string
	switch p := pattern.(type) {
	case expr.Const:
		if text, err = constString(p); err != nil {
			return "", err
		}
	case expr.Lower:
		c, ok := p.Operand.(expr.Const)
		if !ok {
			return "", fmt.Errorf("pattern %s is not a constant", expr.FormatExpr(p))
		}
		if text, err = constString(c); err != nil {
			return "", err
		}
		text = expr.Fold(text)
	default:
		return "", fmt.Errorf("pattern %s is not a constant", expr.FormatExpr(pattern))
	}

	mark, err := w.bind(prefix + escapeLike(text) + suffix)
	if err != nil {
		return "", err
	}
	return col + " LIKE " + mark + ` ESCAPE '\'`, nil
}

func (w *whereBuilder) join(ops []expr.Expr, sep, empty string) (string, error) {
	if len(ops) == 0 {
		return empty, nil
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		s, err := w.predicate(op)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func sqlOperator(op expr.CompareOp) (string, error) {
	switch op {
	case expr.OpEq:
		return "=", nil
	case expr.OpNe:
		return "<>", nil
	case expr.OpLt:
		return "<", nil
	case expr.OpLe:
		return "<=", nil
	case expr.OpGt:
		return ">", nil
	case expr.OpGe:
		return ">=", nil
	default:
		return "", fmt.Errorf("unknown comparison operator %q", op)
	}
}

func constString(c expr.Const) (string, error) {
	s, ok := deref(c.Value).(string)
	if !ok {
		return "", fmt.Errorf("expected string constant, got %T", c.Value)
	}
	return s, nil
}

// escapeLike escapes LIKE wildcards with a backslash.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
