package expr

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// Eval evaluates a lambda against arg in-process.
//
// Eval is the reference semantics for every backend: a translated predicate
// must select exactly the records for which Eval returns true.
//
// Member access supports map[string]V (missing keys are nil) and structs
// (pointer or value). Struct fields are matched by `db` tag first, then by
// name ignoring case and underscores, so "created_on" finds CreatedOn.
// Promoted fields of embedded structs are visible.
func Eval(l Lambda, arg any) (any, error) {
	ev := evaluator{param: l.Param.Name, arg: arg}
	return ev.eval(l.Body)
}

// Test evaluates p against rec. The zero predicate matches everything.
func Test[T any](p Predicate[T], rec T) (bool, error) {
	if p.IsNoFilter() {
		return true, nil
	}
	v, err := Eval(p.Lambda, rec)
	if err != nil {
		return false, err
	}
	return truthy(v)
}

type evaluator struct {
	param string
	arg   any
}

func (ev evaluator) eval(e Expr) (any, error) {
	switch n := e.(type) {
	case Param:
		if n.Name != ev.param {
			return nil, fmt.Errorf("unbound parameter %q", n.Name)
		}
		return normalize(ev.arg), nil

	case Const:
		return normalize(n.Value), nil

	case Member:
		target, err := ev.evalRaw(n.Target)
		if err != nil {
			return nil, err
		}
		v, err := member(target, n.Name)
		if err != nil {
			return nil, err
		}
		return normalize(v), nil

	case Lower:
		v, err := ev.eval(n.Operand)
		if err != nil || v == nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("lower: operand is %T, not string", v)
		}
		return Fold(s), nil

	case Compare:
		return ev.evalCompare(n)

	case StartsWith:
		s, prefix, ok, err := ev.evalStrings(n.Operand, n.Prefix)
		if err != nil || !ok {
			return false, err
		}
		return strings.HasPrefix(s, prefix), nil

	case Contains:
		s, sub, ok, err := ev.evalStrings(n.Operand, n.Substr)
		if err != nil || !ok {
			return false, err
		}
		return strings.Contains(s, sub), nil

	case In:
		v, err := ev.eval(n.Operand)
		if err != nil || v == nil {
			return false, err
		}
		for _, candidate := range n.Set {
			eq, err := equal(v, normalize(candidate))
			if err != nil {
				return false, err
			}
			if eq {
				return true, nil
			}
		}
		return false, nil

	case IsNotNull:
		v, err := ev.eval(n.Operand)
		if err != nil {
			return false, err
		}
		return v != nil, nil

	case And:
		for _, op := range n.Operands {
			ok, err := ev.evalBool(op)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case Or:
		for _, op := range n.Operands {
			ok, err := ev.evalBool(op)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case Not:
		ok, err := ev.evalBool(n.Operand)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case nil:
		return nil, fmt.Errorf("nil expression")

	default:
		return nil, fmt.Errorf("unsupported node type %T", e)
	}
}

// evalRaw evaluates an expression used as a member target. Records are not
// normalized so that struct fields stay addressable by reflection.
func (ev evaluator) evalRaw(e Expr) (any, error) {
	switch n := e.(type) {
	case Param:
		if n.Name != ev.param {
			return nil, fmt.Errorf("unbound parameter %q", n.Name)
		}
		return ev.arg, nil
	case Member:
		target, err := ev.evalRaw(n.Target)
		if err != nil {
			return nil, err
		}
		return member(target, n.Name)
	default:
		return ev.eval(e)
	}
}

func (ev evaluator) evalBool(e Expr) (bool, error) {
	v, err := ev.eval(e)
	if err != nil {
		return false, err
	}
	return truthy(v)
}

func (ev evaluator) evalStrings(a, b Expr) (string, string, bool, error) {
	av, err := ev.eval(a)
	if err != nil {
		return "", "", false, err
	}
	bv, err := ev.eval(b)
	if err != nil {
		return "", "", false, err
	}
	if av == nil || bv == nil {
		return "", "", false, nil
	}
	as, aok := av.(string)
	bs, bok := bv.(string)
	if !aok || !bok {
		return "", "", false, fmt.Errorf("string test on %T and %T", av, bv)
	}
	return as, bs, true, nil
}

func (ev evaluator) evalCompare(n Compare) (any, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return false, err
	}
	right, err := ev.eval(n.Right)
	if err != nil {
		return false, err
	}
	if left == nil || right == nil {
		return false, nil
	}

	switch n.Op {
	case OpEq:
		return equal(left, right)
	case OpNe:
		eq, err := equal(left, right)
		return !eq, err
	}

	c, err := order(left, right)
	if err != nil {
		return false, err
	}
	switch n.Op {
	case OpLt:
		return c < 0, nil
	case OpLe:
		return c <= 0, nil
	case OpGt:
		return c > 0, nil
	case OpGe:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %q", n.Op)
	}
}

func truthy(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, fmt.Errorf("predicate produced %T, not bool", v)
	}
}

// normalize dereferences pointers and collapses named scalar types to their
// underlying kind: ints to int64, uints to uint64, floats to float64.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return int64(u)
		}
		return u
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return rv.Interface()
}

func equal(a, b any) (bool, error) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return false, fmt.Errorf("cannot compare time.Time with %T", b)
		}
		return at.Equal(bt), nil
	}
	if isNumber(a) && isNumber(b) {
		c, err := order(a, b)
		return c == 0, err
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false, fmt.Errorf("cannot compare %T with %T", a, b)
	}
	if !reflect.TypeOf(a).Comparable() {
		return false, fmt.Errorf("type %T is not comparable", a)
	}
	return a == b, nil
}

func order(a, b any) (int, error) {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), nil
		}
	case int64, uint64, float64:
		if isNumber(b) {
			af, bf := toFloat(a), toFloat(b)
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, fmt.Errorf("cannot order %T and %T", a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, uint64, float64:
		return true
	}
	return false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return math.NaN()
}

// member reads the named field from a map or struct value.
func member(v any, name string) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot read %q from map keyed by %s", name, rv.Type().Key())
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil

	case reflect.Struct:
		index, ok := fieldIndex(rv.Type(), name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q on %s", name, rv.Type())
		}
		fv, err := rv.FieldByIndexErr(index)
		if err != nil {
			// nil embedded pointer on the path
			return nil, nil
		}
		return fv.Interface(), nil

	default:
		return nil, fmt.Errorf("cannot read field %q from %s", name, rv.Type())
	}
}

func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	fields := reflect.VisibleFields(t)
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("db"), ","); tag == name {
			return f.Index, true
		}
	}
	plain := strings.ReplaceAll(name, "_", "")
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if strings.EqualFold(f.Name, plain) {
			return f.Index, true
		}
	}
	return nil, false
}
