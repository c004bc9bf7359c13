package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Str renders v the way str() does.
func Str(v Value) string {
	if v.Kind == KindStr {
		return v.Str
	}
	return Repr(v)
}

// Repr renders v the way repr() does.
func Repr(v Value) string {
	switch v.Kind {
	case KindNone:
		return "None"
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return formatFloat(v.F64)
	case KindStr:
		return quote(v.Str)
	case KindList:
		return "[" + joinRepr(v.Ref.(*List).Items) + "]"
	case KindTuple:
		items := v.Ref.(*List).Items
		if len(items) == 1 {
			return "(" + Repr(items[0]) + ",)"
		}
		return "(" + joinRepr(items) + ")"
	case KindDict:
		var b strings.Builder
		b.WriteByte('{')
		first := true
		v.Ref.(*Dict).Items(func(k, val Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(Repr(k))
			b.WriteString(": ")
			b.WriteString(Repr(val))
			return true
		})
		b.WriteByte('}')
		return b.String()
	case KindRange:
		r := v.Ref.(*Range)
		if r.Step == 1 {
			return fmt.Sprintf("range(%d, %d)", r.Start, r.Stop)
		}
		return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
	case KindIterator:
		return fmt.Sprintf("<iterator object at %p>", v.Ref)
	case KindFunction:
		return fmt.Sprintf("<function %s at %p>", v.Ref.(*Function).Name, v.Ref)
	case KindBuiltin:
		return fmt.Sprintf("<built-in function %s>", v.Ref.(*Builtin).Name)
	default:
		return "<unbound>"
	}
}

func joinRepr(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Repr(item)
	}
	return strings.Join(parts, ", ")
}

// formatFloat follows the host's shortest round-trip repr: positional
// notation for exponents in [-4, 16), scientific otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	_, e, _ := strings.Cut(sci, "e")
	if exp, _ := strconv.Atoi(e); exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// FromGo converts decoded config or document data into a Value. Sequences
// become lists unless frozen is set, in which case they become tuples.
func FromGo(x any, frozen bool) (Value, error) {
	switch t := x.(type) {
	case nil:
		return None, nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return None, fmt.Errorf("%w: %d", ErrOverflow, t)
		}
		return NewInt(int64(t)), nil
	case float64:
		return NewFloat(t), nil
	case string:
		return NewStr(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			v, err := FromGo(e, frozen)
			if err != nil {
				return None, err
			}
			items[i] = v
		}
		if frozen {
			return NewTuple(items...), nil
		}
		return NewList(items...), nil
	case map[string]any:
		d := NewDictStore()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, err := FromGo(t[k], frozen)
			if err != nil {
				return None, err
			}
			if err := d.Set(NewStr(k), v); err != nil {
				return None, err
			}
		}
		return NewDict(d), nil
	default:
		return None, fmt.Errorf("%w: cannot convert %T", ErrWrongKind, x)
	}
}
