package value

import (
	"fmt"
	"math"
	"strings"
)

// CmpOp identifies a rich comparison, in the host's cmp_op order.
type CmpOp int

const (
	CmpLt CmpOp = iota
	CmpLe
	CmpEq
	CmpNe
	CmpGt
	CmpGe
)

var cmpSymbols = [...]string{"<", "<=", "==", "!=", ">", ">="}

func (op CmpOp) String() string {
	if op < 0 || int(op) >= len(cmpSymbols) {
		return fmt.Sprintf("CmpOp(%d)", int(op))
	}
	return cmpSymbols[op]
}

// ParseCmpOp maps a comparator symbol to its CmpOp.
func ParseCmpOp(sym string) (CmpOp, bool) {
	for i, s := range cmpSymbols {
		if s == sym {
			return CmpOp(i), true
		}
	}
	return 0, false
}

// Valid reports whether op is one of the six supported comparators.
func (op CmpOp) Valid() bool {
	return op >= 0 && int(op) < len(cmpSymbols)
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat || v.Kind == KindBool
}

func unsupported(op string, a, b Value) error {
	return fmt.Errorf("%w: unsupported operand type(s) for %s: '%s' and '%s'", ErrWrongKind, op, a.Kind, b.Kind)
}

func addInt(a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return c, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return c, nil
}

// arith applies a numeric operator, promoting to float when either side is.
func arith(sym string, a, b Value, ints func(x, y int64) (int64, error), floats func(x, y float64) float64) (Value, error) {
	if a.Kind == KindFloat || b.Kind == KindFloat {
		x, _ := a.AsFloat64()
		y, _ := b.AsFloat64()
		return NewFloat(floats(x, y)), nil
	}
	x, _ := a.AsInt64()
	y, _ := b.AsInt64()
	r, err := ints(x, y)
	if err != nil {
		return None, err
	}
	return NewInt(r), nil
}

// Add computes a + b.
func Add(a, b Value) (Value, error) {
	switch {
	case isNumber(a) && isNumber(b):
		return arith("+", a, b, addInt, func(x, y float64) float64 { return x + y })
	case a.Kind == KindStr && b.Kind == KindStr:
		return NewStr(a.Str + b.Str), nil
	case (a.Kind == KindList || a.Kind == KindTuple) && a.Kind == b.Kind:
		l, r := a.Ref.(*List).Items, b.Ref.(*List).Items
		items := make([]Value, 0, len(l)+len(r))
		items = append(append(items, l...), r...)
		return Value{Kind: a.Kind, Ref: &List{Items: items}}, nil
	}
	return None, unsupported("+", a, b)
}

// InplaceAdd computes a += b. Lists are extended in place by any iterable.
func InplaceAdd(a, b Value) (Value, error) {
	if a.Kind == KindList {
		items, err := Collect(b)
		if err != nil {
			return None, err
		}
		l := a.Ref.(*List)
		l.Items = append(l.Items, items...)
		return a, nil
	}
	return Add(a, b)
}

// Sub computes a - b.
func Sub(a, b Value) (Value, error) {
	if !isNumber(a) || !isNumber(b) {
		return None, unsupported("-", a, b)
	}
	return arith("-", a, b, func(x, y int64) (int64, error) {
		if y == math.MinInt64 {
			return 0, fmt.Errorf("%w: %d - %d", ErrOverflow, x, y)
		}
		return addInt(x, -y)
	}, func(x, y float64) float64 { return x - y })
}

// MaxRepeatLen bounds the length of a sequence built by repetition.
const MaxRepeatLen = 1 << 28

// Mul computes a * b.
func Mul(a, b Value) (Value, error) {
	if isNumber(a) && isNumber(b) {
		return arith("*", a, b, mulInt, func(x, y float64) float64 { return x * y })
	}
	seq, count, err := repeatOperands(a, b)
	if err != nil {
		return None, err
	}
	switch seq.Kind {
	case KindStr:
		return NewStr(strings.Repeat(seq.Str, int(count))), nil
	case KindList, KindTuple:
		return Value{Kind: seq.Kind, Ref: &List{Items: repeat(seq.Ref.(*List).Items, count)}}, nil
	}
	return None, unsupported("*", a, b)
}

// InplaceMul computes a *= b. Lists are repeated in place.
func InplaceMul(a, b Value) (Value, error) {
	if a.Kind != KindList {
		return Mul(a, b)
	}
	_, count, err := repeatOperands(a, b)
	if err != nil {
		return None, err
	}
	l := a.Ref.(*List)
	l.Items = repeat(l.Items, count)
	return a, nil
}

// repeatOperands splits a sequence repetition into the sequence and a
// non-negative count, rejecting results longer than MaxRepeatLen.
func repeatOperands(a, b Value) (Value, int64, error) {
	seq, n := a, b
	if b.Kind == KindStr || b.Kind == KindList || b.Kind == KindTuple {
		seq, n = b, a
	}
	var size int
	switch seq.Kind {
	case KindStr:
		size = len(seq.Str)
	case KindList, KindTuple:
		size = len(seq.Ref.(*List).Items)
	default:
		return None, 0, unsupported("*", a, b)
	}
	if n.Kind != KindInt && n.Kind != KindBool {
		return None, 0, unsupported("*", a, b)
	}
	count, _ := n.AsInt64()
	if count <= 0 || size == 0 {
		return seq, 0, nil
	}
	if count > MaxRepeatLen/int64(size) {
		return None, 0, fmt.Errorf("%w: repeated %s of length %d by %d", ErrOverflow, seq.Kind, size, count)
	}
	return seq, count, nil
}

func repeat(src []Value, count int64) []Value {
	items := make([]Value, 0, len(src)*int(count))
	for i := int64(0); i < count; i++ {
		items = append(items, src...)
	}
	return items
}

// Equal implements ==. Values of unrelated kinds are never equal.
func Equal(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.Kind == KindFloat || b.Kind == KindFloat {
			x, _ := a.AsFloat64()
			y, _ := b.AsFloat64()
			return x == y
		}
		x, _ := a.AsInt64()
		y, _ := b.AsInt64()
		return x == y
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindStr:
		return a.Str == b.Str
	case KindList, KindTuple:
		l, r := a.Ref.(*List).Items, b.Ref.(*List).Items
		if len(l) != len(r) {
			return false
		}
		for i := range l {
			if !Equal(l[i], r[i]) {
				return false
			}
		}
		return true
	case KindDict:
		l, r := a.Ref.(*Dict), b.Ref.(*Dict)
		if l.Len() != r.Len() {
			return false
		}
		eq := true
		l.Items(func(k, v Value) bool {
			other, ok, _ := r.Get(k)
			eq = ok && Equal(v, other)
			return eq
		})
		return eq
	case KindRange:
		l, r := a.Ref.(*Range), b.Ref.(*Range)
		n := l.Count()
		if n != r.Count() {
			return false
		}
		return n == 0 || (l.Start == r.Start && (n == 1 || l.Step == r.Step))
	default:
		return a.Ref == b.Ref
	}
}

// compare returns -1, 0 or +1 for orderable operands.
func compare(sym string, a, b Value) (int, error) {
	switch {
	case isNumber(a) && isNumber(b):
		if a.Kind == KindFloat || b.Kind == KindFloat {
			x, _ := a.AsFloat64()
			y, _ := b.AsFloat64()
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		}
		x, _ := a.AsInt64()
		y, _ := b.AsInt64()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case a.Kind == KindStr && b.Kind == KindStr:
		return strings.Compare(a.Str, b.Str), nil
	case (a.Kind == KindList || a.Kind == KindTuple) && a.Kind == b.Kind:
		l, r := a.Ref.(*List).Items, b.Ref.(*List).Items
		for i := 0; i < len(l) && i < len(r); i++ {
			if Equal(l[i], r[i]) {
				continue
			}
			return compare(sym, l[i], r[i])
		}
		switch {
		case len(l) < len(r):
			return -1, nil
		case len(l) > len(r):
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: '%s' not supported between instances of '%s' and '%s'", ErrWrongKind, sym, a.Kind, b.Kind)
}

// Compare evaluates a OP b.
func Compare(op CmpOp, a, b Value) (bool, error) {
	switch op {
	case CmpEq:
		return Equal(a, b), nil
	case CmpNe:
		return !Equal(a, b), nil
	}
	if !op.Valid() {
		return false, fmt.Errorf("%w: comparator %s", ErrInvalidArgument, op)
	}
	// NaN never orders.
	if a.Kind == KindFloat && math.IsNaN(a.F64) || b.Kind == KindFloat && math.IsNaN(b.F64) {
		if isNumber(a) && isNumber(b) {
			return false, nil
		}
	}
	c, err := compare(op.String(), a, b)
	if err != nil {
		return false, err
	}
	switch op {
	case CmpLt:
		return c < 0, nil
	case CmpLe:
		return c <= 0, nil
	case CmpGt:
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

// Less is the ordering used by sorted, min and max.
func Less(a, b Value) (bool, error) {
	return Compare(CmpLt, a, b)
}

// Contains implements `item in container`.
func Contains(container, item Value) (bool, error) {
	switch container.Kind {
	case KindStr:
		if item.Kind != KindStr {
			return false, fmt.Errorf("%w: 'in <string>' requires string as left operand, not %s", ErrWrongKind, item.Kind)
		}
		return strings.Contains(container.Str, item.Str), nil
	case KindList, KindTuple:
		for _, v := range container.Ref.(*List).Items {
			if Equal(v, item) {
				return true, nil
			}
		}
		return false, nil
	case KindDict:
		_, ok, err := container.Ref.(*Dict).Get(item)
		return ok, err
	case KindRange:
		if item.Kind != KindInt && item.Kind != KindBool {
			return false, nil
		}
		i, _ := item.AsInt64()
		return container.Ref.(*Range).Has(i), nil
	case KindIterator:
		it := container.Ref.(*Iterator)
		for {
			v, ok := it.Next()
			if !ok {
				return false, nil
			}
			if Equal(v, item) {
				return true, nil
			}
		}
	}
	return false, fmt.Errorf("%w: argument of type '%s' is not iterable", ErrWrongKind, container.Kind)
}

// GetItem implements container[key].
func GetItem(container, key Value) (Value, error) {
	switch container.Kind {
	case KindList, KindTuple:
		items := container.Ref.(*List).Items
		i, err := index(key, len(items))
		if err != nil {
			return None, err
		}
		return items[i], nil
	case KindStr:
		runes := []rune(container.Str)
		i, err := index(key, len(runes))
		if err != nil {
			return None, err
		}
		return NewStr(string(runes[i])), nil
	case KindRange:
		r := container.Ref.(*Range)
		i, err := key.AsInt64()
		if err != nil {
			return None, fmt.Errorf("%w: range indices must be integers, not %s", ErrWrongKind, key.Kind)
		}
		n := r.Count()
		switch {
		case i >= 0 && uint64(i) < n:
			return NewInt(r.At(uint64(i))), nil
		case i < 0 && stepSize(i) <= n:
			return NewInt(r.At(n - stepSize(i))), nil
		}
		return None, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	case KindDict:
		v, ok, err := container.Ref.(*Dict).Get(key)
		if err != nil {
			return None, err
		}
		if !ok {
			return None, fmt.Errorf("%w: %s", ErrKeyNotFound, Repr(key))
		}
		return v, nil
	}
	return None, fmt.Errorf("%w: '%s' object is not subscriptable", ErrWrongKind, container.Kind)
}

// SetItem implements container[key] = val.
func SetItem(container, key, val Value) error {
	switch container.Kind {
	case KindDict:
		return container.Ref.(*Dict).Set(key, val)
	case KindList:
		l := container.Ref.(*List)
		i, err := index(key, len(l.Items))
		if err != nil {
			return err
		}
		l.Items[i] = val
		return nil
	}
	return fmt.Errorf("%w: '%s' object does not support item assignment", ErrWrongKind, container.Kind)
}

// Len implements len().
func Len(v Value) (int64, error) {
	switch v.Kind {
	case KindStr:
		return int64(len([]rune(v.Str))), nil
	case KindList, KindTuple:
		return int64(len(v.Ref.(*List).Items)), nil
	case KindDict:
		return int64(v.Ref.(*Dict).Len()), nil
	case KindRange:
		return v.Ref.(*Range).Len()
	}
	return 0, fmt.Errorf("%w: object of type '%s' has no len()", ErrWrongKind, v.Kind)
}
