package value

import (
	"fmt"
	"math"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// List backs both lists and tuples.
type List struct {
	Items []Value
}

// index normalises a possibly negative index against n.
func index(k Value, n int) (int, error) {
	i, err := k.AsInt64()
	if err != nil {
		return 0, fmt.Errorf("%w: indices must be integers, not %s", ErrWrongKind, k.Kind)
	}
	j := i
	if j < 0 {
		j += int64(n)
	}
	if j < 0 || j >= int64(n) {
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return int(j), nil
}

// Range is a lazy arithmetic progression.
type Range struct {
	Start, Stop, Step int64
}

// Count returns the number of elements in the range. Spans are measured in
// uint64 so that ranges crossing the int64 limits keep their length.
func (r *Range) Count() uint64 {
	switch {
	case r.Step > 0 && r.Start < r.Stop:
		return (uint64(r.Stop)-uint64(r.Start)-1)/uint64(r.Step) + 1
	case r.Step < 0 && r.Start > r.Stop:
		return (uint64(r.Start)-uint64(r.Stop)-1)/stepSize(r.Step) + 1
	default:
		return 0
	}
}

// Len returns the number of elements, failing when it exceeds int64.
func (r *Range) Len() (int64, error) {
	n := r.Count()
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: range length %d", ErrOverflow, n)
	}
	return int64(n), nil
}

// At returns the i-th element; i must be within [0, Count()).
func (r *Range) At(i uint64) int64 {
	return int64(uint64(r.Start) + i*uint64(r.Step))
}

// Has reports whether i is an element of the range.
func (r *Range) Has(i int64) bool {
	switch {
	case r.Step > 0 && r.Start <= i && i < r.Stop:
		return (uint64(i)-uint64(r.Start))%uint64(r.Step) == 0
	case r.Step < 0 && r.Stop < i && i <= r.Start:
		return (uint64(r.Start)-uint64(i))%stepSize(r.Step) == 0
	default:
		return false
	}
}

// stepSize is |step| for a negative step, exact for math.MinInt64.
func stepSize(step int64) uint64 {
	return uint64(-(step + 1)) + 1
}

// Function is a user-defined callable. It carries only a name; the
// instruction stream is looked up by pointer identity.
type Function struct {
	Name string
}

// Builtin is a host-provided callable invoked without a frame.
type Builtin struct {
	Name  string
	Arity int // -1 for variadic
	Fn    func(args []Value) (Value, error)
}

// AcceptsArgs reports whether n positional arguments match the declared arity.
func (b *Builtin) AcceptsArgs(n int) bool {
	return b.Arity < 0 || b.Arity == n
}

// Dict is an insertion-ordered mapping keyed by hashable values.
type Dict struct {
	m *linkedhashmap.Map
}

type entry struct {
	key Value
	val Value
}

// hashKey is the comparable form of a hashable Value. Numerically equal
// bool, int and integral float values collapse to the same key.
type hashKey struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func keyOf(v Value) (hashKey, error) {
	switch v.Kind {
	case KindNone:
		return hashKey{kind: KindNone}, nil
	case KindBool, KindInt:
		i, _ := v.AsInt64()
		return hashKey{kind: KindInt, i: i}, nil
	case KindFloat:
		if v.F64 == math.Trunc(v.F64) && math.Abs(v.F64) < math.MaxInt64 {
			return hashKey{kind: KindInt, i: int64(v.F64)}, nil
		}
		return hashKey{kind: KindFloat, f: v.F64}, nil
	case KindStr:
		return hashKey{kind: KindStr, s: v.Str}, nil
	case KindTuple:
		parts := make([]string, 0, len(v.Ref.(*List).Items))
		for _, item := range v.Ref.(*List).Items {
			k, err := keyOf(item)
			if err != nil {
				return hashKey{}, err
			}
			parts = append(parts, fmt.Sprintf("%d|%d|%g|%q", k.kind, k.i, k.f, k.s))
		}
		return hashKey{kind: KindTuple, s: strings.Join(parts, ",")}, nil
	case KindFunction, KindBuiltin:
		return hashKey{kind: v.Kind, s: fmt.Sprintf("%p", v.Ref)}, nil
	default:
		return hashKey{}, fmt.Errorf("%w: '%s'", ErrUnhashable, v.Kind)
	}
}

// NewDictStore creates an empty dict store.
func NewDictStore() *Dict {
	return &Dict{m: linkedhashmap.New()}
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return d.m.Size()
}

// Set stores val under key. Re-assigning an existing key keeps both its
// original key object and its position.
func (d *Dict) Set(key, val Value) error {
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	if old, ok := d.m.Get(k); ok {
		key = old.(entry).key
	}
	d.m.Put(k, entry{key: key, val: val})
	return nil
}

// Get looks up key.
func (d *Dict) Get(key Value) (Value, bool, error) {
	k, err := keyOf(key)
	if err != nil {
		return None, false, err
	}
	e, ok := d.m.Get(k)
	if !ok {
		return None, false, nil
	}
	return e.(entry).val, true, nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	keys := make([]Value, 0, d.m.Size())
	it := d.m.Iterator()
	for it.Next() {
		keys = append(keys, it.Value().(entry).key)
	}
	return keys
}

// Items calls fn for every entry in insertion order until fn returns false.
func (d *Dict) Items(fn func(key, val Value) bool) {
	it := d.m.Iterator()
	for it.Next() {
		e := it.Value().(entry)
		if !fn(e.key, e.val) {
			return
		}
	}
}

// Iterator yields values one at a time.
type Iterator struct {
	next func() (Value, bool)
}

// NewIterator wraps a generator function.
func NewIterator(next func() (Value, bool)) Value {
	return Value{Kind: KindIterator, Ref: &Iterator{next: next}}
}

// Next advances the iterator. Once exhausted it stays exhausted.
func (it *Iterator) Next() (Value, bool) {
	if it.next == nil {
		return None, false
	}
	v, ok := it.next()
	if !ok {
		it.next = nil
	}
	return v, ok
}

// Iter returns an iterator over v. Iterating an iterator returns it.
func Iter(v Value) (Value, error) {
	switch v.Kind {
	case KindIterator:
		return v, nil
	case KindList, KindTuple:
		l := v.Ref.(*List)
		i := 0
		return NewIterator(func() (Value, bool) {
			if i >= len(l.Items) {
				return None, false
			}
			i++
			return l.Items[i-1], true
		}), nil
	case KindStr:
		runes := []rune(v.Str)
		i := 0
		return NewIterator(func() (Value, bool) {
			if i >= len(runes) {
				return None, false
			}
			i++
			return NewStr(string(runes[i-1])), true
		}), nil
	case KindDict:
		keys := v.Ref.(*Dict).Keys()
		i := 0
		return NewIterator(func() (Value, bool) {
			if i >= len(keys) {
				return None, false
			}
			i++
			return keys[i-1], true
		}), nil
	case KindRange:
		r := v.Ref.(*Range)
		n := r.Count()
		var i uint64
		return NewIterator(func() (Value, bool) {
			if i >= n {
				return None, false
			}
			i++
			return NewInt(r.At(i - 1)), true
		}), nil
	default:
		return None, fmt.Errorf("%w: '%s' object is not iterable", ErrWrongKind, v.Kind)
	}
}

// Collect drains any iterable into a slice.
func Collect(v Value) ([]Value, error) {
	if v.Kind == KindList || v.Kind == KindTuple {
		return append([]Value(nil), v.Ref.(*List).Items...), nil
	}
	itv, err := Iter(v)
	if err != nil {
		return nil, err
	}
	it := itv.Ref.(*Iterator)
	var out []Value
	for {
		item, ok := it.Next()
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}
