package value

import (
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota // unbound slot, never produced by an operation
	KindNone
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindTuple
	KindDict
	KindRange
	KindIterator
	KindFunction
	KindBuiltin
)

var kindNames = [...]string{
	KindUnknown:  "<unbound>",
	KindNone:     "NoneType",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindStr:      "str",
	KindList:     "list",
	KindTuple:    "tuple",
	KindDict:     "dict",
	KindRange:    "range",
	KindIterator: "iterator",
	KindFunction: "function",
	KindBuiltin:  "builtin_function_or_method",
}

// String returns the type name as the host language spells it.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value represents a dynamically-typed value on the operand stack.
//
// Scalars live inline. Containers, iterators and callables live behind Ref,
// which gives them reference identity.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	Bool bool
	Str  string
	Ref  any
}

// None is the single None value.
var None = Value{Kind: KindNone}

var (
	True  = Value{Kind: KindBool, Bool: true}
	False = Value{Kind: KindBool, Bool: false}
)

// NewBool creates a new boolean Value.
func NewBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// NewInt creates a new integer Value.
func NewInt(i int64) Value {
	return Value{Kind: KindInt, I64: i}
}

// NewFloat creates a new float Value.
func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, F64: f}
}

// NewStr creates a new string Value.
func NewStr(s string) Value {
	return Value{Kind: KindStr, Str: s}
}

// NewList wraps items in a fresh mutable list. The slice is not copied.
func NewList(items ...Value) Value {
	return Value{Kind: KindList, Ref: &List{Items: items}}
}

// NewTuple wraps items in a fresh immutable tuple. The slice is not copied.
func NewTuple(items ...Value) Value {
	return Value{Kind: KindTuple, Ref: &List{Items: items}}
}

// NewDict wraps d; a nil d creates an empty dict.
func NewDict(d *Dict) Value {
	if d == nil {
		d = NewDictStore()
	}
	return Value{Kind: KindDict, Ref: d}
}

// NewRange creates a range value.
func NewRange(start, stop, step int64) (Value, error) {
	if step == 0 {
		return None, fmt.Errorf("%w: range() arg 3 must not be zero", ErrInvalidArgument)
	}
	return Value{Kind: KindRange, Ref: &Range{Start: start, Stop: stop, Step: step}}, nil
}

// NewFunction creates a user-defined callable. Its body is resolved by
// whoever provides instruction streams, keyed by the returned pointer.
func NewFunction(name string) Value {
	return Value{Kind: KindFunction, Ref: &Function{Name: name}}
}

// NewBuiltin wraps a native callable.
func NewBuiltin(b *Builtin) Value {
	return Value{Kind: KindBuiltin, Ref: b}
}

// IsUnbound reports whether v is the zero Value.
func (v Value) IsUnbound() bool {
	return v.Kind == KindUnknown
}

// IsFalse reports whether v is exactly the False value.
func (v Value) IsFalse() bool {
	return v.Kind == KindBool && !v.Bool
}

// String renders the value as str() would.
func (v Value) String() string {
	return Str(v)
}

// AsInt64 converts an int or bool to int64.
func (v Value) AsInt64() (int64, error) {
	switch v.Kind {
	case KindInt:
		return v.I64, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: '%s' object cannot be interpreted as an integer", ErrWrongKind, v.Kind)
	}
}

// AsFloat64 converts a numeric value to float64.
func (v Value) AsFloat64() (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.F64, nil
	case KindInt, KindBool:
		i, _ := v.AsInt64()
		return float64(i), nil
	default:
		return 0, fmt.Errorf("%w: must be real number, not %s", ErrWrongKind, v.Kind)
	}
}

// AsList returns the backing store of a list or tuple.
func (v Value) AsList() (*List, error) {
	if l, ok := v.Ref.(*List); ok && (v.Kind == KindList || v.Kind == KindTuple) {
		return l, nil
	}
	return nil, fmt.Errorf("%w: expected list or tuple, got %s", ErrWrongKind, v.Kind)
}

// AsDict returns the backing store of a dict.
func (v Value) AsDict() (*Dict, error) {
	if d, ok := v.Ref.(*Dict); ok && v.Kind == KindDict {
		return d, nil
	}
	return nil, fmt.Errorf("%w: expected dict, got %s", ErrWrongKind, v.Kind)
}

// AsIterator returns the iterator behind v.
func (v Value) AsIterator() (*Iterator, error) {
	if it, ok := v.Ref.(*Iterator); ok && v.Kind == KindIterator {
		return it, nil
	}
	return nil, fmt.Errorf("%w: '%s' object is not an iterator", ErrWrongKind, v.Kind)
}

// AsFunction returns the user-defined callable behind v.
func (v Value) AsFunction() (*Function, error) {
	if fn, ok := v.Ref.(*Function); ok && v.Kind == KindFunction {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: expected function, got %s", ErrWrongKind, v.Kind)
}

// AsBuiltin returns the native callable behind v.
func (v Value) AsBuiltin() (*Builtin, error) {
	if b, ok := v.Ref.(*Builtin); ok && v.Kind == KindBuiltin {
		return b, nil
	}
	return nil, fmt.Errorf("%w: expected builtin, got %s", ErrWrongKind, v.Kind)
}

// Truthy implements the host truth test.
func Truthy(v Value) bool {
	switch v.Kind {
	case KindNone, KindUnknown:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.I64 != 0
	case KindFloat:
		return v.F64 != 0
	case KindStr:
		return v.Str != ""
	case KindList, KindTuple:
		return len(v.Ref.(*List).Items) > 0
	case KindDict:
		return v.Ref.(*Dict).Len() > 0
	case KindRange:
		return v.Ref.(*Range).Count() > 0
	default:
		return true
	}
}

// Is reports whether a and b are the same object. Scalars are treated as
// interned, so equal scalars of the same kind are identical.
func Is(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindFloat:
		return a.F64 == b.F64
	default:
		return a == b
	}
}
