package vm

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"pyvm/pkg/value"
)

// Builtins is the registry of native callables reachable by name from
// LOAD_GLOBAL when no global of that name exists.
type Builtins struct {
	m map[string]*value.Builtin
}

// NewBuiltins creates an empty registry.
func NewBuiltins() *Builtins {
	return &Builtins{m: make(map[string]*value.Builtin)}
}

// Register adds or replaces a builtin.
func (r *Builtins) Register(b *value.Builtin) {
	r.m[b.Name] = b
}

// Lookup finds a builtin by name.
func (r *Builtins) Lookup(name string) (*value.Builtin, bool) {
	b, ok := r.m[name]
	return b, ok
}

// Names returns the registered names in sorted order.
func (r *Builtins) Names() []string {
	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBuiltins returns the standard set; print writes to out.
func DefaultBuiltins(out io.Writer) *Builtins {
	r := NewBuiltins()
	for _, b := range []*value.Builtin{
		{Name: "print", Arity: -1, Fn: printTo(out)},
		{Name: "range", Arity: -1, Fn: builtinRange},
		{Name: "len", Arity: 1, Fn: builtinLen},
		{Name: "str", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			return value.NewStr(value.Str(args[0])), nil
		}},
		{Name: "repr", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			return value.NewStr(value.Repr(args[0])), nil
		}},
		{Name: "bool", Arity: -1, Fn: builtinBool},
		{Name: "int", Arity: 1, Fn: builtinInt},
		{Name: "float", Arity: 1, Fn: builtinFloat},
		{Name: "list", Arity: -1, Fn: sequence(value.NewList)},
		{Name: "tuple", Arity: -1, Fn: sequence(value.NewTuple)},
		{Name: "dict", Arity: -1, Fn: builtinDict},
		{Name: "abs", Arity: 1, Fn: builtinAbs},
		{Name: "min", Arity: -1, Fn: extremum("min", false)},
		{Name: "max", Arity: -1, Fn: extremum("max", true)},
		{Name: "sum", Arity: -1, Fn: builtinSum},
		{Name: "sorted", Arity: 1, Fn: builtinSorted},
	} {
		r.Register(b)
	}
	return r
}

func printTo(out io.Writer) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = value.Str(a)
		}
		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return value.None, err
		}
		return value.None, nil
	}
}

func builtinRange(args []value.Value) (value.Value, error) {
	bounds := make([]int64, len(args))
	for i, a := range args {
		n, err := a.AsInt64()
		if err != nil {
			return value.None, err
		}
		bounds[i] = n
	}
	switch len(bounds) {
	case 1:
		return value.NewRange(0, bounds[0], 1)
	case 2:
		return value.NewRange(bounds[0], bounds[1], 1)
	case 3:
		return value.NewRange(bounds[0], bounds[1], bounds[2])
	default:
		return value.None, fmt.Errorf("%w: range expected 1 to 3 arguments, got %d", value.ErrInvalidArgument, len(args))
	}
}

func builtinLen(args []value.Value) (value.Value, error) {
	n, err := value.Len(args[0])
	if err != nil {
		return value.None, err
	}
	return value.NewInt(n), nil
}

func builtinBool(args []value.Value) (value.Value, error) {
	switch len(args) {
	case 0:
		return value.False, nil
	case 1:
		return value.NewBool(value.Truthy(args[0])), nil
	default:
		return value.None, fmt.Errorf("%w: bool expected at most 1 argument, got %d", value.ErrInvalidArgument, len(args))
	}
}

func builtinInt(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind {
	case value.KindInt, value.KindBool:
		n, _ := v.AsInt64()
		return value.NewInt(n), nil
	case value.KindFloat:
		if math.IsNaN(v.F64) || math.IsInf(v.F64, 0) || math.Abs(v.F64) >= math.MaxInt64 {
			return value.None, fmt.Errorf("%w: cannot convert float %s to integer", value.ErrOverflow, value.Repr(v))
		}
		return value.NewInt(int64(v.F64)), nil
	case value.KindStr:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return value.None, fmt.Errorf("%w: invalid literal for int() with base 10: %s", value.ErrInvalidArgument, value.Repr(v))
		}
		return value.NewInt(n), nil
	}
	return value.None, fmt.Errorf("%w: int() argument must be a string or a number, not '%s'", value.ErrWrongKind, v.Kind)
}

func builtinFloat(args []value.Value) (value.Value, error) {
	v := args[0]
	if v.Kind == value.KindStr {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return value.None, fmt.Errorf("%w: could not convert string to float: %s", value.ErrInvalidArgument, value.Repr(v))
		}
		return value.NewFloat(f), nil
	}
	f, err := v.AsFloat64()
	if err != nil {
		return value.None, err
	}
	return value.NewFloat(f), nil
}

func sequence(build func(...value.Value) value.Value) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		switch len(args) {
		case 0:
			return build(), nil
		case 1:
			items, err := value.Collect(args[0])
			if err != nil {
				return value.None, err
			}
			return build(items...), nil
		default:
			return value.None, fmt.Errorf("%w: expected at most 1 argument, got %d", value.ErrInvalidArgument, len(args))
		}
	}
}

// builtinDict copies a dict or builds one from key/value pairs.
func builtinDict(args []value.Value) (value.Value, error) {
	d := value.NewDictStore()
	switch len(args) {
	case 0:
	case 1:
		if src, err := args[0].AsDict(); err == nil {
			var setErr error
			src.Items(func(k, v value.Value) bool {
				setErr = d.Set(k, v)
				return setErr == nil
			})
			if setErr != nil {
				return value.None, setErr
			}
			break
		}
		pairs, err := value.Collect(args[0])
		if err != nil {
			return value.None, err
		}
		for _, p := range pairs {
			kv, err := value.Collect(p)
			if err != nil {
				return value.None, err
			}
			if len(kv) != 2 {
				return value.None, fmt.Errorf("%w: dictionary update sequence element has length %d; 2 is required", value.ErrInvalidArgument, len(kv))
			}
			if err := d.Set(kv[0], kv[1]); err != nil {
				return value.None, err
			}
		}
	default:
		return value.None, fmt.Errorf("%w: dict expected at most 1 argument, got %d", value.ErrInvalidArgument, len(args))
	}
	return value.NewDict(d), nil
}

func builtinAbs(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind {
	case value.KindFloat:
		return value.NewFloat(math.Abs(v.F64)), nil
	case value.KindInt, value.KindBool:
		n, _ := v.AsInt64()
		if n == math.MinInt64 {
			return value.None, fmt.Errorf("%w: abs(%d)", value.ErrOverflow, n)
		}
		if n < 0 {
			n = -n
		}
		return value.NewInt(n), nil
	}
	return value.None, fmt.Errorf("%w: bad operand type for abs(): '%s'", value.ErrWrongKind, v.Kind)
}

// extremum implements min and max over either one iterable or several
// positional arguments.
func extremum(name string, greater bool) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		items := args
		if len(args) == 1 {
			var err error
			if items, err = value.Collect(args[0]); err != nil {
				return value.None, err
			}
		}
		if len(items) == 0 {
			return value.None, fmt.Errorf("%w: %s() arg is an empty sequence", value.ErrInvalidArgument, name)
		}
		best := items[0]
		for _, v := range items[1:] {
			var better bool
			var err error
			if greater {
				better, err = value.Less(best, v)
			} else {
				better, err = value.Less(v, best)
			}
			if err != nil {
				return value.None, err
			}
			if better {
				best = v
			}
		}
		return best, nil
	}
}

func builtinSum(args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.None, fmt.Errorf("%w: sum expected 1 or 2 arguments, got %d", value.ErrInvalidArgument, len(args))
	}
	total := value.NewInt(0)
	if len(args) == 2 {
		total = args[1]
	}
	items, err := value.Collect(args[0])
	if err != nil {
		return value.None, err
	}
	for _, v := range items {
		if total, err = value.Add(total, v); err != nil {
			return value.None, err
		}
	}
	return total, nil
}

func builtinSorted(args []value.Value) (value.Value, error) {
	items, err := value.Collect(args[0])
	if err != nil {
		return value.None, err
	}
	var cmpErr error
	sort.SliceStable(items, func(i, j int) bool {
		less, err := value.Less(items[i], items[j])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return less
	})
	if cmpErr != nil {
		return value.None, cmpErr
	}
	return value.NewList(items...), nil
}
