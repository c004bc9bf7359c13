package vm

import (
	"fmt"
	"strings"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

// Stack orders: TOS is popped first. PopN returns values bottom first, so
// for `a b c` (c on top) PopN(3) yields [a, b, c].

func (vm *VM) popTop(f *Frame, _ bytecode.Instruction) error {
	_, err := f.Pop()
	return err
}

// a b c -> c a b
func (vm *VM) rotThree(f *Frame, _ bytecode.Instruction) error {
	vs, err := f.PopN(3)
	if err != nil {
		return err
	}
	f.Push(vs[2], vs[0], vs[1])
	return nil
}

// a b -> a b a b
func (vm *VM) dupTopTwo(f *Frame, _ bytecode.Instruction) error {
	vs, err := f.PopN(2)
	if err != nil {
		return err
	}
	f.Push(vs...)
	f.Push(vs...)
	return nil
}

func (vm *VM) loadFast(f *Frame, in bytecode.Instruction) error {
	v, err := f.Local(in.Arg)
	if err != nil {
		return err
	}
	f.Push(v)
	return nil
}

func (vm *VM) storeFast(f *Frame, in bytecode.Instruction) error {
	v, err := f.Pop()
	if err != nil {
		return err
	}
	return f.SetLocal(in.Arg, v)
}

func (vm *VM) loadConst(f *Frame, in bytecode.Instruction) error {
	if in.Arg < 0 || in.Arg >= len(f.code.Consts) {
		return fmt.Errorf("%w: constant %d of %d", ErrUnsupportedOperand, in.Arg, len(f.code.Consts))
	}
	f.Push(f.code.Consts[in.Arg])
	return nil
}

// loadGlobal resolves globals first and the built-in registry second.
func (vm *VM) loadGlobal(f *Frame, in bytecode.Instruction) error {
	if v, ok := vm.globals.Get(in.Name); ok {
		f.Push(v)
		return nil
	}
	if b, ok := vm.builtins.Lookup(in.Name); ok {
		f.Push(value.NewBuiltin(b))
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUndefinedName, in.Name)
}

func (vm *VM) storeGlobal(f *Frame, in bytecode.Instruction) error {
	v, err := f.Pop()
	if err != nil {
		return err
	}
	return vm.globals.Assign(in.Name, v)
}

// binary pops the right operand, then the left, and pushes op(left, right).
func (vm *VM) binary(op func(a, b value.Value) (value.Value, error)) handler {
	return func(f *Frame, in bytecode.Instruction) error {
		vs, err := f.PopN(2)
		if err != nil {
			return err
		}
		res, err := op(vs[0], vs[1])
		if err != nil {
			return err
		}
		f.Push(res)
		return nil
	}
}

func (vm *VM) compareOp(f *Frame, in bytecode.Instruction) error {
	op := value.CmpOp(in.Arg)
	if !op.Valid() {
		return fmt.Errorf("%w: comparator %d", ErrUnsupportedOperand, in.Arg)
	}
	vs, err := f.PopN(2)
	if err != nil {
		return err
	}
	ok, err := value.Compare(op, vs[0], vs[1])
	if err != nil {
		return err
	}
	f.Push(value.NewBool(ok))
	return nil
}

// popJumpIfFalse jumps only when the popped value is exactly False; any
// other value, falsy or not, falls through.
func (vm *VM) popJumpIfFalse(f *Frame, in bytecode.Instruction) error {
	cond, err := f.Pop()
	if err != nil {
		return err
	}
	if cond.IsFalse() {
		return jump(f, in.Target)
	}
	return nil
}

func (vm *VM) jumpAbsolute(f *Frame, in bytecode.Instruction) error {
	return jump(f, in.Target)
}

func (vm *VM) jumpForward(f *Frame, in bytecode.Instruction) error {
	return jumpDelta(f, in.Arg)
}

func (vm *VM) getIter(f *Frame, _ bytecode.Instruction) error {
	v, err := f.Pop()
	if err != nil {
		return err
	}
	it, err := value.Iter(v)
	if err != nil {
		return err
	}
	f.Push(it)
	return nil
}

// forIter leaves the iterator in place while it yields; once exhausted the
// iterator is popped and control leaves the loop.
func (vm *VM) forIter(f *Frame, in bytecode.Instruction) error {
	top, err := f.Peek()
	if err != nil {
		return err
	}
	it, err := top.AsIterator()
	if err != nil {
		return err
	}
	if next, ok := it.Next(); ok {
		f.Push(next)
		return nil
	}
	if _, err := f.Pop(); err != nil {
		return err
	}
	return jump(f, in.Target)
}

func (vm *VM) callFunction(f *Frame, in bytecode.Instruction) error {
	args, err := f.PopN(in.Arg)
	if err != nil {
		return err
	}
	callee, err := f.Pop()
	if err != nil {
		return err
	}
	res, err := vm.call(callee, args, f.depth)
	if err != nil {
		return err
	}
	f.Push(res)
	return nil
}

func (vm *VM) returnValue(f *Frame, _ bytecode.Instruction) error {
	v, err := f.Pop()
	if err != nil {
		return err
	}
	f.result = v
	f.returned = true
	return nil
}

// formatValue supports only the default conversion; !s, !r, !a and format
// specs are not implemented.
func (vm *VM) formatValue(f *Frame, in bytecode.Instruction) error {
	if in.Arg != 0 {
		return fmt.Errorf("%w: format_value %d not implemented", ErrUnsupportedOperand, in.Arg)
	}
	v, err := f.Pop()
	if err != nil {
		return err
	}
	f.Push(value.NewStr(value.Str(v)))
	return nil
}

func (vm *VM) buildString(f *Frame, in bytecode.Instruction) error {
	vs, err := f.PopN(in.Arg)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, v := range vs {
		if v.Kind != value.KindStr {
			return fmt.Errorf("%w: build_string got %s", value.ErrWrongKind, v.Kind)
		}
		b.WriteString(v.Str)
	}
	f.Push(value.NewStr(b.String()))
	return nil
}

func (vm *VM) buildList(f *Frame, in bytecode.Instruction) error {
	vs, err := f.PopN(in.Arg)
	if err != nil {
		return err
	}
	f.Push(value.NewList(vs...))
	return nil
}

func (vm *VM) buildTuple(f *Frame, in bytecode.Instruction) error {
	vs, err := f.PopN(in.Arg)
	if err != nil {
		return err
	}
	f.Push(value.NewTuple(vs...))
	return nil
}

// buildConstKeyMap pairs a tuple of keys on top of stack with the n values
// below it.
func (vm *VM) buildConstKeyMap(f *Frame, in bytecode.Instruction) error {
	keysv, err := f.Pop()
	if err != nil {
		return err
	}
	keys, err := keysv.AsList()
	if err != nil {
		return err
	}
	if len(keys.Items) != in.Arg {
		return fmt.Errorf("%w: %d keys for %d values", ErrKeyCountMismatch, len(keys.Items), in.Arg)
	}
	vals, err := f.PopN(in.Arg)
	if err != nil {
		return err
	}
	d := value.NewDictStore()
	for i, k := range keys.Items {
		if err := d.Set(k, vals[i]); err != nil {
			return err
		}
	}
	f.Push(value.NewDict(d))
	return nil
}

// buildMap assembles n interleaved key/value pairs.
func (vm *VM) buildMap(f *Frame, in bytecode.Instruction) error {
	vs, err := f.PopN(2 * in.Arg)
	if err != nil {
		return err
	}
	d := value.NewDictStore()
	for i := 0; i < len(vs); i += 2 {
		if err := d.Set(vs[i], vs[i+1]); err != nil {
			return err
		}
	}
	f.Push(value.NewDict(d))
	return nil
}

// value container key -> (empty); container[key] = value
func (vm *VM) storeSubscr(f *Frame, _ bytecode.Instruction) error {
	vs, err := f.PopN(3)
	if err != nil {
		return err
	}
	return value.SetItem(vs[1], vs[2], vs[0])
}

// container key -> container[key]
func (vm *VM) binarySubscr(f *Frame, _ bytecode.Instruction) error {
	vs, err := f.PopN(2)
	if err != nil {
		return err
	}
	v, err := value.GetItem(vs[0], vs[1])
	if err != nil {
		return err
	}
	f.Push(v)
	return nil
}

// item container -> item in container; Arg 1 selects "not in".
func (vm *VM) containsOp(f *Frame, in bytecode.Instruction) error {
	vs, err := f.PopN(2)
	if err != nil {
		return err
	}
	ok, err := value.Contains(vs[1], vs[0])
	if err != nil {
		return err
	}
	f.Push(value.NewBool(ok != (in.Arg == 1)))
	return nil
}

// a b -> a is b; Arg 1 selects "is not".
func (vm *VM) isOp(f *Frame, in bytecode.Instruction) error {
	vs, err := f.PopN(2)
	if err != nil {
		return err
	}
	f.Push(value.NewBool(value.Is(vs[0], vs[1]) != (in.Arg == 1)))
	return nil
}
