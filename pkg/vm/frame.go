package vm

import (
	"fmt"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/stack"
	"pyvm/pkg/value"
)

// Frame represents a function call frame.
type Frame struct {
	id     int                       // unique per invocation
	depth  int                       // call nesting depth, 1 for the entry call
	code   *bytecode.Code            // instructions and constants, never mutated
	stack  *stack.Stack[value.Value] // operand stack
	locals []value.Value             // local slots, seeded from arguments
	pc     int                       // index of the current instruction

	returned bool
	result   value.Value
}

func newFrame(id, depth int, code *bytecode.Code, args []value.Value) *Frame {
	locals := make([]value.Value, len(args), max(len(args), code.ArgCount))
	copy(locals, args)

	return &Frame{
		id:     id,
		depth:  depth,
		code:   code,
		stack:  stack.NewStack[value.Value](),
		locals: locals,
	}
}

// Instruction returns the instruction at the program counter.
func (f *Frame) Instruction() (bytecode.Instruction, bool) {
	if f.pc < 0 || f.pc >= len(f.code.Instructions) {
		return bytecode.Instruction{}, false
	}
	return f.code.Instructions[f.pc], true
}

// Push pushes values, last one on top.
func (f *Frame) Push(vs ...value.Value) {
	f.stack.Push(vs...)
}

// Pop removes the top of stack.
func (f *Frame) Pop() (value.Value, error) {
	v, ok := f.stack.Pop()
	if !ok {
		return value.None, fmt.Errorf("%w: pop from empty stack", ErrStackUnderflow)
	}
	return v, nil
}

// PopN removes the top n values and returns them bottom first.
func (f *Frame) PopN(n int) ([]value.Value, error) {
	vs, ok := f.stack.PopN(n)
	if !ok {
		return nil, fmt.Errorf("%w: need %d values, have %d", ErrStackUnderflow, n, f.stack.Size())
	}
	return vs, nil
}

// Peek returns the top of stack without removing it.
func (f *Frame) Peek() (value.Value, error) {
	v, ok := f.stack.Peek()
	if !ok {
		return value.None, fmt.Errorf("%w: peek at empty stack", ErrStackUnderflow)
	}
	return v, nil
}

// Local reads slot i.
func (f *Frame) Local(i int) (value.Value, error) {
	if i < 0 || i >= len(f.locals) || f.locals[i].IsUnbound() {
		return value.None, fmt.Errorf("%w: slot %d", ErrUnboundLocal, i)
	}
	return f.locals[i], nil
}

// SetLocal writes slot i, growing the slot array when i is past its end.
func (f *Frame) SetLocal(i int, v value.Value) error {
	if i < 0 {
		return fmt.Errorf("%w: negative local slot %d", ErrUnsupportedOperand, i)
	}
	for i >= len(f.locals) {
		f.locals = append(f.locals, value.Value{})
	}
	f.locals[i] = v
	return nil
}

// snapshot copies the operand stack for diagnostics.
func (f *Frame) snapshot() []value.Value {
	return append([]value.Value(nil), f.stack.Array()...)
}
