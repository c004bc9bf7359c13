package vm

import (
	"errors"
	"fmt"
	"strings"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

var (
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	ErrArityMismatch          = errors.New("arity mismatch")
	ErrStackUnderflow         = errors.New("stack underflow")
	ErrUnsupportedOperand     = errors.New("unsupported operand")
	ErrUndeclaredGlobal       = errors.New("assignment to undeclared global")
	ErrUndefinedName          = errors.New("name is not defined")
	ErrUnboundLocal           = errors.New("local referenced before assignment")
	ErrKeyCountMismatch       = errors.New("key count mismatch")
	ErrBadJump                = errors.New("jump target out of range")
	ErrNoReturn               = errors.New("reached end of code without return")
	ErrNotCallable            = errors.New("object is not callable")
	ErrRecursionLimit         = errors.New("maximum recursion depth exceeded")
	ErrMaxStepsExceeded       = errors.New("maximum steps exceeded")
)

// Error carries the context of the frame where a failure originated. It is
// created once, by the innermost frame, and passed through outer frames
// unchanged.
type Error struct {
	Func  string // function whose frame failed
	Depth int    // call depth of that frame, 1 for the entry call
	Index int    // instruction index in that frame

	// Instruction is the failing instruction; zero when none was fetched.
	Instruction bytecode.Instruction
	// Stack is the operand stack at the time of failure, bottom first.
	Stack []value.Value
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: instruction %d (offset %d) %s: %v",
		e.Func, e.Index, e.Index*bytecode.Width, e.Instruction, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StackString renders the captured operand stack, bottom first.
func (e *Error) StackString() string {
	parts := make([]string, len(e.Stack))
	for i, v := range e.Stack {
		parts[i] = value.Repr(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
