package vm

import (
	"errors"
	"fmt"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

// call runs callee with already-evaluated args on behalf of a frame at
// depth. Arity is validated before anything runs. Built-ins are recognised
// by kind, never by name, so a user function called "len" is still run in
// its own frame.
func (vm *VM) call(callee value.Value, args []value.Value, depth int) (value.Value, error) {
	switch callee.Kind {
	case value.KindBuiltin:
		b, _ := callee.AsBuiltin()
		if !b.AcceptsArgs(len(args)) {
			return value.None, fmt.Errorf("%w: %s takes %d args, but %d were given", ErrArityMismatch, b.Name, b.Arity, len(args))
		}
		res, err := b.Fn(args)
		if err != nil {
			return value.None, fmt.Errorf("%s(): %w", b.Name, err)
		}
		return res, nil

	case value.KindFunction:
		fn, _ := callee.AsFunction()
		code, err := vm.provider.Code(fn)
		if err != nil {
			return value.None, fmt.Errorf("%s: %w", fn.Name, err)
		}
		if code.ArgCount != len(args) {
			return value.None, fmt.Errorf("%w: %s takes %d args, but %d were given", ErrArityMismatch, code.Name, code.ArgCount, len(args))
		}
		if depth >= vm.maxDepth {
			return value.None, fmt.Errorf("%w: %d calling %s", ErrRecursionLimit, vm.maxDepth, code.Name)
		}
		return vm.runFrame(code, args, depth+1)

	default:
		return value.None, fmt.Errorf("%w: '%s'", ErrNotCallable, callee.Kind)
	}
}

// runFrame starts a new frame for code and runs it to its return
// instruction. The caller's frame stays blocked on the Go call stack until
// then, so exactly one frame is ever current.
func (vm *VM) runFrame(code *bytecode.Code, args []value.Value, depth int) (value.Value, error) {
	vm.frames++
	f := newFrame(vm.frames, depth, code, args)
	vm.logger.Debug("calling", "frame", f.id, "func", code.Name, "args", args, "depth", depth)

	res, err := vm.run(f)
	if err != nil {
		return value.None, vm.fail(f, err)
	}
	return res, nil
}

// fail attaches frame context to err unless an inner frame already did.
// Only the originating frame logs the failure.
func (vm *VM) fail(f *Frame, err error) error {
	var verr *Error
	if errors.As(err, &verr) {
		return err
	}

	in, _ := f.Instruction()
	verr = &Error{
		Func:        f.code.Name,
		Depth:       f.depth,
		Index:       f.pc,
		Instruction: in,
		Stack:       f.snapshot(),
		Err:         err,
	}
	vm.logger.Error("execution failed",
		"func", verr.Func,
		"pos", verr.Index,
		"offset", verr.Index*bytecode.Width,
		"inst", in.String(),
		"stack", verr.StackString(),
		"err", err)
	return verr
}
