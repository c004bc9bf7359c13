package vm

import (
	"fmt"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

// handler executes one instruction against the current frame.
type handler func(f *Frame, in bytecode.Instruction) error

// dispatchTable maps every supported opcode to its handler. A nil slot is
// an unsupported instruction.
func (vm *VM) dispatchTable() [bytecode.NumOpcodes]handler {
	return [bytecode.NumOpcodes]handler{
		bytecode.Nop:              func(*Frame, bytecode.Instruction) error { return nil },
		bytecode.PopTop:           vm.popTop,
		bytecode.RotThree:         vm.rotThree,
		bytecode.DupTopTwo:        vm.dupTopTwo,
		bytecode.LoadFast:         vm.loadFast,
		bytecode.StoreFast:        vm.storeFast,
		bytecode.LoadConst:        vm.loadConst,
		bytecode.LoadGlobal:       vm.loadGlobal,
		bytecode.StoreGlobal:      vm.storeGlobal,
		bytecode.BinaryAdd:        vm.binary(value.Add),
		bytecode.BinarySubtract:   vm.binary(value.Sub),
		bytecode.BinaryMultiply:   vm.binary(value.Mul),
		bytecode.InplaceAdd:       vm.binary(value.InplaceAdd),
		bytecode.InplaceSubtract:  vm.binary(value.Sub),
		bytecode.InplaceMultiply:  vm.binary(value.InplaceMul),
		bytecode.CompareOp:        vm.compareOp,
		bytecode.PopJumpIfFalse:   vm.popJumpIfFalse,
		bytecode.JumpAbsolute:     vm.jumpAbsolute,
		bytecode.JumpForward:      vm.jumpForward,
		bytecode.GetIter:          vm.getIter,
		bytecode.ForIter:          vm.forIter,
		bytecode.CallFunction:     vm.callFunction,
		bytecode.ReturnValue:      vm.returnValue,
		bytecode.FormatValue:      vm.formatValue,
		bytecode.BuildString:      vm.buildString,
		bytecode.BuildList:        vm.buildList,
		bytecode.BuildTuple:       vm.buildTuple,
		bytecode.BuildConstKeyMap: vm.buildConstKeyMap,
		bytecode.BuildMap:         vm.buildMap,
		bytecode.StoreSubscr:      vm.storeSubscr,
		bytecode.BinarySubscr:     vm.binarySubscr,
		bytecode.ContainsOp:       vm.containsOp,
		bytecode.IsOp:             vm.isOp,
	}
}

// run drives the dispatch loop of f until its return instruction executes.
func (vm *VM) run(f *Frame) (value.Value, error) {
	for !f.returned {
		in, ok := f.Instruction()
		if !ok {
			return value.None, fmt.Errorf("%w: pc %d of %d", ErrNoReturn, f.pc, len(f.code.Instructions))
		}

		if vm.maxSteps > 0 && vm.steps >= vm.maxSteps {
			return value.None, fmt.Errorf("%w: %d", ErrMaxStepsExceeded, vm.maxSteps)
		}
		vm.steps++

		h := vm.handlers[in.Op]
		if h == nil {
			return value.None, fmt.Errorf("%w: %s", ErrUnsupportedInstruction, in.Op)
		}
		if err := h(f, in); err != nil {
			return value.None, err
		}

		f.pc++
	}

	return f.result, nil
}

// jump repositions f so that the loop's increment lands on the instruction
// at raw position target. This is the only place raw positions become
// instruction indexes.
func jump(f *Frame, target int) error {
	n := len(f.code.Instructions)
	if target < 0 || target%bytecode.Width != 0 || target/bytecode.Width > n {
		return fmt.Errorf("%w: %d", ErrBadJump, target)
	}
	f.pc = target/bytecode.Width - 1
	return nil
}

// jumpDelta jumps relative to the raw position following the current
// instruction.
func jumpDelta(f *Frame, delta int) error {
	return jump(f, f.pc*bytecode.Width+bytecode.Width+delta)
}
