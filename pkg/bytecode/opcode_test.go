package bytecode_test

import (
	"testing"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

func TestOpcodeNumbers(t *testing.T) {
	tests := []struct {
		op       bytecode.Opcode
		name     string
		expected uint8
	}{
		{bytecode.PopTop, "POP_TOP", 1},
		{bytecode.BinaryAdd, "BINARY_ADD", 23},
		{bytecode.ReturnValue, "RETURN_VALUE", 83},
		{bytecode.StoreGlobal, "STORE_GLOBAL", 97},
		{bytecode.CompareOp, "COMPARE_OP", 107},
		{bytecode.JumpAbsolute, "JUMP_ABSOLUTE", 113},
		{bytecode.PopJumpIfFalse, "POP_JUMP_IF_FALSE", 114},
		{bytecode.IsOp, "IS_OP", 117},
		{bytecode.ContainsOp, "CONTAINS_OP", 118},
		{bytecode.CallFunction, "CALL_FUNCTION", 131},
		{bytecode.BuildString, "BUILD_STRING", 157},
	}

	for _, tt := range tests {
		if uint8(tt.op) != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expected, uint8(tt.op))
		}
		if tt.op.String() != tt.name {
			t.Errorf("expected name %s, got %s", tt.name, tt.op)
		}
		if op, ok := bytecode.Lookup(tt.name); !ok || op != tt.op {
			t.Errorf("Lookup(%s): expected %d, got %d", tt.name, tt.op, op)
		}
	}

	if _, ok := bytecode.Lookup("NOT_AN_OPCODE"); ok {
		t.Errorf("expected unknown mnemonic lookup to fail")
	}
	if got := bytecode.Opcode(255).String(); got != "<255>" {
		t.Errorf("expected placeholder name, got %s", got)
	}
}

func TestOpcodeClasses(t *testing.T) {
	if bytecode.ReturnValue.HasArgument() || !bytecode.LoadConst.HasArgument() {
		t.Errorf("argument boundary misplaced")
	}
	if !bytecode.LoadGlobal.HasName() || bytecode.LoadFast.HasName() {
		t.Errorf("name opcode classification wrong")
	}
	if !bytecode.PopJumpIfFalse.IsAbsoluteJump() || bytecode.ForIter.IsAbsoluteJump() {
		t.Errorf("absolute jump classification wrong")
	}
	if !bytecode.ForIter.IsRelativeJump() || !bytecode.JumpForward.IsRelativeJump() || bytecode.JumpAbsolute.IsRelativeJump() {
		t.Errorf("relative jump classification wrong")
	}
}

func TestListing(t *testing.T) {
	code := bytecode.Code{
		Name: "f",
		Instructions: []bytecode.Instruction{
			{Op: bytecode.LoadGlobal, Arg: 0, Name: "len", Offset: 0},
			{Op: bytecode.CompareOp, Arg: int(value.CmpNe), Offset: 2},
			{Op: bytecode.ForIter, Arg: 2, Target: 8, Offset: 4},
			{Op: bytecode.ReturnValue, Offset: 6},
		},
	}

	expected := "0 LOAD_GLOBAL 0 (len)\n" +
		"2 COMPARE_OP 3 (!=)\n" +
		"4 FOR_ITER 2 (to 8)\n" +
		"6 RETURN_VALUE\n"
	if got := code.Listing(); got != expected {
		t.Errorf("expected listing:\n%s\ngot:\n%s", expected, got)
	}
}
