package bytecode

import (
	"fmt"
	"strings"

	"pyvm/pkg/value"
)

// Width is the raw size of one instruction. Raw positions (Offset, Target)
// are multiples of it.
const Width = 2

type Instruction struct {
	Op  Opcode
	Arg int

	Name   string // resolved name for name-carrying opcodes
	Target int    // resolved raw target for jumps
	Offset int    // raw position of this instruction
}

// String returns a dis-style rendering of the instruction
func (i Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", i.Offset, i.Op)
	if !i.Op.HasArgument() {
		return b.String()
	}

	fmt.Fprintf(&b, " %d", i.Arg)
	switch {
	case i.Op.HasName():
		fmt.Fprintf(&b, " (%s)", i.Name)
	case i.Op.IsAbsoluteJump(), i.Op.IsRelativeJump():
		fmt.Fprintf(&b, " (to %d)", i.Target)
	case i.Op == CompareOp:
		fmt.Fprintf(&b, " (%s)", value.CmpOp(i.Arg))
	}

	return b.String()
}

// Code is one callable's decoded body.
type Code struct {
	Name         string
	ArgCount     int
	Instructions []Instruction
	Consts       []value.Value
	Names        []string
}

// Listing renders the whole body, one instruction per line.
func (c *Code) Listing() string {
	var b strings.Builder
	for _, in := range c.Instructions {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
