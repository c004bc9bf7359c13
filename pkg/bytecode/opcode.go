package bytecode

import "fmt"

type Opcode uint8

// NumOpcodes is the size of the opcode space.
const NumOpcodes = 256

// Opcode numbering follows CPython 3.9.
const (
	PopTop          Opcode = 1
	RotTwo          Opcode = 2
	RotThree        Opcode = 3
	DupTop          Opcode = 4
	DupTopTwo       Opcode = 5
	Nop             Opcode = 9
	UnaryNot        Opcode = 12
	BinaryPower     Opcode = 19
	BinaryMultiply  Opcode = 20
	BinaryModulo    Opcode = 22
	BinaryAdd       Opcode = 23
	BinarySubtract  Opcode = 24
	BinarySubscr    Opcode = 25
	BinaryTrueDiv   Opcode = 27
	InplaceAdd      Opcode = 55
	InplaceSubtract Opcode = 56
	InplaceMultiply Opcode = 57
	StoreSubscr     Opcode = 60
	GetIter         Opcode = 68
	YieldFrom       Opcode = 72
	ReturnValue     Opcode = 83
	YieldValue      Opcode = 86
	PopBlock        Opcode = 87

	// Opcodes from here on carry an argument.
	HaveArgument     Opcode = 90
	StoreName        Opcode = 90
	UnpackSequence   Opcode = 92
	ForIter          Opcode = 93
	StoreGlobal      Opcode = 97
	LoadConst        Opcode = 100
	LoadName         Opcode = 101
	BuildTuple       Opcode = 102
	BuildList        Opcode = 103
	BuildMap         Opcode = 105
	LoadAttr         Opcode = 106
	CompareOp        Opcode = 107
	JumpForward      Opcode = 110
	JumpAbsolute     Opcode = 113
	PopJumpIfFalse   Opcode = 114
	PopJumpIfTrue    Opcode = 115
	LoadGlobal       Opcode = 116
	IsOp             Opcode = 117
	ContainsOp       Opcode = 118
	SetupFinally     Opcode = 122
	LoadFast         Opcode = 124
	StoreFast        Opcode = 125
	RaiseVarargs     Opcode = 130
	CallFunction     Opcode = 131
	MakeFunction     Opcode = 132
	LoadClosure      Opcode = 135
	LoadDeref        Opcode = 136
	StoreDeref       Opcode = 137
	CallFunctionKw   Opcode = 141
	SetupWith        Opcode = 143
	ListAppend       Opcode = 145
	FormatValue      Opcode = 155
	BuildConstKeyMap Opcode = 156
	BuildString      Opcode = 157
	LoadMethod       Opcode = 160
	CallMethod       Opcode = 161
)

var opcodeNames = map[Opcode]string{
	PopTop:           "POP_TOP",
	RotTwo:           "ROT_TWO",
	RotThree:         "ROT_THREE",
	DupTop:           "DUP_TOP",
	DupTopTwo:        "DUP_TOP_TWO",
	Nop:              "NOP",
	UnaryNot:         "UNARY_NOT",
	BinaryPower:      "BINARY_POWER",
	BinaryMultiply:   "BINARY_MULTIPLY",
	BinaryModulo:     "BINARY_MODULO",
	BinaryAdd:        "BINARY_ADD",
	BinarySubtract:   "BINARY_SUBTRACT",
	BinarySubscr:     "BINARY_SUBSCR",
	BinaryTrueDiv:    "BINARY_TRUE_DIVIDE",
	InplaceAdd:       "INPLACE_ADD",
	InplaceSubtract:  "INPLACE_SUBTRACT",
	InplaceMultiply:  "INPLACE_MULTIPLY",
	StoreSubscr:      "STORE_SUBSCR",
	GetIter:          "GET_ITER",
	YieldFrom:        "YIELD_FROM",
	ReturnValue:      "RETURN_VALUE",
	YieldValue:       "YIELD_VALUE",
	PopBlock:         "POP_BLOCK",
	StoreName:        "STORE_NAME",
	UnpackSequence:   "UNPACK_SEQUENCE",
	ForIter:          "FOR_ITER",
	StoreGlobal:      "STORE_GLOBAL",
	LoadConst:        "LOAD_CONST",
	LoadName:         "LOAD_NAME",
	BuildTuple:       "BUILD_TUPLE",
	BuildList:        "BUILD_LIST",
	BuildMap:         "BUILD_MAP",
	LoadAttr:         "LOAD_ATTR",
	CompareOp:        "COMPARE_OP",
	JumpForward:      "JUMP_FORWARD",
	JumpAbsolute:     "JUMP_ABSOLUTE",
	PopJumpIfFalse:   "POP_JUMP_IF_FALSE",
	PopJumpIfTrue:    "POP_JUMP_IF_TRUE",
	LoadGlobal:       "LOAD_GLOBAL",
	IsOp:             "IS_OP",
	ContainsOp:       "CONTAINS_OP",
	SetupFinally:     "SETUP_FINALLY",
	LoadFast:         "LOAD_FAST",
	StoreFast:        "STORE_FAST",
	RaiseVarargs:     "RAISE_VARARGS",
	CallFunction:     "CALL_FUNCTION",
	MakeFunction:     "MAKE_FUNCTION",
	LoadClosure:      "LOAD_CLOSURE",
	LoadDeref:        "LOAD_DEREF",
	StoreDeref:       "STORE_DEREF",
	CallFunctionKw:   "CALL_FUNCTION_KW",
	SetupWith:        "SETUP_WITH",
	ListAppend:       "LIST_APPEND",
	FormatValue:      "FORMAT_VALUE",
	BuildConstKeyMap: "BUILD_CONST_KEY_MAP",
	BuildString:      "BUILD_STRING",
	LoadMethod:       "LOAD_METHOD",
	CallMethod:       "CALL_METHOD",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// String returns the mnemonic, or a numeric placeholder for unnamed opcodes.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("<%d>", uint8(op))
}

// Lookup finds an opcode by mnemonic.
func Lookup(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// HasArgument reports whether the opcode carries an immediate argument.
func (op Opcode) HasArgument() bool {
	return op >= HaveArgument
}

// HasName reports whether the argument indexes the name table.
func (op Opcode) HasName() bool {
	switch op {
	case LoadGlobal, StoreGlobal, LoadName, StoreName, LoadAttr, LoadMethod:
		return true
	default:
		return false
	}
}

// IsAbsoluteJump reports whether the argument is an absolute raw target.
func (op Opcode) IsAbsoluteJump() bool {
	switch op {
	case JumpAbsolute, PopJumpIfFalse, PopJumpIfTrue:
		return true
	default:
		return false
	}
}

// IsRelativeJump reports whether the argument is a delta from the next
// instruction's raw position.
func (op Opcode) IsRelativeJump() bool {
	switch op {
	case JumpForward, ForIter, SetupFinally, SetupWith:
		return true
	default:
		return false
	}
}
