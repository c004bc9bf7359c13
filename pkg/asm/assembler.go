package asm

import (
	"errors"
	"fmt"
	"strconv"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

// SyntaxError reports a problem at a position in a listing.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type statement struct {
	op      bytecode.Opcode
	operand *Token
	pos     Position
}

type assembler struct {
	lexer  *Lexer
	tok    Token
	stmts  []statement
	labels map[string]int // label -> instruction index
	names  []string
	errors []error
}

// Assemble translates a listing into instructions and the name table that
// name-carrying opcodes index.
//
// One instruction per line: a mnemonic followed by at most one operand.
// Lines may start with `label:`. Jump operands may be labels or raw
// offsets; COMPARE_OP accepts a comparator symbol; name opcodes take a bare
// or quoted name. `#` and `//` start comments.
func Assemble(src string) ([]bytecode.Instruction, []string, error) {
	a := &assembler{
		lexer:  NewLexer(src),
		labels: make(map[string]int),
	}
	a.next()
	a.parse()
	if len(a.errors) > 0 {
		return nil, nil, errors.Join(a.errors...)
	}

	code := make([]bytecode.Instruction, len(a.stmts))
	for i, st := range a.stmts {
		code[i] = a.resolve(i, st)
	}
	if len(a.errors) > 0 {
		return nil, nil, errors.Join(a.errors...)
	}
	return code, a.names, nil
}

func (a *assembler) next() {
	a.tok = a.lexer.NextToken()
}

func (a *assembler) addError(pos Position, format string, args ...any) {
	a.errors = append(a.errors, &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// skipLine discards tokens up to and including the next newline
func (a *assembler) skipLine() {
	for a.tok.Type != NEWLINE && a.tok.Type != EOF {
		a.next()
	}
	if a.tok.Type == NEWLINE {
		a.next()
	}
}

func (a *assembler) parse() {
	for a.tok.Type != EOF {
		switch a.tok.Type {
		case NEWLINE:
			a.next()
			continue
		case IDENT:
		default:
			a.addError(a.tok.Pos, "unexpected %s %q", a.tok.Type, a.tok.Lexeme)
			a.skipLine()
			continue
		}

		head := a.tok
		a.next()

		if a.tok.Type == COLON {
			if _, dup := a.labels[head.Lexeme]; dup {
				a.addError(head.Pos, "label %q redefined", head.Lexeme)
			}
			a.labels[head.Lexeme] = len(a.stmts)
			a.next()
			continue
		}

		op, ok := bytecode.Lookup(head.Lexeme)
		if !ok {
			a.addError(head.Pos, "unknown mnemonic %q", head.Lexeme)
			a.skipLine()
			continue
		}

		st := statement{op: op, pos: head.Pos}
		if a.tok.Type != NEWLINE && a.tok.Type != EOF {
			operand := a.tok
			st.operand = &operand
			a.next()
		}
		if a.tok.Type != NEWLINE && a.tok.Type != EOF {
			a.addError(a.tok.Pos, "unexpected %s %q after operand", a.tok.Type, a.tok.Lexeme)
			a.skipLine()
		}
		a.stmts = append(a.stmts, st)
	}
}

func (a *assembler) nameIndex(name string) int {
	for i, n := range a.names {
		if n == name {
			return i
		}
	}
	a.names = append(a.names, name)
	return len(a.names) - 1
}

// target resolves a jump operand to a raw position
func (a *assembler) target(st statement) (int, bool) {
	switch st.operand.Type {
	case IDENT:
		idx, ok := a.labels[st.operand.Lexeme]
		if !ok {
			a.addError(st.operand.Pos, "undefined label %q", st.operand.Lexeme)
			return 0, false
		}
		return idx * bytecode.Width, true
	case NUM:
		n, _ := strconv.Atoi(st.operand.Lexeme)
		return n, true
	}
	a.addError(st.operand.Pos, "%s expects a label or offset", st.op)
	return 0, false
}

func (a *assembler) resolve(i int, st statement) bytecode.Instruction {
	in := bytecode.Instruction{Op: st.op, Offset: i * bytecode.Width}

	if !st.op.HasArgument() {
		if st.operand != nil {
			a.addError(st.operand.Pos, "%s takes no operand", st.op)
		}
		return in
	}
	if st.operand == nil {
		a.addError(st.pos, "%s requires an operand", st.op)
		return in
	}

	switch {
	case st.op.HasName():
		if st.operand.Type != IDENT && st.operand.Type != STRING {
			a.addError(st.operand.Pos, "%s expects a name", st.op)
			return in
		}
		in.Name = st.operand.Literal
		in.Arg = a.nameIndex(in.Name)

	case st.op.IsAbsoluteJump():
		if t, ok := a.target(st); ok {
			in.Arg, in.Target = t, t
		}

	case st.op.IsRelativeJump():
		next := in.Offset + bytecode.Width
		if st.operand.Type == NUM {
			// a bare number is the delta, as dis prints it
			n, _ := strconv.Atoi(st.operand.Lexeme)
			in.Arg, in.Target = n, next+n
		} else if t, ok := a.target(st); ok {
			in.Arg, in.Target = t-next, t
		}

	case st.op == bytecode.CompareOp && st.operand.Type.IsComparator():
		op, _ := value.ParseCmpOp(st.operand.Lexeme)
		in.Arg = int(op)

	case st.operand.Type == NUM:
		n, err := strconv.Atoi(st.operand.Lexeme)
		if err != nil {
			a.addError(st.operand.Pos, "bad number %q", st.operand.Lexeme)
		}
		in.Arg = n

	default:
		a.addError(st.operand.Pos, "%s expects a number, got %s", st.op, st.operand.Type)
	}

	return in
}
