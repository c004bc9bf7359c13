package asm_test

import (
	"testing"

	"pyvm/pkg/asm"
)

func TestTokens(t *testing.T) {
	input := "loop:\n" + "    FOR_ITER done\n" + "    COMPARE_OP <=\n" + "    LOAD_GLOBAL 'print'\n" + "    JUMP_FORWARD -4\n" + "done:"
	mylexer := asm.NewLexer(input)

	expectedTokens := []asm.TokenType{
		asm.IDENT, asm.COLON, asm.NEWLINE,
		asm.IDENT, asm.IDENT, asm.NEWLINE,
		asm.IDENT, asm.LE, asm.NEWLINE,
		asm.IDENT, asm.STRING, asm.NEWLINE,
		asm.IDENT, asm.NUM, asm.NEWLINE,
		asm.IDENT, asm.COLON,
		asm.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, token.Type)
		}
	}
}

func TestComments(t *testing.T) {
	input := `# header comment
LOAD_FAST 0 // trailing comment
# another comment
RETURN_VALUE`

	mylexer := asm.NewLexer(input)
	expectedTokens := []asm.TokenType{
		asm.NEWLINE,
		asm.IDENT, asm.NUM, asm.NEWLINE,
		asm.NEWLINE,
		asm.IDENT,
		asm.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, token.Type)
		}
	}
}

func TestMatchToken(t *testing.T) {
	tests := []struct {
		input       string
		expected    asm.TokenType
		lexeme      string
		description string
	}{
		{"42", asm.NUM, "42", "integer"},
		{"-12", asm.NUM, "-12", "negative integer"},
		{"+8", asm.NUM, "+8", "explicit sign"},
		{"<", asm.LT, "<", "less than"},
		{"<=", asm.LE, "<=", "less or equal"},
		{"==", asm.EQ, "==", "equal"},
		{"!=", asm.NE, "!=", "not equal"},
		{">", asm.GT, ">", "greater than"},
		{">=", asm.GE, ">=", "greater or equal"},
		{"BINARY_ADD", asm.IDENT, "BINARY_ADD", "mnemonic"},
		{"os.path", asm.IDENT, "os.path", "dotted name"},
		{`"hi there"`, asm.STRING, `"hi there"`, "double quoted"},
		{`'it\'s'`, asm.STRING, `'it\'s'`, "escaped quote"},
		{":", asm.COLON, ":", "label colon"},
	}

	for _, test := range tests {
		tokenType, lexeme, matched := asm.MatchToken(test.input)
		if !matched {
			t.Errorf("Failed to match %s (%s)", test.input, test.description)
		}
		if tokenType != test.expected {
			t.Errorf("Input %s (%s): expected %s, got %s", test.input, test.description, test.expected, tokenType)
		}
		if lexeme != test.lexeme {
			t.Errorf("Input %s (%s): expected lexeme %s, got %s", test.input, test.description, test.lexeme, lexeme)
		}
	}

	if tokenType, _, matched := asm.MatchToken("@"); matched || tokenType != asm.ILLEGAL {
		t.Errorf("expected @ to be ILLEGAL, got %s", tokenType)
	}
}

func TestStringLiteral(t *testing.T) {
	token := asm.NewLexer(`'a\tb'`).NextToken()
	if token.Type != asm.STRING || token.Literal != "a\tb" {
		t.Errorf("expected unquoted literal %q, got %q", "a\tb", token.Literal)
	}
}

func TestPositions(t *testing.T) {
	mylexer := asm.NewLexer("NOP\n  RETURN_VALUE")
	mylexer.NextToken() // NOP
	mylexer.NextToken() // newline

	if peeked := mylexer.Peek(); peeked.Lexeme != "RETURN_VALUE" {
		t.Fatalf("expected to peek RETURN_VALUE, got %q", peeked.Lexeme)
	}
	token := mylexer.NextToken()
	if token.Pos.Line != 2 || token.Pos.Column != 3 {
		t.Errorf("expected 2:3, got %s", token.Pos)
	}
}
