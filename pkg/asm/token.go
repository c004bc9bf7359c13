package asm

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from the listing
	Literal string    // Literal value (unquoted for strings)
	Pos     Position  // Position in the listing
}

const (
	EOF     TokenType = iota // End of listing
	ILLEGAL                  // unrecognised character
	NEWLINE                  // end of a line

	IDENT  // mnemonic, name or label
	NUM    // signed integer
	STRING // quoted name
	COLON  // :

	LT // <
	LE // <=
	EQ // ==
	NE // !=
	GT // >
	GE // >=
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",
	IDENT:   "IDENT",
	NUM:     "NUM",
	STRING:  "STRING",
	COLON:   ":",
	LT:      "<",
	LE:      "<=",
	EQ:      "==",
	NE:      "!=",
	GT:      ">",
	GE:      ">=",
}

// String returns the name of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsComparator reports whether the token is a comparison symbol
func (t TokenType) IsComparator() bool {
	return t >= LT && t <= GE
}
