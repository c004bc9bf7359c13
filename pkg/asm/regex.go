package asm

import (
	"regexp"
)

// Token regex patterns
var tokenRegexes = map[TokenType]*regexp.Regexp{
	LE: regexp.MustCompile(`^<=`),
	GE: regexp.MustCompile(`^>=`),
	EQ: regexp.MustCompile(`^==`),
	NE: regexp.MustCompile(`^!=`),
	LT: regexp.MustCompile(`^<`),
	GT: regexp.MustCompile(`^>`),

	NEWLINE: regexp.MustCompile(`^\n`),
	COLON:   regexp.MustCompile(`^:`),

	NUM:    regexp.MustCompile(`^[-+]?\d+\b`),
	STRING: regexp.MustCompile(`^"([^"\\]|\\.)*"|^'([^'\\]|\\.)*'`),
	IDENT:  regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*`),
}

// Token precedence order for matching (longer patterns first)
var tokenPrecedenceOrder = []TokenType{
	LE, GE, EQ, NE, LT, GT, NEWLINE, COLON, NUM, STRING, IDENT,
}

// MatchToken matches the first token at the start of s
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if match := tokenRegexes[tokenType].FindString(s); match != "" {
			return tokenType, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}
