package asm

import "strconv"

type Lexer struct {
	input    string // listing to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// NewLexer creates a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.position >= l.length {
		return Token{Type: EOF, Pos: l.currentPosition()}
	}

	pos := l.currentPosition()
	tokenType, lexeme, matched := MatchToken(l.input[l.position:])
	if !matched {
		l.advance(1)
		return Token{Type: ILLEGAL, Lexeme: lexeme, Pos: pos}
	}

	literal := lexeme
	if tokenType == STRING {
		if unq, err := strconv.Unquote(`"` + lexeme[1:len(lexeme)-1] + `"`); err == nil {
			literal = unq
		} else {
			literal = lexeme[1 : len(lexeme)-1]
		}
	}

	l.advance(len(lexeme))
	return Token{Type: tokenType, Lexeme: lexeme, Literal: literal, Pos: pos}
}

// Peek views the next token without advancing the position
func (l *Lexer) Peek() Token {
	cpos, cline, ccol := l.position, l.line, l.column
	token := l.NextToken()
	l.position, l.line, l.column = cpos, cline, ccol
	return token
}

// skipWhitespace skips blanks and comments but not newlines, which end an
// instruction
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance(1)
		case ch == '#' || (ch == '/' && l.position+1 < l.length && l.input[l.position+1] == '/'):
			for l.position < l.length && l.input[l.position] != '\n' {
				l.advance(1)
			}
		default:
			return
		}
	}
}

// advance moves the lexer position by n characters
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// currentPosition returns the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
