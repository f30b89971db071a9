package dsl

import "fmt"

// LexError reports an unrecognized lexeme and its byte offset in the rule text
type LexError struct {
	Lexeme string
	Pos    int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: unrecognized lexeme %q", e.Pos, e.Lexeme)
}

// ParseError reports a grammar violation as expected-vs-found
type ParseError struct {
	Expected string
	Found    Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s, found %s", e.Found.Pos, e.Expected, e.Found)
}

func newParseError(expected string, found Token) *ParseError {
	return &ParseError{Expected: expected, Found: found}
}
