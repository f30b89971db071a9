package dsl

import (
	"strconv"
	"strings"
)

// Lexer tokenizes rule text. Whitespace (including newlines) separates tokens
// and is otherwise insignificant. Keywords, function names and cross phrases
// are matched case-insensitively.
type Lexer struct {
	src string
	pos int
}

// NewLexer creates a lexer over the given rule text
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans the whole input and returns the token stream terminated by a
// TokenEOF, or a LexError naming the offending substring and its offset.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Tokenize()
}

// Tokenize scans the whole input
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch c {
	case '(':
		l.pos++
		return Token{Kind: TokenLParen, Literal: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokenRParen, Literal: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokenComma, Literal: ",", Pos: start}, nil
	case ':':
		l.pos++
		return Token{Kind: TokenColon, Literal: ":", Pos: start}, nil
	case '+':
		l.pos++
		return Token{Kind: TokenPlus, Literal: "+", Pos: start}, nil
	case '-':
		l.pos++
		return Token{Kind: TokenMinus, Literal: "-", Pos: start}, nil
	case '*':
		l.pos++
		return Token{Kind: TokenStar, Literal: "*", Pos: start}, nil
	case '/':
		l.pos++
		return Token{Kind: TokenSlash, Literal: "/", Pos: start}, nil
	case '>':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Kind: TokenGTE, Literal: ">=", Pos: start}, nil
		}
		return Token{Kind: TokenGT, Literal: ">", Pos: start}, nil
	case '<':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Kind: TokenLTE, Literal: "<=", Pos: start}, nil
		}
		return Token{Kind: TokenLT, Literal: "<", Pos: start}, nil
	case '=':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return Token{Kind: TokenEQ, Literal: "==", Pos: start}, nil
		}
		return Token{}, &LexError{Lexeme: "=", Pos: start}
	}

	if isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])) {
		return l.scanNumber()
	}
	if isIdentStart(c) {
		return l.scanWord()
	}

	return Token{}, &LexError{Lexeme: string(c), Pos: start}
}

// scanNumber scans an integer or decimal literal with an optional K/M scale
// suffix. The suffix needs no separating whitespace; the scaled value is
// stored on the token.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	digits := l.src[start:l.pos]

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return Token{}, &LexError{Lexeme: digits, Pos: start}
	}

	scale := 1.0
	if l.pos < len(l.src) {
		switch l.src[l.pos] {
		case 'K', 'k':
			scale = 1_000
			l.pos++
		case 'M', 'm':
			scale = 1_000_000
			l.pos++
		}
	}

	// A trailing word character makes the whole run an invalid literal,
	// e.g. "1Kx" or "10q".
	if l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return Token{}, &LexError{Lexeme: l.src[start:l.pos], Pos: start}
	}

	return Token{Kind: TokenNumber, Literal: l.src[start:l.pos], Value: value * scale, Pos: start}, nil
}

// scanWord scans an identifier or keyword. The two-word cross phrases are
// folded into a single token here.
func (l *Lexer) scanWord() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	word := l.src[start:l.pos]

	switch strings.ToLower(word) {
	case "entry":
		return Token{Kind: TokenEntry, Literal: word, Pos: start}, nil
	case "exit":
		return Token{Kind: TokenExit, Literal: word, Pos: start}, nil
	case "and":
		return Token{Kind: TokenAnd, Literal: word, Pos: start}, nil
	case "or":
		return Token{Kind: TokenOr, Literal: word, Pos: start}, nil
	case "crosses":
		return l.scanCrossPhrase(start, word)
	}

	return Token{Kind: TokenIdent, Literal: word, Pos: start}, nil
}

// scanCrossPhrase consumes the direction word after "crosses"
func (l *Lexer) scanCrossPhrase(start int, first string) (Token, error) {
	l.skipWhitespace()
	wordStart := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	direction := l.src[wordStart:l.pos]

	phrase := first + " " + direction
	switch strings.ToLower(direction) {
	case "above":
		return Token{Kind: TokenCrossAbove, Literal: phrase, Pos: start}, nil
	case "below":
		return Token{Kind: TokenCrossBelow, Literal: phrase, Pos: start}, nil
	}
	return Token{}, &LexError{Lexeme: strings.TrimSpace(phrase), Pos: start}
}

func (l *Lexer) peek() byte {
	if l.pos < len(l.src) {
		return l.src[l.pos]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
