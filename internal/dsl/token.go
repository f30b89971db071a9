package dsl

import "fmt"

// TokenKind classifies a lexeme
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenEntry
	TokenExit
	TokenColon
	TokenAnd
	TokenOr
	TokenIdent
	TokenNumber
	TokenGT
	TokenLT
	TokenGTE
	TokenLTE
	TokenEQ
	TokenCrossAbove
	TokenCrossBelow
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLParen
	TokenRParen
	TokenComma
)

// String returns a human-readable name for the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenEntry:
		return "ENTRY"
	case TokenExit:
		return "EXIT"
	case TokenColon:
		return "':'"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenGT:
		return "'>'"
	case TokenLT:
		return "'<'"
	case TokenGTE:
		return "'>='"
	case TokenLTE:
		return "'<='"
	case TokenEQ:
		return "'=='"
	case TokenCrossAbove:
		return "'crosses above'"
	case TokenCrossBelow:
		return "'crosses below'"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenStar:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a classified lexeme. Value carries the scaled numeric value for
// TokenNumber (K/M suffixes are applied during lexing, not left for the
// evaluator). Pos is the byte offset of the lexeme in the source text.
type Token struct {
	Kind    TokenKind
	Literal string
	Value   float64
	Pos     int
}

func (t Token) String() string {
	if t.Kind == TokenIdent || t.Kind == TokenNumber {
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	}
	return t.Kind.String()
}
