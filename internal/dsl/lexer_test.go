package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_SimpleRule(t *testing.T) {
	tokens, err := Tokenize("ENTRY: close > 100")
	require.NoError(t, err)

	assert.Equal(t, []TokenKind{
		TokenEntry, TokenColon, TokenIdent, TokenGT, TokenNumber, TokenEOF,
	}, kinds(tokens))
	assert.Equal(t, "close", tokens[2].Literal)
	assert.Equal(t, 100.0, tokens[4].Value)
}

func TestTokenize_ScaleSuffixes(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"1K", 1_000},
		{"1M", 1_000_000},
		{"2.5K", 2_500},
		{"1.5M", 1_500_000},
		{"1000000", 1_000_000},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.src)
		require.NoError(t, err, tt.src)
		require.Len(t, tokens, 2, tt.src)
		assert.Equal(t, TokenNumber, tokens[0].Kind, tt.src)
		assert.Equal(t, tt.want, tokens[0].Value, tt.src)
	}
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := Tokenize("> < >= <= == + - * / ( ) ,")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenGT, TokenLT, TokenGTE, TokenLTE, TokenEQ,
		TokenPlus, TokenMinus, TokenStar, TokenSlash,
		TokenLParen, TokenRParen, TokenComma, TokenEOF,
	}, kinds(tokens))
}

func TestTokenize_CrossPhrases(t *testing.T) {
	tokens, err := Tokenize("close crosses above SMA(close,20)")
	require.NoError(t, err)
	assert.Equal(t, TokenCrossAbove, tokens[1].Kind)

	tokens, err = Tokenize("close crosses below volume")
	require.NoError(t, err)
	assert.Equal(t, TokenCrossBelow, tokens[1].Kind)

	// direction word is required
	_, err = Tokenize("close crosses sideways volume")
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenize_CaseInsensitiveKeywords(t *testing.T) {
	tokens, err := Tokenize("entry: close > 100 and volume > 1k or close < 50")
	require.NoError(t, err)
	assert.Equal(t, TokenEntry, tokens[0].Kind)
	assert.Equal(t, TokenAnd, tokens[5].Kind)
	assert.Equal(t, TokenOr, tokens[9].Kind)
}

func TestTokenize_NoSpaceBeforeSuffix(t *testing.T) {
	tokens, err := Tokenize("volume>1M")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenIdent, TokenGT, TokenNumber, TokenEOF}, kinds(tokens))
	assert.Equal(t, 1_000_000.0, tokens[2].Value)
}

func TestTokenize_UnrecognizedLexeme(t *testing.T) {
	for _, src := range []string{"close > 100 @", "close = 100", "1Kx", "close > 10q"} {
		_, err := Tokenize(src)
		var lexErr *LexError
		require.ErrorAs(t, err, &lexErr, src)
		assert.NotEmpty(t, lexErr.Lexeme, src)
	}
}

func TestTokenize_OffsetsReported(t *testing.T) {
	_, err := Tokenize("close > $")
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 8, lexErr.Pos)
	assert.Equal(t, "$", lexErr.Lexeme)
}
