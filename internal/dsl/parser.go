package dsl

import (
	"math"
	"strings"
)

// Parser consumes a token stream and produces a Strategy AST. The grammar,
// highest to lowest binding, all left-associative:
//
//	primary    := number | field | function-call | '(' or-expr ')'
//	term       := primary (('*' | '/') primary)*
//	arith      := term (('+' | '-') term)*
//	condition  := arith ((comparator | cross-phrase) arith)?
//	and-expr   := condition ('AND' condition)*
//	or-expr    := and-expr ('OR' and-expr)*
//	strategy   := ('ENTRY' ':' or-expr)? ('EXIT' ':' or-expr)?
//
// Comparators and cross phrases do not chain. Any structural violation fails
// immediately with a ParseError; there is no partial AST.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses rule text into a Strategy AST
func Parse(src string) (*Strategy, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).ParseStrategy()
}

// NewParser creates a parser over a token stream
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseStrategy parses the full token stream into a Strategy
func (p *Parser) ParseStrategy() (*Strategy, error) {
	strat := &Strategy{}

	if p.cur().Kind == TokenEntry {
		p.advance()
		if _, err := p.expect(TokenColon, "':' after ENTRY"); err != nil {
			return nil, err
		}
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		strat.Entry = expr
	}

	if p.cur().Kind == TokenExit {
		p.advance()
		if _, err := p.expect(TokenColon, "':' after EXIT"); err != nil {
			return nil, err
		}
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		strat.Exit = expr
	}

	if p.cur().Kind != TokenEOF {
		return nil, newParseError("ENTRY:, EXIT:, or end of input", p.cur())
	}
	return strat, nil
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: LogicalOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenAnd {
		p.advance()
		right, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: LogicalAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseCondition parses an arith term followed by at most one comparator or
// cross phrase
func (p *Parser) parseCondition() (Expr, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}

	var op Token
	switch p.cur().Kind {
	case TokenGT, TokenLT, TokenGTE, TokenLTE, TokenEQ:
		op = p.cur()
		p.advance()
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		return &Comparison{Op: CompareOp(op.Literal), Left: left, Right: right}, nil
	case TokenCrossAbove, TokenCrossBelow:
		op = p.cur()
		p.advance()
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		crossOp := CrossAbove
		if op.Kind == TokenCrossBelow {
			crossOp = CrossBelow
		}
		return &Cross{Op: crossOp, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseArith() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenPlus || p.cur().Kind == TokenMinus {
		op := ArithAdd
		if p.cur().Kind == TokenMinus {
			op = ArithSub
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenStar || p.cur().Kind == TokenSlash {
		op := ArithMul
		if p.cur().Kind == TokenSlash {
			op = ArithDiv
		}
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		return &Number{Value: tok.Value}, nil
	case TokenLParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case TokenIdent:
		p.advance()
		if p.cur().Kind == TokenLParen {
			return p.parseFunctionCall(tok)
		}
		if _, _, ok := BaseField(tok.Literal); !ok {
			return nil, newParseError("field identifier (open, high, low, close, volume)", tok)
		}
		return &Identifier{Name: tok.Literal}, nil
	}
	return nil, newParseError("number, field, function call, or '('", tok)
}

// parseFunctionCall parses 'name ( field , window )'. Argument 0 must reduce
// to a field identifier and argument 1 to an integer-valued literal.
func (p *Parser) parseFunctionCall(name Token) (Expr, error) {
	funcName := strings.ToLower(name.Literal)
	if funcName != "sma" && funcName != "rsi" {
		return nil, newParseError("function name SMA or RSI", name)
	}

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	fieldTok := p.cur()
	arg0, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	field, ok := arg0.(*Identifier)
	if !ok {
		return nil, newParseError("field identifier as first argument", fieldTok)
	}
	if _, _, ok := BaseField(field.Name); !ok {
		return nil, newParseError("field identifier (open, high, low, close, volume)", fieldTok)
	}

	if _, err := p.expect(TokenComma, "','"); err != nil {
		return nil, err
	}

	windowTok := p.cur()
	arg1, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	window, ok := arg1.(*Number)
	if !ok {
		return nil, newParseError("integer window length as second argument", windowTok)
	}
	if window.Value != math.Trunc(window.Value) || window.Value < 1 {
		return nil, newParseError("integer window length as second argument", windowTok)
	}

	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}

	return &FunctionCall{Name: funcName, Args: []Expr{field, window}}, nil
}

func (p *Parser) cur() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: TokenEOF}
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return Token{}, newParseError(what, tok)
	}
	p.advance()
	return tok, nil
}
