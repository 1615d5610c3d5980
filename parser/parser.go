// Package parser builds an ast.Program from a token stream, by
// recursive descent over the precedence chain:
//
//	comma > assignment > conditional > logical-or > logical-and >
//	bitwise-or > bitwise-xor > bitwise-and > equality > relational >
//	shift > additive > term > unary > postfix > primary
//
// The lookahead buffer and peek/advance/match shape follow the
// teacher's lexer/parser split, generalized from dragonpy's own
// _peek/_advance/_match parser (which this grammar corrects and
// extends: dragonpy's bitwise tier is wired but never reached from
// logical-and, and it has no comma, conditional, postfix, or if/block
// support at all).
package parser

import (
	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/lexer"
	"github.com/skx/cc64/token"
)

// Parser consumes tokens from a Lexer and produces an ast.Program.
type Parser struct {
	lex *lexer.Lexer
	buf []token.Token
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{lex: l}
}

// Parse parses a complete compilation unit and reports the first
// lexical or syntactic error encountered, if any.
func Parse(l *lexer.Lexer) (*ast.Program, error) {
	return New(l).ParseProgram()
}

// fill ensures the lookahead buffer holds at least n tokens. The
// lexer returns EOF forever once input is exhausted, so this
// naturally terminates even when n peeks past the end of the file.
func (p *Parser) fill(n int) error {
	for len(p.buf) < n {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}
		p.buf = append(p.buf, tok)
	}
	return nil
}

// peek returns the n-th unconsumed token, 1-based so peek(1) is the
// next token to be read.
func (p *Parser) peek(n int) (token.Token, error) {
	if err := p.fill(n); err != nil {
		return token.Token{}, err
	}
	return p.buf[n-1], nil
}

// advance consumes and returns the next token.
func (p *Parser) advance() (token.Token, error) {
	tok, err := p.peek(1)
	if err != nil {
		return token.Token{}, err
	}
	if len(p.buf) > 0 {
		p.buf = p.buf[1:]
	}
	return tok, nil
}

func (p *Parser) look(t token.Type) (bool, error) {
	tok, err := p.peek(1)
	if err != nil {
		return false, err
	}
	return tok.Type == t, nil
}

// match consumes and returns the next token if its type is one of
// types, reporting ok=false (and leaving it unconsumed) otherwise.
func (p *Parser) match(types ...token.Type) (token.Token, bool, error) {
	tok, err := p.peek(1)
	if err != nil {
		return token.Token{}, false, err
	}
	for _, t := range types {
		if tok.Type == t {
			_, _ = p.advance()
			return tok, true, nil
		}
	}
	return token.Token{}, false, nil
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	tok, err := p.advance()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Type != t {
		return token.Token{}, newError(tok.Pos, "unexpected token %s (expected %s)", tok.Type, t)
	}
	return tok, nil
}

// ParseProgram parses the whole input, requiring end of file
// immediately after the function.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	if tok.Type != token.EOF {
		return nil, newError(tok.Pos, "unexpected token %s (expected end of file)", tok.Type)
	}
	return &ast.Program{Function: fn}, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if _, err := p.expect(token.KwInt); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Ident, Body: body}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.OpenBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for {
		atEnd, err := p.look(token.CloseBrace)
		if err != nil {
			return nil, err
		}
		if atEnd {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.CloseBrace); err != nil {
		return nil, err
	}
	return &ast.Block{Body: stmts}, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok, err := p.peek(1)
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case token.KwReturn:
		return p.parseReturn()
	case token.KwInt:
		return p.parseDeclare()
	case token.KwIf:
		return p.parseIf()
	case token.OpenBrace:
		return p.parseBlock()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	tok, err := p.expect(token.KwReturn)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Return{Value: value, Pos: tok.Pos}, nil
}

func (p *Parser) parseDeclare() (ast.Stmt, error) {
	tok, err := p.expect(token.KwInt)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if _, ok, err := p.match(token.Equal); err != nil {
		return nil, err
	} else if ok {
		init, err = p.parseAssign()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Declare{Name: name.Ident, Init: init, Pos: tok.Pos}, nil
}

func (p *Parser) parseExprStatement() (ast.Stmt, error) {
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Value: value}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	if _, err := p.expect(token.KwIf); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if _, ok, err := p.match(token.KwElse); err != nil {
		return nil, err
	} else if ok {
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: elseStmt}, nil
}

// parseExpr is the top of the precedence chain: the comma operator.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	for {
		_, ok, err := p.match(token.Comma)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		left = &ast.Comma{Left: left, Right: right}
	}
}

var assignOps = []token.Type{
	token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual,
	token.SlashEqual, token.PercentEqual, token.LessLessEqual,
	token.GreaterGreaterEqual, token.AmpEqual, token.PipeEqual, token.CaretEqual,
}

// parseAssign is right-associative: a = b = c parses as a = (b = c).
func (p *Parser) parseAssign() (ast.Expr, error) {
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	tok, ok, err := p.match(assignOps...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return left, nil
	}
	v, ok := left.(*ast.Var)
	if !ok {
		return nil, newError(tok.Pos, "expected identifier on left-hand side of assignment")
	}
	kind, _ := ast.AssignKindFromToken(tok)
	value, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Target: v.Name, Kind: kind, Value: value, Pos: tok.Pos}, nil
}

func (p *Parser) parseConditional() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	_, ok, err := p.match(token.Question)
	if err != nil {
		return nil, err
	}
	if !ok {
		return cond, nil
	}
	then, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	els, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Cond: cond, Then: then, Else: els}, nil
}

// binaryLevel parses a single left-associative precedence tier: next
// parses the subordinate (tighter) tier, ops lists the operator
// tokens this tier accepts.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops ...token.Type) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok, err := p.match(ops...)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		kind, _ := ast.BinaryOpKindFromToken(tok)
		left = &ast.BinaryOp{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseLogicalAnd, token.PipePipe)
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitwiseOr, token.AmpAmp)
}

func (p *Parser) parseBitwiseOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitwiseXor, token.Pipe)
}

func (p *Parser) parseBitwiseXor() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitwiseAnd, token.Caret)
}

func (p *Parser) parseBitwiseAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseEquality, token.Amp)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binaryLevel(p.parseRelational, token.EqualEqual, token.BangEqual)
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.binaryLevel(p.parseShift, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.binaryLevel(p.parseAdditive, token.LessLess, token.GreaterGreater)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.binaryLevel(p.parseTerm, token.Plus, token.Minus)
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.binaryLevel(p.parseUnary, token.Star, token.Slash, token.Percent)
}

var unaryOps = []token.Type{token.Minus, token.Tilde, token.Bang}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if tok, ok, err := p.match(unaryOps...); err != nil {
		return nil, err
	} else if ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		kind, _ := ast.UnaryOpKindFromToken(tok)
		return &ast.UnaryOp{Kind: kind, Operand: operand}, nil
	}

	if tok, ok, err := p.match(token.PlusPlus, token.MinusMinus); err != nil {
		return nil, err
	} else if ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if _, isVar := operand.(*ast.Var); !isVar {
			return nil, newError(tok.Pos, "prefix %s requires an assignable operand", tok.Type)
		}
		kind, _ := ast.UnaryOpKindFromToken(tok)
		return &ast.UnaryOp{Kind: kind, Operand: operand}, nil
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	operand, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok, err := p.match(token.PlusPlus, token.MinusMinus)
		if err != nil {
			return nil, err
		}
		if !ok {
			return operand, nil
		}
		if _, isVar := operand.(*ast.Var); !isVar {
			return nil, newError(tok.Pos, "postfix %s requires an assignable operand", tok.Type)
		}
		kind, _ := ast.PostfixKindFromToken(tok)
		operand = &ast.Postfix{Operand: operand, Kind: kind, Pos: tok.Pos}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	if _, ok, err := p.match(token.OpenParen); err != nil {
		return nil, err
	} else if ok {
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return inner, nil
	}

	if tok, ok, err := p.match(token.DecimalConstant); err != nil {
		return nil, err
	} else if ok {
		return &ast.Constant{Value: int64(tok.IntValue), Pos: tok.Pos}, nil
	}

	if tok, ok, err := p.match(token.Identifier); err != nil {
		return nil, err
	} else if ok {
		return &ast.Var{Name: tok.Ident, Pos: tok.Pos}, nil
	}

	tok, err := p.peek(1)
	if err != nil {
		return nil, err
	}
	return nil, newError(tok.Pos, "unexpected token %s (expected expression)", tok.Type)
}
