// Package lexer turns C source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/skx/cc64/token"
)

// Error reports a lexical failure: a byte the lexer does not know how
// to start a token with.
type Error struct {
	Pos token.SourcePos
	Ch  rune
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Ch)
}

// Lexer scans a single source file and produces tokens on demand via
// Next. It holds borrowed input and transient position state only; it
// does not outlive the parse that owns it.
type Lexer struct {
	filename string
	chars    []rune
	pos      int // index of the next unread rune
	line     int
	col      int
}

// New creates a Lexer over input, attributing positions to filename.
func New(filename, input string) *Lexer {
	return &Lexer{
		filename: filename,
		chars:    []rune(input),
		line:     1,
		col:      1,
	}
}

// Next returns the next token in the stream. Once the input is
// exhausted it returns an EOF token forever after, rather than
// signaling via error, so callers (in particular the parser's
// lookahead buffer) can peek past the end of input without special
// casing. An unrecognized byte is reported as a lexical Error.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	start := l.pos
	startPos := token.SourcePos{Filename: l.filename, Line: l.line, Col: l.col}

	c, ok := l.advance()
	if !ok {
		return token.Token{Type: token.EOF, Pos: startPos}, nil
	}

	mk := func(t token.Type) token.Token {
		return token.Token{Type: t, Text: string(l.chars[start:l.pos]), Pos: startPos}
	}

	switch c {
	case '{':
		return mk(token.OpenBrace), nil
	case '}':
		return mk(token.CloseBrace), nil
	case '(':
		return mk(token.OpenParen), nil
	case ')':
		return mk(token.CloseParen), nil
	case ';':
		return mk(token.Semicolon), nil
	case ',':
		return mk(token.Comma), nil
	case '?':
		return mk(token.Question), nil
	case ':':
		return mk(token.Colon), nil
	case '~':
		return mk(token.Tilde), nil
	case '-':
		if l.peek() == '-' {
			l.advance()
			return mk(token.MinusMinus), nil
		}
		if l.peek() == '=' {
			l.advance()
			return mk(token.MinusEqual), nil
		}
		return mk(token.Minus), nil
	case '+':
		if l.peek() == '+' {
			l.advance()
			return mk(token.PlusPlus), nil
		}
		if l.peek() == '=' {
			l.advance()
			return mk(token.PlusEqual), nil
		}
		return mk(token.Plus), nil
	case '*':
		if l.peek() == '=' {
			l.advance()
			return mk(token.StarEqual), nil
		}
		return mk(token.Star), nil
	case '/':
		if l.peek() == '=' {
			l.advance()
			return mk(token.SlashEqual), nil
		}
		return mk(token.Slash), nil
	case '%':
		if l.peek() == '=' {
			l.advance()
			return mk(token.PercentEqual), nil
		}
		return mk(token.Percent), nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return mk(token.BangEqual), nil
		}
		return mk(token.Bang), nil
	case '=':
		if l.peek() == '=' {
			l.advance()
			return mk(token.EqualEqual), nil
		}
		return mk(token.Equal), nil
	case '&':
		switch l.peek() {
		case '&':
			l.advance()
			return mk(token.AmpAmp), nil
		case '=':
			l.advance()
			return mk(token.AmpEqual), nil
		default:
			return mk(token.Amp), nil
		}
	case '|':
		switch l.peek() {
		case '|':
			l.advance()
			return mk(token.PipePipe), nil
		case '=':
			l.advance()
			return mk(token.PipeEqual), nil
		default:
			return mk(token.Pipe), nil
		}
	case '^':
		if l.peek() == '=' {
			l.advance()
			return mk(token.CaretEqual), nil
		}
		return mk(token.Caret), nil
	case '<':
		switch l.peek() {
		case '=':
			l.advance()
			return mk(token.LessEqual), nil
		case '<':
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return mk(token.LessLessEqual), nil
			}
			return mk(token.LessLess), nil
		default:
			return mk(token.Less), nil
		}
	case '>':
		switch l.peek() {
		case '=':
			l.advance()
			return mk(token.GreaterEqual), nil
		case '>':
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return mk(token.GreaterGreaterEqual), nil
			}
			return mk(token.GreaterGreater), nil
		default:
			return mk(token.Greater), nil
		}
	}

	if isAlpha(c) {
		for isAlnum(l.peek()) {
			l.advance()
		}
		text := string(l.chars[start:l.pos])
		tok := mk(token.LookupIdentifier(text))
		if tok.Type == token.Identifier {
			tok.Ident = text
		}
		return tok, nil
	}

	if isDigit(c) {
		for isDigit(l.peek()) {
			l.advance()
		}
		text := string(l.chars[start:l.pos])
		tok := mk(token.DecimalConstant)
		value, _ := strconv.ParseUint(text, 10, 64)
		tok.IntValue = value
		return tok, nil
	}

	return token.Token{}, &Error{Pos: startPos, Ch: c}
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.peek()) {
		l.advance()
	}
}

// advance consumes and returns the current rune, or (0, false) at
// end of input. Column is bumped for every consumed byte including
// whitespace; a newline resets the column and bumps the line, as
// required of the position tracking.
func (l *Lexer) advance() (rune, bool) {
	if l.pos >= len(l.chars) {
		return 0, false
	}
	c := l.chars[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c, true
}

// peek returns the next unconsumed rune without advancing, or 0 at
// end of input.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.chars) {
		return 0
	}
	return l.chars[l.pos]
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlnum(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
