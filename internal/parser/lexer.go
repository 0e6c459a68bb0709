package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/jslinters/jlin/internal/ast"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type token struct {
	typ tokenType
	lit string
	pos ast.Position
	end ast.Position
	// newlineBefore is set when at least one line terminator was skipped
	// before this token. The parser uses it for semicolon insertion.
	newlineBefore bool
}

func (t token) is(lit string) bool {
	return (t.typ == tokPunct || t.typ == tokIdent) && t.lit == lit
}

// keywords that can never be used as a binding name in the linted subset.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "default": true, "delete": true, "do": true, "else": true,
	"finally": true, "for": true, "function": true, "if": true, "in": true,
	"new": true, "return": true, "switch": true, "this": true, "throw": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
}

// operators ordered longest first so the scanner is maximal-munch.
var operators = []string{
	">>>=",
	"===", "!==", "**=", "<<=", ">>=", "&&=", "||=", "??=", "...", ">>>",
	"==", "!=", "<=", ">=", "&&", "||", "??", "=>", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>", "?.",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^", "~",
	"?", ":", ";", ",", ".", "(", ")", "[", "]", "{", "}",
}

type lexer struct {
	src      string
	off      int
	line     int
	col      int
	comments []ast.Comment
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (lx *lexer) position() ast.Position {
	return ast.Position{Offset: lx.off, Line: lx.line, Column: lx.col}
}

func (lx *lexer) peekByte() (byte, bool) {
	if lx.off >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.off], true
}

func (lx *lexer) advance() (byte, bool) {
	c, ok := lx.peekByte()
	if !ok {
		return 0, false
	}
	lx.off++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c, true
}

// tokens scans the whole source. Comments are collected on the lexer as a
// side channel for the nolint layer.
func (lx *lexer) tokens() ([]token, error) {
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.typ == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) next() (token, error) {
	newline, err := lx.skipSpace()
	if err != nil {
		return token{}, err
	}

	start := lx.position()
	c, ok := lx.peekByte()
	if !ok {
		return token{typ: tokEOF, pos: start, end: start, newlineBefore: newline}, nil
	}

	switch {
	case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
		lit := lx.scanIdent()
		return token{typ: tokIdent, lit: lit, pos: start, end: lx.position(), newlineBefore: newline}, nil
	case c >= '0' && c <= '9':
		lit := lx.scanNumber()
		return token{typ: tokNumber, lit: lit, pos: start, end: lx.position(), newlineBefore: newline}, nil
	case c == '\'' || c == '"' || c == '`':
		lit, err := lx.scanString(c)
		if err != nil {
			return token{}, err
		}
		return token{typ: tokString, lit: lit, pos: start, end: lx.position(), newlineBefore: newline}, nil
	case c == '.' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] >= '0' && lx.src[lx.off+1] <= '9':
		lit := lx.scanNumber()
		return token{typ: tokNumber, lit: lit, pos: start, end: lx.position(), newlineBefore: newline}, nil
	}

	for _, op := range operators {
		if len(lx.src)-lx.off >= len(op) && lx.src[lx.off:lx.off+len(op)] == op {
			for range op {
				lx.advance()
			}
			return token{typ: tokPunct, lit: op, pos: start, end: lx.position(), newlineBefore: newline}, nil
		}
	}

	return token{}, fmt.Errorf("%d:%d: unexpected character %q", start.Line, start.Column, rune(c))
}

// skipSpace consumes whitespace and comments, reporting whether a line
// terminator was crossed.
func (lx *lexer) skipSpace() (bool, error) {
	newline := false
	for {
		c, ok := lx.peekByte()
		if !ok {
			return newline, nil
		}
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.advance()
		case c == '\n':
			newline = true
			lx.advance()
		case c == '/' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '/':
			start := lx.position()
			lx.advance()
			lx.advance()
			textStart := lx.off
			for {
				c, ok := lx.peekByte()
				if !ok || c == '\n' {
					break
				}
				lx.advance()
			}
			lx.comments = append(lx.comments, ast.Comment{
				Span: ast.Span{Start: start, End: lx.position()},
				Text: lx.src[textStart:lx.off],
			})
		case c == '/' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '*':
			start := lx.position()
			lx.advance()
			lx.advance()
			textStart := lx.off
			closed := false
			for !closed {
				c, ok := lx.advance()
				if !ok {
					return newline, fmt.Errorf("%d:%d: unterminated block comment", start.Line, start.Column)
				}
				if c == '\n' {
					newline = true
				}
				if c == '*' {
					if n, ok := lx.peekByte(); ok && n == '/' {
						lx.advance()
						closed = true
					}
				}
			}
			lx.comments = append(lx.comments, ast.Comment{
				Span:  ast.Span{Start: start, End: lx.position()},
				Text:  lx.src[textStart : lx.off-2],
				Block: true,
			})
		default:
			return newline, nil
		}
	}
}

func (lx *lexer) scanIdent() string {
	start := lx.off
	for lx.off < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !isIdentPart(r) {
			break
		}
		for i := 0; i < size; i++ {
			lx.advance()
		}
	}
	return lx.src[start:lx.off]
}

func (lx *lexer) scanNumber() string {
	start := lx.off
	if c, _ := lx.peekByte(); c == '0' && lx.off+1 < len(lx.src) {
		switch lx.src[lx.off+1] {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			lx.advance()
			lx.advance()
			for {
				c, ok := lx.peekByte()
				if !ok || !isHexDigit(c) {
					break
				}
				lx.advance()
			}
			return lx.src[start:lx.off]
		}
	}
	digits := func() {
		for {
			c, ok := lx.peekByte()
			if !ok || c < '0' || c > '9' {
				break
			}
			lx.advance()
		}
	}
	digits()
	if c, ok := lx.peekByte(); ok && c == '.' {
		lx.advance()
		digits()
	}
	if c, ok := lx.peekByte(); ok && (c == 'e' || c == 'E') {
		lx.advance()
		if c, ok := lx.peekByte(); ok && (c == '+' || c == '-') {
			lx.advance()
		}
		digits()
	}
	return lx.src[start:lx.off]
}

// scanString consumes a quoted string and returns its source text including
// the quotes. Template literals are scanned as plain strings; substitution
// contents are not tokenized.
func (lx *lexer) scanString(quote byte) (string, error) {
	start := lx.off
	startPos := lx.position()
	lx.advance()
	for {
		c, ok := lx.advance()
		if !ok {
			return "", fmt.Errorf("%d:%d: unterminated string literal", startPos.Line, startPos.Column)
		}
		if c == '\\' {
			lx.advance()
			continue
		}
		if c == quote {
			return lx.src[start:lx.off], nil
		}
		if c == '\n' && quote != '`' {
			return "", fmt.Errorf("%d:%d: unterminated string literal", startPos.Line, startPos.Column)
		}
	}
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
