package expressions

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type token struct {
	text string
	kind tokenKind
	// col is the 1-based rune column of the token's first rune.
	col int
	// off is the byte offset of the token in the source.
	off int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.col)
}

type tokenKind int8

const (
	tokenEOF tokenKind = iota
	// tokenNum is a decimal number literal.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is one of + - * / ^ **.
	tokenOp
	tokenOpen
	tokenClose
	// tokenComma separates function arguments.
	tokenComma
)

//go:generate stringer -type=tokenKind -trimprefix=token

// lexer splits a formula into tokens. Formulas are ASCII arithmetic: decimal
// numbers, names, + - * / ^ ** and round brackets. Anything else is a
// *LexError.
type lexer struct {
	src string
	off int
	col int
}

func lex(src string) *lexer {
	return &lexer{src: src, col: 1}
}

// peekRune returns the rune at the current offset without consuming it.
func (l *lexer) peekRune() (rune, int) {
	if l.off >= len(l.src) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *lexer) advance(sz int) {
	l.off += sz
	l.col++
}

// next scans the next token. At the end of input it returns a tokenEOF token
// every time it is called.
func (l *lexer) next() (token, error) {
	for {
		r, sz := l.peekRune()
		if r < 0 || !unicode.IsSpace(r) {
			break
		}
		l.advance(sz)
	}
	tok := token{col: l.col, off: l.off}
	r, sz := l.peekRune()
	switch {
	case r < 0:
		tok.kind = tokenEOF
		return tok, nil
	case '0' <= r && r <= '9', r == '.':
		tok.kind = tokenNum
		return l.number(tok)
	case r == '_', isLetter(r):
		for {
			l.advance(sz)
			r, sz = l.peekRune()
			if r != '_' && !isLetter(r) && !('0' <= r && r <= '9') {
				break
			}
		}
		tok.kind = tokenIdent
	case r == '*':
		l.advance(sz)
		if r, sz := l.peekRune(); r == '*' {
			l.advance(sz)
		}
		tok.kind = tokenOp
	case r == '+', r == '-', r == '/', r == '^':
		l.advance(sz)
		tok.kind = tokenOp
	case r == '(':
		l.advance(sz)
		tok.kind = tokenOpen
	case r == ')':
		l.advance(sz)
		tok.kind = tokenClose
	case r == ',':
		l.advance(sz)
		tok.kind = tokenComma
	default:
		return tok, &LexError{Text: string(r), Col: tok.col}
	}
	tok.text = l.src[tok.off:l.off]
	return tok, nil
}

// number scans digits [. digits] [e [+-] digits]. At least one digit must
// appear in the mantissa and in the exponent, if any.
func (l *lexer) number(tok token) (token, error) {
	digits := func() int {
		n := 0
		for {
			r, sz := l.peekRune()
			if r < '0' || r > '9' {
				return n
			}
			l.advance(sz)
			n++
		}
	}
	bad := func() (token, error) {
		return tok, &LexError{Text: l.src[tok.off:l.off], Kind: "number", Col: tok.col}
	}
	n := digits()
	if r, sz := l.peekRune(); r == '.' {
		l.advance(sz)
		n += digits()
	}
	if n == 0 {
		return bad()
	}
	if r, sz := l.peekRune(); r == 'e' || r == 'E' {
		l.advance(sz)
		if r, sz := l.peekRune(); r == '+' || r == '-' {
			l.advance(sz)
		}
		if digits() == 0 {
			return bad()
		}
	}
	// A number running into a dot or a name is malformed rather than two
	// adjacent terms: 1.2.3, 2e5x.
	if r, sz := l.peekRune(); r == '.' || r == '_' || isLetter(r) {
		l.advance(sz)
		return bad()
	}
	tok.text = l.src[tok.off:l.off]
	return tok, nil
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the part of the token scanned up to and including the invalid
	// rune.
	Text string
	// Kind is "number" for a malformed number literal and empty for a rune
	// that cannot start any token.
	Kind string
	// Col is the column of the first rune of the token.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return at(err.Col, "unexpected character "+strconv.Quote(err.Text))
	}
	return at(err.Col, "malformed "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
