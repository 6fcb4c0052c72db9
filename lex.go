package unitcalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	// base is the radix of a num token, 10 unless the literal had a prefix.
	base int8
	pos  int
}

func (t lexToken) String() string {
	return t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a numeric literal.
	tokenNum
	// tokenIdent is an identifier, including the "as" keyword.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
)

// Operators contains the runes which are considered to be operators. The
// multiplication and division signs are normalized to * and /.
const Operators = "+-*/^!×÷"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	// pend holds runes given back by pushback, replayed LIFO before reading
	// from src. Deciding whether an e starts an exponent or an identifier
	// needs more lookahead than io.RuneScanner's single unread.
	pend []rune
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next.
// Panics if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("unitcalc: double push")
	}
	l.p = tok
}

// readRune reads a rune and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	if n := len(l.pend); n > 0 {
		r = l.pend[n-1]
		l.pend = l.pend[:n-1]
		l.rune++
		return r, nil
	}
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// pushback gives back a read rune so it is seen again by readRune.
func (l *lexer) pushback(r rune) {
	l.pend = append(l.pend, r)
	l.rune--
}

// next scans the next token from the input. At the end of the input, the
// result is an EOF token; if that token is not pushed, subsequent calls
// return io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.pushback(r)
			base, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			tok.base = base
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.pushback(r)
			l.scanIdent()
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		default:
			if strings.ContainsRune(Operators, r) {
				switch r {
				case '×':
					tok.text = "*"
				case '÷':
					tok.text = "/"
				default:
					tok.text = string(r)
				}
				tok.kind = tokenOp
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans a numeric literal and returns its base. A leading 0x, 0o, or
// 0b prefix selects the base and is not included in the token text.
func (l *lexer) scanNum() (int8, error) {
	r, _ := l.readRune()
	if r == '0' {
		r2, err := l.readRune()
		if err == nil {
			switch r2 {
			case 'x', 'X':
				return 16, l.scanDigits(16)
			case 'o', 'O':
				return 8, l.scanDigits(8)
			case 'b', 'B':
				return 2, l.scanDigits(2)
			}
			l.pushback(r2)
		}
	}
	l.pushback(r)
	return 10, l.scanDecimal()
}

// scanDigits scans the digits of a prefixed integer literal.
func (l *lexer) scanDigits(base int8) error {
	n := 0
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if d := digitVal(r); d < 0 || d >= int(base) {
			l.pushback(r)
			break
		}
		l.buf.WriteRune(r)
		n++
	}
	if n == 0 {
		return l.error("number")
	}
	return nil
}

func digitVal(r rune) int {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0')
	case 'a' <= r && r <= 'f':
		return int(r-'a') + 10
	case 'A' <= r && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

// scanDecimal scans a base 10 literal: digits with an optional decimal point
// and exponent. An e is an exponent marker only when digits or a sign follow
// it; otherwise it begins an adjacent identifier, so that "2e" multiplies 2
// by the constant e.
func (l *lexer) scanDecimal() error {
	var dig, dot, e, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			l.buf.WriteRune(r)
		case r == '.':
			if dot || e {
				l.buf.WriteRune(r)
				return l.error("number")
			}
			dot = true
			l.buf.WriteRune(r)
		case (r == 'e' || r == 'E') && dig && !e:
			r2, err2 := l.readRune()
			if err2 != nil || (digitVal(r2) < 0 || digitVal(r2) > 9) && r2 != '+' && r2 != '-' {
				if err2 == nil {
					l.pushback(r2)
				}
				l.pushback(r)
				return l.finishDecimal(dig, e, ed)
			}
			e = true
			l.buf.WriteRune(r)
			if r2 == '+' || r2 == '-' {
				l.buf.WriteRune(r2)
			} else {
				ed = true
				l.buf.WriteRune(r2)
			}
		default:
			l.pushback(r)
			return l.finishDecimal(dig, e, ed)
		}
	}
	return l.finishDecimal(dig, e, ed)
}

func (l *lexer) finishDecimal(dig, e, ed bool) error {
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() {
	for {
		r, err := l.readRune()
		if err != nil {
			return
		}
		switch {
		case r == '_', r == '.', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.pushback(r)
			return
		}
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning, "number" or the
	// empty string if a token kind hadn't been decided.
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
