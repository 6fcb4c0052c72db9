package unitcalc

import (
	"io"
	"strings"
)

// Parse reads an expression from src. The resulting tree is immutable and
// can be evaluated any number of times, against different scopes.
func Parse(src io.RuneScanner) (*Expr, error) {
	p := &parser{l: lex(src)}
	e, err := p.parseAs()
	if err != nil {
		return nil, err
	}
	tok, err := p.l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, &TokenError{Col: tok.pos, Token: tok.text}
	}
	return e, nil
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

type parser struct {
	l *lexer
}

// parseAs parses conversion chains, the loosest-binding form:
// additive ("as" additive)*.
func (p *parser) parseAs() (*Expr, error) {
	l, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenIdent || tok.text != "as" {
			p.l.push(tok)
			return l, nil
		}
		r, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		l = &Expr{kind: exprAs, left: l, right: r}
	}
}

func (p *parser) parseAdd() (*Expr, error) {
	l, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.l.next()
		if err != nil {
			return nil, err
		}
		var kind exprKind
		switch {
		case tok.kind == tokenOp && tok.text == "+":
			kind = exprAdd
		case tok.kind == tokenOp && tok.text == "-":
			kind = exprSub
		default:
			p.l.push(tok)
			return l, nil
		}
		r, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		l = &Expr{kind: kind, left: l, right: r}
	}
}

func (p *parser) parseMul() (*Expr, error) {
	l, err := p.parseJuxta()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.l.next()
		if err != nil {
			return nil, err
		}
		var kind exprKind
		switch {
		case tok.kind == tokenOp && tok.text == "*":
			kind = exprMul
		case tok.kind == tokenOp && tok.text == "/":
			kind = exprDiv
		default:
			p.l.push(tok)
			return l, nil
		}
		r, err := p.parseJuxta()
		if err != nil {
			return nil, err
		}
		l = &Expr{kind: kind, left: l, right: r}
	}
}

// parseJuxta parses juxtaposed terms, which bind tighter than explicit
// multiplication. The producer decides the application semantics here:
// an identifier directly followed by a parenthesized term is a forced call,
// a numeric literal followed by a term is a forced multiplication, and any
// other adjacency resolves by the runtime kind of the left value.
func (p *parser) parseJuxta() (*Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.l.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOpen:
			if l.kind == exprIdent {
				p.l.push(tok)
				r, err := p.parseParens()
				if err != nil {
					return nil, err
				}
				l = &Expr{kind: exprApplyCall, left: l, right: r.left}
				continue
			}
		case tokenNum:
		case tokenIdent:
			if tok.text == "as" {
				p.l.push(tok)
				return l, nil
			}
			// An identifier-led operand takes the rest of the chain, so
			// that f g x applies f to the result of g applied to x.
			p.l.push(tok)
			r, err := p.parseJuxta()
			if err != nil {
				return nil, err
			}
			kind := exprApply
			if l.kind == exprNum {
				kind = exprApplyMul
			}
			return &Expr{kind: kind, left: l, right: r}, nil
		default:
			p.l.push(tok)
			return l, nil
		}
		p.l.push(tok)
		r, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		kind := exprApply
		if l.kind == exprNum {
			kind = exprApplyMul
		}
		l = &Expr{kind: kind, left: l, right: r}
	}
}

func (p *parser) parseUnary() (*Expr, error) {
	tok, err := p.l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenOp {
		var kind exprKind
		switch tok.text {
		case "-":
			kind = exprNeg
		case "+":
			kind = exprPlus
		case "/":
			kind = exprRecip
		default:
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{kind: kind, left: e}, nil
	}
	p.l.push(tok)
	return p.parsePow()
}

// parsePow parses exponentiation, which is right-associative and binds
// looser than a unary operator on its right: 2^-3 negates the exponent, and
// -2^2 negates the power.
func (p *parser) parsePow() (*Expr, error) {
	l, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	tok, err := p.l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp || tok.text != "^" {
		p.l.push(tok)
		return l, nil
	}
	r, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Expr{kind: exprPow, left: l, right: r}, nil
}

func (p *parser) parsePostfix() (*Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp || tok.text != "!" {
			p.l.push(tok)
			return e, nil
		}
		e = &Expr{kind: exprFact, left: e}
	}
}

func (p *parser) parseAtom() (*Expr, error) {
	tok, err := p.l.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &Expr{kind: exprNum, name: tok.text, base: tok.base}, nil
	case tokenIdent:
		if tok.text == "as" {
			return nil, &TokenError{Col: tok.pos, Token: tok.text}
		}
		return &Expr{kind: exprIdent, name: tok.text}, nil
	case tokenOpen:
		p.l.push(tok)
		return p.parseParens()
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: ")"}
	case tokenOp:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	return nil, &TokenError{Col: tok.pos, Token: tok.text}
}

// parseParens parses a parenthesized expression, including the brackets.
func (p *parser) parseParens() (*Expr, error) {
	open, err := p.l.next()
	if err != nil {
		return nil, err
	}
	e, err := p.parseAs()
	if err != nil {
		return nil, err
	}
	tok, err := p.l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenClose {
		return nil, &BracketError{Col: open.pos, Left: "("}
	}
	return &Expr{kind: exprParens, left: e}, nil
}
