package unitcalc

import (
	"strings"
)

// Expr is a node in the abstract syntax tree of an expression.
type Expr struct {
	kind exprKind

	// name is the literal text for exprNum nodes and the identifier for
	// exprIdent nodes.
	name string
	// base is the radix of an exprNum literal's text, 10 unless the literal
	// carried a 0x, 0o, or 0b prefix.
	base int8

	left  *Expr
	right *Expr
}

type exprKind int8

const (
	exprNone exprKind = iota

	exprNum   // literal; name holds the digits, base the radix
	exprIdent // name lookup

	exprParens // evaluate left
	exprNeg    // negate left
	exprPlus   // evaluate left, requiring a number
	exprRecip  // 1 divided by left
	exprFact   // factorial of left

	exprAdd // left + right
	exprSub // left - right
	exprMul // left * right
	exprDiv // left / right
	exprPow // left ^ right

	// exprApply calls left on right if left is a function and multiplies
	// otherwise. exprApplyCall always calls, and a non-function left is an
	// error. exprApplyMul always multiplies, even if left is a function.
	exprApply
	exprApplyCall
	exprApplyMul

	exprAs // convert left according to right
)

func (e *Expr) String() string {
	var b strings.Builder
	e.fmt(&b)
	return b.String()
}

func (e *Expr) fmt(b *strings.Builder) {
	switch e.kind {
	case exprNum:
		b.WriteString(e.name)
	case exprIdent:
		b.WriteString(e.name)
	case exprParens:
		b.WriteByte('(')
		e.left.fmt(b)
		b.WriteByte(')')
	case exprNeg:
		b.WriteString("(-")
		e.left.fmt(b)
		b.WriteByte(')')
	case exprPlus:
		b.WriteString("(+")
		e.left.fmt(b)
		b.WriteByte(')')
	case exprRecip:
		b.WriteString("(/")
		e.left.fmt(b)
		b.WriteByte(')')
	case exprFact:
		e.left.fmt(b)
		b.WriteByte('!')
	case exprAdd:
		e.binfmt(b, "+")
	case exprSub:
		e.binfmt(b, "-")
	case exprMul:
		e.binfmt(b, "*")
	case exprDiv:
		e.binfmt(b, "/")
	case exprPow:
		e.binfmt(b, "^")
	case exprApply:
		b.WriteByte('(')
		e.left.fmt(b)
		b.WriteString(" (")
		e.right.fmt(b)
		b.WriteString("))")
	case exprApplyCall, exprApplyMul:
		b.WriteByte('(')
		e.left.fmt(b)
		b.WriteByte(' ')
		e.right.fmt(b)
		b.WriteByte(')')
	case exprAs:
		b.WriteByte('(')
		e.left.fmt(b)
		b.WriteString(" as ")
		e.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("unitcalc: invalid AST node kind " + string(rune('0'+e.kind)))
	}
}

func (e *Expr) binfmt(b *strings.Builder, op string) {
	b.WriteByte('(')
	e.left.fmt(b)
	b.WriteString(op)
	e.right.fmt(b)
	b.WriteByte(')')
}
