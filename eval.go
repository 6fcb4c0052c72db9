package unitcalc

import (
	"context"
	"strings"
)

// DefaultPrec is the precision in bits used when Options.Prec is zero.
const DefaultPrec = 256

// Options configures evaluation. The zero value selects the default builtin
// table and DefaultPrec.
type Options struct {
	// Compat selects the reduced, units(1)-compatible builtin table. Names
	// outside that table, including pi and the format directives, defer to
	// the scope.
	Compat bool
	// Prec is the working precision of numbers in bits.
	Prec uint
}

func (o Options) prec() uint {
	if o.Prec == 0 {
		return DefaultPrec
	}
	return o.Prec
}

// Evaluate evaluates an expression tree. The context is polled once before
// every node visit; if it is done, evaluation aborts with the context's
// error, which propagates unchanged to the caller. Any other error likewise
// aborts the whole evaluation: there are no partial results.
//
// The scope is read to resolve identifiers that are not builtins. It is
// treated as exclusively owned for the duration of the call; concurrent
// evaluations must not share a live scope.
func Evaluate(ctx context.Context, e *Expr, scope *Scope, opts Options) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	switch e.kind {
	case exprNum:
		n, err := numberFromString(e.name, int(e.base), opts.prec())
		if err != nil {
			// The lexer validated the digits already.
			panic("unitcalc: invalid number literal " + e.name + ": " + err.Error())
		}
		return numValue(n), nil
	case exprIdent:
		return resolveIdentifier(ctx, e.name, scope, opts)
	case exprParens, exprPlus:
		v, err := Evaluate(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		n, err := v.expectNum()
		if err != nil {
			return Value{}, err
		}
		return numValue(n), nil
	case exprNeg:
		n, err := evalNum(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		return numValue(n.neg()), nil
	case exprRecip:
		n, err := evalNum(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		r, err := numberFromInt(1, opts.prec()).div(n)
		if err != nil {
			return Value{}, err
		}
		return numValue(r), nil
	case exprFact:
		n, err := evalNum(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		r, err := n.factorial(ctx)
		if err != nil {
			return Value{}, err
		}
		return numValue(r), nil
	case exprAdd, exprSub, exprMul, exprDiv, exprPow:
		l, err := evalNum(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		r, err := evalNum(ctx, e.right, scope, opts)
		if err != nil {
			return Value{}, err
		}
		var n Number
		switch e.kind {
		case exprAdd:
			n, err = l.add(r)
		case exprSub:
			n, err = l.sub(r)
		case exprMul:
			n, err = l.mul(r)
		case exprDiv:
			n, err = l.div(r)
		case exprPow:
			n, err = l.pow(ctx, r)
		}
		if err != nil {
			return Value{}, err
		}
		return numValue(n), nil
	case exprApply, exprApplyCall, exprApplyMul:
		l, err := Evaluate(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		r, err := Evaluate(ctx, e.right, scope, opts)
		if err != nil {
			return Value{}, err
		}
		allowMul := e.kind != exprApplyCall
		forceMul := e.kind == exprApplyMul
		return l.apply(ctx, r, allowMul, forceMul, opts)
	case exprAs:
		// The target evaluates first: its kind decides how the left operand
		// is interpreted.
		t, err := Evaluate(ctx, e.right, scope, opts)
		if err != nil {
			return Value{}, err
		}
		l, err := evalAsSource(ctx, e.left, scope, opts)
		if err != nil {
			return Value{}, err
		}
		switch t.kind {
		case valueNum:
			n, err := l.convertTo(t.num)
			if err != nil {
				return Value{}, err
			}
			return numValue(n), nil
		case valueFormat:
			return numValue(l.withFormat(t.style)), nil
		case valueDp:
			return numValue(l.withFormat(ApproxFloat(10))), nil
		case valueBase:
			n, err := l.withBase(t.base)
			if err != nil {
				return Value{}, err
			}
			return numValue(n), nil
		case valueFunc:
			return Value{}, ErrConvertFunction
		}
		return Value{}, &TypeError{Want: "a conversion target", Got: t.describe()}
	}
	panic("unitcalc: invalid AST node kind")
}

// evalNum evaluates a subexpression that must produce a number.
func evalNum(ctx context.Context, e *Expr, scope *Scope, opts Options) (Number, error) {
	v, err := Evaluate(ctx, e, scope, opts)
	if err != nil {
		return Number{}, err
	}
	return v.expectNum()
}

// evalAsSource evaluates the left operand of a conversion, which must be a
// number. A function on the left gets the conversion-specific error.
func evalAsSource(ctx context.Context, e *Expr, scope *Scope, opts Options) (Number, error) {
	v, err := Evaluate(ctx, e, scope, opts)
	if err != nil {
		return Number{}, err
	}
	if v.kind == valueFunc {
		return Number{}, ErrConvertFunction
	}
	return v.expectNum()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(ctx context.Context, src string, scope *Scope, opts Options) (Value, error) {
	e, err := Parse(strings.NewReader(src))
	if err != nil {
		return Value{}, err
	}
	return Evaluate(ctx, e, scope, opts)
}

// mustConst evaluates the fixed literal source of a builtin constant. Only
// an interrupt can surface as an error; any other failure is a defect in the
// constant table and panics.
func mustConst(ctx context.Context, src string, scope *Scope, opts Options) (Value, error) {
	v, err := EvalString(ctx, src, scope, opts)
	if err != nil {
		if ctx.Err() != nil {
			return Value{}, err
		}
		panic("unitcalc: builtin constant " + src + ": " + err.Error())
	}
	return v, nil
}

// resolveIdentifier resolves a bare name against the mode-dependent builtin
// table, deferring to the scope for anything the table does not know. It
// never mutates the scope.
func resolveIdentifier(ctx context.Context, name string, scope *Scope, opts Options) (Value, error) {
	if opts.Compat {
		switch name {
		case "exp", "sqrt", "ln", "log2", "log10", "tan", "asin":
			return funcValue(name), nil
		case "approx.", "approximately":
			return funcValue("approximately"), nil
		}
		return scopeLookup(name, scope)
	}
	switch name {
	case "pi":
		return mustConst(ctx, "approx. 3.141592653589793238", scope, opts)
	case "e":
		return mustConst(ctx, "approx. 2.718281828459045235", scope, opts)
	case "i":
		return numValue(imaginaryUnit(opts.prec())), nil
	case "sqrt", "cbrt", "abs",
		"sin", "cos", "tan", "asin", "acos", "atan",
		"sinh", "cosh", "tanh", "asinh", "acosh", "atanh",
		"ln", "log2", "log10", "exp":
		return funcValue(name), nil
	case "approx.", "approximately":
		return funcValue("approximately"), nil
	case "auto":
		return formatValue(StyleAuto), nil
	case "exact":
		return formatValue(StyleExact), nil
	case "fraction":
		return formatValue(StyleFraction), nil
	case "float":
		return formatValue(StyleFloat), nil
	case "dp":
		return dpValue(), nil
	case "base":
		return funcValue("base"), nil
	case "decimal":
		return plainBase(10)
	case "hex", "hexadecimal":
		return plainBase(16)
	case "binary":
		return plainBase(2)
	case "octal":
		return plainBase(8)
	}
	return scopeLookup(name, scope)
}

func plainBase(n int) (Value, error) {
	b, err := BaseFromPlain(n)
	if err != nil {
		return Value{}, err
	}
	return baseValue(b), nil
}

func scopeLookup(name string, scope *Scope) (Value, error) {
	if v, ok := scope.Get(name); ok {
		return v, nil
	}
	return Value{}, &NameError{Name: name}
}
