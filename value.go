package unitcalc

import (
	"context"
	"errors"
	"strconv"
)

// Value is the result of evaluating an expression. Exactly one variant is
// active at a time: a number, a reference to a builtin function, a formatting
// directive, the significant-digits marker ("dp"), or a numeric base.
type Value struct {
	kind  valueKind
	num   Number
	fn    string
	style FormattingStyle
	base  Base
}

type valueKind int8

const (
	valueNone valueKind = iota
	valueNum
	valueFunc
	valueFormat
	valueDp
	valueBase
)

func numValue(n Number) Value             { return Value{kind: valueNum, num: n} }
func funcValue(name string) Value         { return Value{kind: valueFunc, fn: name} }
func formatValue(s FormattingStyle) Value { return Value{kind: valueFormat, style: s} }
func dpValue() Value                      { return Value{kind: valueDp} }
func baseValue(b Base) Value              { return Value{kind: valueBase, base: b} }

// Num returns the numeric value and reports whether the value is a number.
func (v Value) Num() (Number, bool) {
	return v.num, v.kind == valueNum
}

// IsFunc reports whether the value is a reference to a builtin function.
func (v Value) IsFunc() bool {
	return v.kind == valueFunc
}

func (v Value) String() string {
	switch v.kind {
	case valueNum:
		return v.num.String()
	case valueFunc:
		return v.fn
	case valueFormat:
		return v.style.String()
	case valueDp:
		return "dp"
	case valueBase:
		return v.base.String()
	}
	return "<invalid value>"
}

// describe names the value's kind for error messages.
func (v Value) describe() string {
	switch v.kind {
	case valueNum:
		return "a number"
	case valueFunc:
		return "the function " + strconv.Quote(v.fn)
	case valueFormat:
		return "a formatting style"
	case valueDp:
		return "dp"
	case valueBase:
		return v.base.String()
	}
	return "an invalid value"
}

// expectNum is the single coercion point for operations that require a
// number.
func (v Value) expectNum() (Number, error) {
	if v.kind != valueNum {
		return Number{}, &TypeError{Want: "a number", Got: v.describe()}
	}
	return v.num, nil
}

// ErrConvertFunction is returned when the target or source of an "as"
// conversion is a function.
var ErrConvertFunction = errors.New("cannot convert value to a function")

// apply implements the three juxtaposition semantics. With forceMul, both
// operands are multiplied even if v is a function. Otherwise a function v is
// called on arg; without allowMul a non-function v is an error, and with it
// the operands are multiplied instead.
func (v Value) apply(ctx context.Context, arg Value, allowMul, forceMul bool, opts Options) (Value, error) {
	if v.kind == valueFunc && !forceMul {
		n, err := arg.expectNum()
		if err != nil {
			return Value{}, err
		}
		return applyBuiltin(ctx, v.fn, n, opts)
	}
	if !allowMul {
		return Value{}, &TypeError{Want: "a function", Got: v.describe()}
	}
	l, err := v.expectNum()
	if err != nil {
		return Value{}, err
	}
	r, err := arg.expectNum()
	if err != nil {
		return Value{}, err
	}
	n, err := l.mul(r)
	if err != nil {
		return Value{}, err
	}
	return numValue(n), nil
}
