package unitcalc

import (
	"context"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// applyBuiltin evaluates a builtin function reference on a numeric argument.
func applyBuiltin(ctx context.Context, name string, arg Number, opts Options) (Value, error) {
	switch name {
	case "approximately":
		return numValue(arg.markApprox()), nil
	case "base":
		if !arg.isInt() || len(arg.units) != 0 {
			return Value{}, &DomainError{X: arg.String(), Func: "base"}
		}
		k, acc := arg.re.Int64()
		if acc != big.Exact {
			return Value{}, &DomainError{X: arg.String(), Func: "base"}
		}
		b, err := BaseFromPlain(int(k))
		if err != nil {
			return Value{}, err
		}
		return baseValue(b), nil
	case "abs":
		return numValue(absNum(arg)), nil
	}
	f := numericFuncs[name]
	if f == nil {
		// The resolver only produces function references it knows.
		panic("unitcalc: unknown builtin function " + name)
	}
	if !arg.isReal() || len(arg.units) != 0 {
		return Value{}, &DomainError{X: arg.String(), Func: name}
	}
	r, err := f(ctx, arg.re, name)
	if err != nil {
		return Value{}, err
	}
	return numValue(Number{re: r, approx: true}), nil
}

// realFunc computes a real function of a real argument. name is passed back
// for error reporting.
type realFunc func(ctx context.Context, x *big.Float, name string) (*big.Float, error)

var numericFuncs = map[string]realFunc{
	"sqrt":  fnSqrt,
	"cbrt":  fnCbrt,
	"exp":   fnExp,
	"ln":    fnLn,
	"log2":  logBase(2),
	"log10": logBase(10),
	"sin":   fnSin,
	"cos":   fnCos,
	"tan":   fnTan,
	"asin":  fnAsin,
	"acos":  fnAcos,
	"atan":  fnAtan,
	"sinh":  fnSinh,
	"cosh":  fnCosh,
	"tanh":  fnTanh,
	"asinh": fnAsinh,
	"acosh": fnAcosh,
	"atanh": fnAtanh,
}

// guard bits used for intermediate computations.
const guardBits = 32

func work(x *big.Float) (uint, uint) {
	p := x.Prec()
	return p, p + guardBits
}

func round(r *big.Float, p uint) *big.Float {
	return r.SetPrec(p)
}

func domain(x *big.Float, name string) error {
	return &DomainError{X: trimFloat(x.Text('g', approxDigits)), Func: name}
}

func absNum(n Number) Number {
	if n.isReal() {
		if n.re.Signbit() {
			return n.neg()
		}
		return n
	}
	// |a+bi| = sqrt(a^2 + b^2)
	p, wp := work(n.re)
	a2 := new(big.Float).SetPrec(wp).Mul(n.re, n.re)
	b2 := new(big.Float).SetPrec(wp).Mul(n.im, n.im)
	a2.Add(a2, b2)
	n.re = round(a2.Sqrt(a2), p)
	n.im = nil
	n.approx = true
	return n
}

func fnSqrt(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	if x.Signbit() && x.Sign() != 0 {
		return nil, domain(x, name)
	}
	p, wp := work(x)
	r := new(big.Float).SetPrec(wp).Sqrt(x)
	return round(r, p), nil
}

func fnCbrt(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	if x.Sign() == 0 {
		return new(big.Float).SetPrec(x.Prec()), nil
	}
	p, wp := work(x)
	ax := new(big.Float).SetPrec(wp).Abs(x)
	third := new(big.Float).SetPrec(wp).Quo(
		new(big.Float).SetPrec(wp).SetInt64(1),
		new(big.Float).SetPrec(wp).SetInt64(3),
	)
	r := bigfloat.Pow(new(big.Float).SetPrec(wp), ax, third)
	if x.Signbit() {
		r.Neg(r)
	}
	return round(r, p), nil
}

func fnExp(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	r := bigfloat.Exp(new(big.Float).SetPrec(wp), x)
	return round(r, p), nil
}

func fnLn(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	if x.Sign() <= 0 {
		return nil, domain(x, name)
	}
	p, wp := work(x)
	r := bigfloat.Log(new(big.Float).SetPrec(wp), x)
	return round(r, p), nil
}

func logBase(b int64) realFunc {
	return func(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
		if x.Sign() <= 0 {
			return nil, domain(x, name)
		}
		p, wp := work(x)
		r := bigfloat.Log(new(big.Float).SetPrec(wp), x)
		d := bigfloat.Log(new(big.Float).SetPrec(wp), new(big.Float).SetPrec(wp).SetInt64(b))
		r.Quo(r, d)
		return round(r, p), nil
	}
}

// reduceTrig maps x into [-pi, pi] modulo 2 pi.
func reduceTrig(x *big.Float, wp uint) *big.Float {
	pi := bigfloat.Pi(new(big.Float).SetPrec(wp))
	twopi := new(big.Float).SetPrec(wp).Add(pi, pi)
	r := new(big.Float).SetPrec(wp).Set(x)
	q := new(big.Float).SetPrec(wp).Quo(r, twopi)
	qi, _ := q.Int(nil)
	q.SetInt(qi)
	r.Sub(r, q.Mul(q, twopi))
	if r.Cmp(pi) > 0 {
		r.Sub(r, twopi)
	}
	neg := new(big.Float).Neg(pi)
	if r.Cmp(neg) < 0 {
		r.Add(r, twopi)
	}
	return r
}

// sinSeries sums the Maclaurin series for sine; x must already be reduced.
func sinSeries(ctx context.Context, x *big.Float, wp uint) (*big.Float, error) {
	sum := new(big.Float).SetPrec(wp).Set(x)
	term := new(big.Float).SetPrec(wp).Set(x)
	x2 := new(big.Float).SetPrec(wp).Mul(x, x)
	thr := new(big.Float).SetMantExp(big.NewFloat(1), -int(wp)-4)
	k := new(big.Float).SetPrec(wp)
	for i := int64(1); ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		term.Mul(term, x2)
		k.SetInt64(2 * i * (2*i + 1))
		term.Quo(term, k)
		term.Neg(term)
		sum.Add(sum, term)
		if new(big.Float).Abs(term).Cmp(thr) < 0 {
			return sum, nil
		}
	}
}

// cosSeries sums the Maclaurin series for cosine; x must already be reduced.
func cosSeries(ctx context.Context, x *big.Float, wp uint) (*big.Float, error) {
	sum := new(big.Float).SetPrec(wp).SetInt64(1)
	term := new(big.Float).SetPrec(wp).SetInt64(1)
	x2 := new(big.Float).SetPrec(wp).Mul(x, x)
	thr := new(big.Float).SetMantExp(big.NewFloat(1), -int(wp)-4)
	k := new(big.Float).SetPrec(wp)
	for i := int64(1); ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		term.Mul(term, x2)
		k.SetInt64(2*i - 1)
		term.Quo(term, k)
		k.SetInt64(2 * i)
		term.Quo(term, k)
		term.Neg(term)
		sum.Add(sum, term)
		if new(big.Float).Abs(term).Cmp(thr) < 0 {
			return sum, nil
		}
	}
}

func fnSin(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	r, err := sinSeries(ctx, reduceTrig(x, wp), wp)
	if err != nil {
		return nil, err
	}
	return round(r, p), nil
}

func fnCos(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	r, err := cosSeries(ctx, reduceTrig(x, wp), wp)
	if err != nil {
		return nil, err
	}
	return round(r, p), nil
}

func fnTan(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	t := reduceTrig(x, wp)
	s, err := sinSeries(ctx, t, wp)
	if err != nil {
		return nil, err
	}
	c, err := cosSeries(ctx, t, wp)
	if err != nil {
		return nil, err
	}
	if c.Sign() == 0 {
		return nil, domain(x, name)
	}
	return round(s.Quo(s, c), p), nil
}

// atanSeries computes arctangent for |x| <= 1 by argument halving and the
// Maclaurin series.
func atanSeries(ctx context.Context, x *big.Float, wp uint) (*big.Float, error) {
	x = new(big.Float).SetPrec(wp).Set(x)
	one := new(big.Float).SetPrec(wp).SetInt64(1)
	eighth := new(big.Float).SetMantExp(big.NewFloat(1), -3)
	halvings := 0
	for new(big.Float).Abs(x).Cmp(eighth) > 0 {
		// atan x = 2 atan(x / (1 + sqrt(1 + x^2)))
		t := new(big.Float).SetPrec(wp).Mul(x, x)
		t.Add(t, one)
		t.Sqrt(t)
		t.Add(t, one)
		x.Quo(x, t)
		halvings++
	}
	sum := new(big.Float).SetPrec(wp).Set(x)
	pow := new(big.Float).SetPrec(wp).Set(x)
	x2 := new(big.Float).SetPrec(wp).Mul(x, x)
	thr := new(big.Float).SetMantExp(big.NewFloat(1), -int(wp)-4)
	term := new(big.Float).SetPrec(wp)
	k := new(big.Float).SetPrec(wp)
	for i := int64(1); ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pow.Mul(pow, x2)
		pow.Neg(pow)
		k.SetInt64(2*i + 1)
		term.Quo(pow, k)
		sum.Add(sum, term)
		if new(big.Float).Abs(term).Cmp(thr) < 0 {
			break
		}
	}
	for ; halvings > 0; halvings-- {
		sum.Add(sum, sum)
	}
	return sum, nil
}

func fnAtan(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	one := new(big.Float).SetPrec(wp).SetInt64(1)
	if new(big.Float).Abs(x).Cmp(one) > 0 {
		// atan x = sign(x) pi/2 - atan(1/x)
		inv := new(big.Float).SetPrec(wp).Quo(one, x)
		t, err := atanSeries(ctx, inv, wp)
		if err != nil {
			return nil, err
		}
		half := bigfloat.Pi(new(big.Float).SetPrec(wp))
		half.Quo(half, new(big.Float).SetPrec(wp).SetInt64(2))
		if x.Signbit() {
			half.Neg(half)
		}
		return round(half.Sub(half, t), p), nil
	}
	r, err := atanSeries(ctx, x, wp)
	if err != nil {
		return nil, err
	}
	return round(r, p), nil
}

func fnAsin(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	one := new(big.Float).SetPrec(wp).SetInt64(1)
	switch new(big.Float).Abs(x).Cmp(one) {
	case 1:
		return nil, domain(x, name)
	case 0:
		half := bigfloat.Pi(new(big.Float).SetPrec(wp))
		half.Quo(half, new(big.Float).SetPrec(wp).SetInt64(2))
		if x.Signbit() {
			half.Neg(half)
		}
		return round(half, p), nil
	}
	// asin x = atan(x / sqrt(1 - x^2))
	t := new(big.Float).SetPrec(wp).Mul(x, x)
	t.Sub(one, t)
	t.Sqrt(t)
	t.Quo(new(big.Float).SetPrec(wp).Set(x), t)
	r, err := fnAtan(ctx, t, name)
	if err != nil {
		return nil, err
	}
	return round(r, p), nil
}

func fnAcos(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	s, err := fnAsin(ctx, x, name)
	if err != nil {
		return nil, err
	}
	half := bigfloat.Pi(new(big.Float).SetPrec(wp))
	half.Quo(half, new(big.Float).SetPrec(wp).SetInt64(2))
	return round(half.Sub(half, s), p), nil
}

func fnSinh(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	a := bigfloat.Exp(new(big.Float).SetPrec(wp), x)
	b := bigfloat.Exp(new(big.Float).SetPrec(wp), new(big.Float).SetPrec(wp).Neg(x))
	a.Sub(a, b)
	a.Quo(a, new(big.Float).SetPrec(wp).SetInt64(2))
	return round(a, p), nil
}

func fnCosh(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	a := bigfloat.Exp(new(big.Float).SetPrec(wp), x)
	b := bigfloat.Exp(new(big.Float).SetPrec(wp), new(big.Float).SetPrec(wp).Neg(x))
	a.Add(a, b)
	a.Quo(a, new(big.Float).SetPrec(wp).SetInt64(2))
	return round(a, p), nil
}

func fnTanh(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	s, err := fnSinh(ctx, x, name)
	if err != nil {
		return nil, err
	}
	c, err := fnCosh(ctx, x, name)
	if err != nil {
		return nil, err
	}
	r := new(big.Float).SetPrec(wp).Quo(s, c)
	return round(r, p), nil
}

func fnAsinh(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	// asinh x = ln(x + sqrt(x^2 + 1))
	t := new(big.Float).SetPrec(wp).Mul(x, x)
	t.Add(t, new(big.Float).SetPrec(wp).SetInt64(1))
	t.Sqrt(t)
	t.Add(t, x)
	r := bigfloat.Log(new(big.Float).SetPrec(wp), t)
	return round(r, p), nil
}

func fnAcosh(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	one := new(big.Float).SetPrec(wp).SetInt64(1)
	if x.Cmp(one) < 0 {
		return nil, domain(x, name)
	}
	// acosh x = ln(x + sqrt(x^2 - 1))
	t := new(big.Float).SetPrec(wp).Mul(x, x)
	t.Sub(t, one)
	t.Sqrt(t)
	t.Add(t, x)
	r := bigfloat.Log(new(big.Float).SetPrec(wp), t)
	return round(r, p), nil
}

func fnAtanh(ctx context.Context, x *big.Float, name string) (*big.Float, error) {
	p, wp := work(x)
	one := new(big.Float).SetPrec(wp).SetInt64(1)
	if new(big.Float).Abs(x).Cmp(one) >= 0 {
		return nil, domain(x, name)
	}
	// atanh x = ln((1+x)/(1-x)) / 2
	num := new(big.Float).SetPrec(wp).Add(one, x)
	den := new(big.Float).SetPrec(wp).Sub(one, x)
	num.Quo(num, den)
	r := bigfloat.Log(new(big.Float).SetPrec(wp), num)
	r.Quo(r, new(big.Float).SetPrec(wp).SetInt64(2))
	return round(r, p), nil
}
