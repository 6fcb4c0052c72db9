package unitcalc

import (
	"context"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Number is an arbitrary-precision, unit-aware number. The imaginary part is
// usually nil; it is set only for values constructed from the imaginary unit.
// A Number also carries presentation state: the formatting style and base it
// should be rendered in, and whether it is known to be approximate.
type Number struct {
	re     *big.Float
	im     *big.Float
	units  []unitPow
	style  FormattingStyle
	base   Base
	approx bool
}

// numberFromInt constructs an exact dimensionless integer.
func numberFromInt(v int64, prec uint) Number {
	if prec == 0 {
		prec = DefaultPrec
	}
	return Number{re: new(big.Float).SetPrec(prec).SetInt64(v)}
}

// numberFromString constructs a number from literal text. base 10 text may
// contain a decimal point and exponent; other bases are integral digit
// strings, and the number remembers the base it was written in.
func numberFromString(text string, base int, prec uint) (Number, error) {
	if prec == 0 {
		prec = DefaultPrec
	}
	if base == 10 {
		f, _, err := new(big.Float).SetPrec(prec).Parse(text, 10)
		if err != nil {
			return Number{}, err
		}
		return Number{re: f}, nil
	}
	i, ok := new(big.Int).SetString(text, base)
	if !ok {
		return Number{}, &LexError{Text: text, Kind: "number"}
	}
	b, err := BaseFromPlain(base)
	if err != nil {
		return Number{}, err
	}
	f := new(big.Float).SetPrec(prec).SetInt(i)
	return Number{re: f, base: b}, nil
}

// imaginaryUnit constructs i.
func imaginaryUnit(prec uint) Number {
	if prec == 0 {
		prec = DefaultPrec
	}
	return Number{
		re: new(big.Float).SetPrec(prec),
		im: new(big.Float).SetPrec(prec).SetInt64(1),
	}
}

func (n Number) prec() uint {
	return n.re.Prec()
}

func maxPrec(a, b Number) uint {
	p := a.prec()
	if q := b.prec(); q > p {
		p = q
	}
	return p
}

func (n Number) isReal() bool {
	return n.im == nil || n.im.Sign() == 0
}

func (n Number) isZero() bool {
	return n.re.Sign() == 0 && n.isReal()
}

// isInt reports whether n is a real, integral value.
func (n Number) isInt() bool {
	return n.isReal() && n.re.IsInt()
}

// imag returns the imaginary part, substituting zero when absent.
func (n Number) imag() *big.Float {
	if n.im != nil {
		return n.im
	}
	return new(big.Float).SetPrec(n.prec())
}

// normIm drops a zero imaginary part.
func (n Number) normIm() Number {
	if n.im != nil && n.im.Sign() == 0 {
		n.im = nil
	}
	return n
}

// Float64 returns the value as a float64 and reports whether the number is
// real and dimensionless, the only case in which a float64 is faithful.
func (n Number) Float64() (float64, bool) {
	if !n.isReal() || len(n.units) != 0 {
		return 0, false
	}
	f, _ := n.re.Float64()
	return f, true
}

func (n Number) neg() Number {
	n.re = new(big.Float).Neg(n.re)
	if n.im != nil {
		n.im = new(big.Float).Neg(n.im)
	}
	return n
}

// sameUnits reports whether two numbers use the same unit list, not merely
// the same dimensions.
func sameUnits(a, b []unitPow) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// inUnitsOf rescales r into l's units. The dimensions must already match.
func (n Number) inUnitsOf(l Number) Number {
	if sameUnits(n.units, l.units) {
		return n
	}
	wp := maxPrec(l, n)
	f := new(big.Float).SetPrec(wp).Quo(factorOf(n.units, wp), factorOf(l.units, wp))
	n.re = new(big.Float).SetPrec(wp).Mul(n.re, f)
	if n.im != nil {
		n.im = new(big.Float).SetPrec(wp).Mul(n.im, f)
	}
	n.units = l.units
	return n
}

func (n Number) add(r Number) (Number, error) {
	if !sameDims(n.units, r.units) {
		return Number{}, &UnitError{From: renderUnits(n.units), To: renderUnits(r.units), Op: "addition"}
	}
	r = r.inUnitsOf(n)
	wp := maxPrec(n, r)
	s := n
	s.re = new(big.Float).SetPrec(wp).Add(n.re, r.re)
	if n.im != nil || r.im != nil {
		s.im = new(big.Float).SetPrec(wp).Add(n.imag(), r.imag())
	}
	s.approx = n.approx || r.approx
	return s.normIm(), nil
}

func (n Number) sub(r Number) (Number, error) {
	return n.add(r.neg())
}

func (n Number) mul(r Number) (Number, error) {
	wp := maxPrec(n, r)
	s := n
	if n.isReal() && r.isReal() {
		s.im = nil
		s.re = new(big.Float).SetPrec(wp).Mul(n.re, r.re)
	} else {
		a, b, c, d := n.re, n.imag(), r.re, r.imag()
		ac := new(big.Float).SetPrec(wp).Mul(a, c)
		bd := new(big.Float).SetPrec(wp).Mul(b, d)
		ad := new(big.Float).SetPrec(wp).Mul(a, d)
		bc := new(big.Float).SetPrec(wp).Mul(b, c)
		s.re = ac.Sub(ac, bd)
		s.im = ad.Add(ad, bc)
	}
	s.units = mulUnits(n.units, r.units)
	s.approx = n.approx || r.approx
	return s.normIm(), nil
}

func (n Number) div(r Number) (Number, error) {
	if r.isZero() {
		return Number{}, ErrDivisionByZero
	}
	wp := maxPrec(n, r)
	s := n
	if n.isReal() && r.isReal() {
		s.im = nil
		s.re = new(big.Float).SetPrec(wp).Quo(n.re, r.re)
		s.approx = n.approx || r.approx || s.re.Acc() != big.Exact
	} else {
		// (a+bi)/(c+di) = ((ac+bd) + (bc-ad)i) / (c^2+d^2)
		a, b, c, d := n.re, n.imag(), r.re, r.imag()
		norm := new(big.Float).SetPrec(wp).Mul(c, c)
		dd := new(big.Float).SetPrec(wp).Mul(d, d)
		norm.Add(norm, dd)
		ac := new(big.Float).SetPrec(wp).Mul(a, c)
		bd := new(big.Float).SetPrec(wp).Mul(b, d)
		bc := new(big.Float).SetPrec(wp).Mul(b, c)
		ad := new(big.Float).SetPrec(wp).Mul(a, d)
		s.re = ac.Add(ac, bd)
		s.re.Quo(s.re, norm)
		s.im = bc.Sub(bc, ad)
		s.im.Quo(s.im, norm)
		s.approx = true
	}
	s.units = mulUnits(n.units, negUnits(r.units))
	return s.normIm(), nil
}

// pollEvery is how many loop iterations the iterative numeric operations run
// between cancellation checks.
const pollEvery = 64

func (n Number) pow(ctx context.Context, r Number) (Number, error) {
	if !r.isReal() || len(r.units) != 0 {
		return Number{}, &DomainError{X: r.String(), Func: "^"}
	}
	if r.isInt() {
		if e, acc := r.re.Int64(); acc == big.Exact {
			return n.powInt(ctx, e)
		}
	}
	if !n.isReal() || len(n.units) != 0 || n.re.Signbit() {
		return Number{}, &DomainError{X: n.String(), Func: "^"}
	}
	wp := maxPrec(n, r)
	s := n
	s.re = bigfloat.Pow(new(big.Float).SetPrec(wp), n.re, r.re)
	s.approx = true
	return s, nil
}

// powInt raises n to an integer power by repeated squaring.
func (n Number) powInt(ctx context.Context, e int64) (Number, error) {
	if e < 0 {
		if n.isZero() {
			return Number{}, ErrDivisionByZero
		}
		one := numberFromInt(1, n.prec())
		inv, err := one.div(n)
		if err != nil {
			return Number{}, err
		}
		return inv.powInt(ctx, -e)
	}
	units := n.units
	k := e
	n.units = nil
	acc := numberFromInt(1, n.prec())
	acc.approx = n.approx
	for e > 0 {
		if err := ctx.Err(); err != nil {
			return Number{}, err
		}
		if e&1 == 1 {
			var err error
			acc, err = acc.mul(n)
			if err != nil {
				return Number{}, err
			}
		}
		e >>= 1
		if e > 0 {
			var err error
			n, err = n.mul(n)
			if err != nil {
				return Number{}, err
			}
		}
	}
	acc.units = powUnits(units, int(k))
	return acc, nil
}

func (n Number) factorial(ctx context.Context) (Number, error) {
	if !n.isInt() || len(n.units) != 0 || n.re.Signbit() {
		return Number{}, &DomainError{X: n.String(), Func: "!"}
	}
	k, acc := n.re.Int64()
	if acc != big.Exact {
		return Number{}, &DomainError{X: n.String(), Func: "!"}
	}
	r := big.NewInt(1)
	f := new(big.Int)
	for i := int64(2); i <= k; i++ {
		if i%pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Number{}, err
			}
		}
		r.Mul(r, f.SetInt64(i))
	}
	s := n
	s.re = new(big.Float).SetPrec(n.prec()).SetInt(r)
	s.approx = n.approx || s.re.Acc() != big.Exact
	return s, nil
}

// convertTo re-expresses n in the units of target, which must be the unit
// value 1 of a compatible dimension.
func (n Number) convertTo(target Number) (Number, error) {
	if !sameDims(n.units, target.units) {
		return Number{}, &UnitError{From: renderUnits(n.units), To: renderUnits(target.units), Op: "unit conversion"}
	}
	if !target.isReal() || target.re.Cmp(new(big.Float).SetInt64(1)) != 0 {
		return Number{}, &DomainError{X: target.String(), Func: "unit conversion"}
	}
	return n.inUnitsOf(target), nil
}

func (n Number) withFormat(s FormattingStyle) Number {
	n.style = s
	return n
}

func (n Number) withBase(b Base) (Number, error) {
	if b.N() != 10 && !n.isInt() {
		return Number{}, &DomainError{X: n.String(), Func: b.String()}
	}
	n.base = b
	return n, nil
}

// markApprox flags the number as approximate, as the "approximately" builtin
// does.
func (n Number) markApprox() Number {
	n.approx = true
	return n
}

// approxDigits is the significant-digit count used to render approximate
// values under the auto style.
const approxDigits = 20

func (n Number) String() string {
	var b strings.Builder
	if n.approx && n.style.kind != styleApprox {
		b.WriteString("approx. ")
	}
	if !n.isReal() {
		n.complexString(&b)
	} else {
		n.realString(&b, n.re)
	}
	if u := renderUnits(n.units); u != "" {
		b.WriteByte(' ')
		b.WriteString(u)
	}
	return b.String()
}

func (n Number) complexString(b *strings.Builder) {
	im := n.imag()
	if n.re.Sign() != 0 {
		n.realString(b, n.re)
		if im.Signbit() {
			b.WriteString(" - ")
			im = new(big.Float).Neg(im)
		} else {
			b.WriteString(" + ")
		}
	} else if im.Signbit() {
		b.WriteByte('-')
		im = new(big.Float).Neg(im)
	}
	one := new(big.Float).SetInt64(1)
	if im.Cmp(one) != 0 {
		n.realString(b, im)
	}
	b.WriteByte('i')
}

func (n Number) realString(b *strings.Builder, f *big.Float) {
	if n.base.N() != 10 {
		// withBase and literal scanning guarantee integral values here.
		i, _ := f.Int(nil)
		if i.Sign() < 0 {
			b.WriteByte('-')
			i.Neg(i)
		}
		b.WriteString(n.base.prefix())
		b.WriteString(i.Text(n.base.N()))
		return
	}
	switch n.style.kind {
	case styleAuto:
		switch {
		case n.approx:
			b.WriteString(trimFloat(f.Text('g', approxDigits)))
		case f.IsInt():
			i, _ := f.Int(nil)
			b.WriteString(i.Text(10))
		default:
			n.exactString(b, f, true)
		}
	case styleExact:
		n.exactString(b, f, true)
	case styleFraction:
		fractionString(b, f)
	case styleFloat:
		n.exactString(b, f, false)
	case styleApprox:
		b.WriteString(trimFloat(f.Text('g', n.style.digits)))
	}
}

// exactString writes an exact decimal expansion where one exists. Otherwise
// it falls back to a fraction, or to an approximate expansion when the
// fraction fallback is disallowed.
func (n Number) exactString(b *strings.Builder, f *big.Float, fracFallback bool) {
	rat := new(big.Rat)
	f.Rat(rat)
	if s, ok := decimalExact(rat); ok {
		b.WriteString(s)
		return
	}
	if fracFallback {
		fractionString(b, f)
		return
	}
	b.WriteString(trimFloat(f.Text('g', approxDigits)))
}

func fractionString(b *strings.Builder, f *big.Float) {
	rat := new(big.Rat)
	f.Rat(rat)
	b.WriteString(rat.Num().Text(10))
	if rat.Denom().Cmp(big.NewInt(1)) != 0 {
		b.WriteByte('/')
		b.WriteString(rat.Denom().Text(10))
	}
}

// decimalExact renders a rational as a finite decimal, reporting failure for
// rationals with an infinite expansion.
func decimalExact(r *big.Rat) (string, bool) {
	den := new(big.Int).Set(r.Denom())
	two, five, rem := big.NewInt(2), big.NewInt(5), new(big.Int)
	digits := 0
	for {
		q, m := new(big.Int).QuoRem(den, two, rem)
		if m.Sign() != 0 {
			break
		}
		den, digits = q, digits+1
	}
	fives := 0
	for {
		q, m := new(big.Int).QuoRem(den, five, rem)
		if m.Sign() != 0 {
			break
		}
		den, fives = q, fives+1
	}
	if fives > digits {
		digits = fives
	}
	if den.Cmp(big.NewInt(1)) != 0 {
		return "", false
	}
	s := r.FloatString(digits)
	if digits > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s, true
}

// trimFloat tidies big.Float 'g' output.
func trimFloat(s string) string {
	if !strings.ContainsAny(s, ".e") {
		return s
	}
	if strings.ContainsRune(s, 'e') {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
