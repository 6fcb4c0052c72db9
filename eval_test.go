package unitcalc_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/zephyrtronium/unitcalc"
)

// close enough for values that round-tripped through float64.
func closeTo(got, want float64) bool {
	if want == 0 {
		return math.Abs(got) < 1e-15
	}
	return math.Abs(got-want) <= 1e-14*math.Abs(want)
}

func evalFloat(t *testing.T, src string) float64 {
	t.Helper()
	v, err := unitcalc.EvalString(context.Background(), src, unitcalc.DefaultScope(0), unitcalc.Options{})
	if err != nil {
		t.Fatalf("%q failed to evaluate: %v", src, err)
	}
	n, ok := v.Num()
	if !ok {
		t.Fatalf("%q gave non-numeric result %v", src, v)
	}
	f, ok := n.Float64()
	if !ok {
		t.Fatalf("%q gave non-real or dimensioned result %v", src, v)
	}
	return f
}

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"decimal", "1.5", 1.5},
		{"exponent", "2e3", 2000},
		{"exponent-neg", "5e-1", 0.5},
		{"hex", "0xff", 255},
		{"octal", "0o17", 15},
		{"binary", "0b101", 5},
		{"neg", "-4", -4},
		{"plus", "+4", 4},
		{"recip", "/2", 0.5},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "4/5", 0.8},
		{"pow", "4^3^2", 262144},
		{"pow-neg", "2^-2", 0.25},
		{"neg-pow", "-2^2", -4},
		{"fact", "5!", 120},
		{"fact-fact", "3!!", 720},
		{"mul-sign", "3×4", 12},
		{"div-sign", "8÷2", 4},
		{"precedence", "2+3*4", 14},
		{"parens", "(2+3)*4", 20},
		{"pi", "pi", math.Pi},
		{"e", "e", math.E},
		{"two-e", "2e", 2 * math.E},
		{"implicit-mul", "2 pi", 2 * math.Pi},
		{"adjacent-parens", "2(3+4)", 14},
		{"apply", "sqrt 4", 2},
		{"apply-call", "sqrt(4)", 2},
		{"apply-nested", "sqrt sqrt 16", 2},
		{"apply-nested-deep", "sqrt sqrt sqrt 256", 2},
		{"apply-chain-num", "2 sqrt 4", 4},
		{"apply-chain-inverse", "ln exp 1", 1},
		{"approx", "approximately 3", 3},
		{"approx-dot", "approx. 3", 3},
		{"i-squared", "i*i", -1},
		{"i-pow", "i^4", 1},
		{"as-format", "2.5 as exact", 2.5},
		{"as-chain", "255 as hex as decimal", 255},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := evalFloat(t, c.src)
			if !closeTo(r, c.r) {
				t.Errorf("%q gave wrong result: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

func TestEvalString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    string
	}{
		{"int", "2^10", "1024"},
		{"decimal", "1.5", "1.5"},
		{"quarter", "0.5+0.25", "0.75"},
		{"hex-literal", "0xff", "0xff"},
		{"as-hex", "255 as hex", "0xff"},
		{"as-base", "255 as base 16", "0xff"},
		{"as-binary", "10 as binary", "0b1010"},
		{"as-octal", "8 as octal", "0o10"},
		{"as-decimal", "0xff as decimal", "255"},
		{"as-fraction", "2.5 as fraction", "5/2"},
		{"as-fraction-unit", "0.25 as fraction", "1/4"},
		{"as-exact", "100 as exact", "100"},
		{"inexact-div", "1/3", "approx. 0.33333333333333333333"},
		{"dp", "1/3 as dp", "0.3333333333"},
		{"approx", "approximately 3", "approx. 3"},
		{"unit", "2 km", "2 km"},
		{"unit-convert", "2 km as m", "2000 m"},
		{"unit-add", "2 km + 500 m", "2.5 km"},
		{"unit-time", "1 min + 30 s", "1.5 min"},
		{"unit-data", "2048 KiB as MiB", "2 MiB"},
		{"unit-mul", "2 m * 3 m", "6 m^2"},
		{"unit-div", "10 m / 2 s", "5 m/s"},
		{"i", "i", "i"},
		{"two-i", "2*i", "2i"},
		{"complex", "1+2*i", "1 + 2i"},
		{"complex-neg", "1-i", "1 - i"},
	}
	scope := unitcalc.DefaultScope(0)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := unitcalc.EvalString(context.Background(), c.src, scope, unitcalc.Options{})
			if err != nil {
				t.Fatalf("%q failed to evaluate: %v", c.src, err)
			}
			if got := v.String(); got != c.r {
				t.Errorf("%q rendered wrong: want %q, got %q", c.src, c.r, got)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"div-zero", "1/0", unitcalc.ErrDivisionByZero},
		{"pow-zero-neg", "0^-1", unitcalc.ErrDivisionByZero},
		{"recip-zero", "/0", unitcalc.ErrDivisionByZero},
		{"as-func-target", "1 as ln", unitcalc.ErrConvertFunction},
		{"as-func-source", "ln as 1", unitcalc.ErrConvertFunction},
	}
	scope := unitcalc.DefaultScope(0)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := unitcalc.EvalString(context.Background(), c.src, scope, unitcalc.Options{})
			if !errors.Is(err, c.want) {
				t.Errorf("%q gave wrong error: want %v, got %v", c.src, c.want, err)
			}
		})
	}
}

func TestEvalTypedErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		as   func(error) bool
	}{
		{"unknown-name", "nosuch", func(err error) bool {
			var e *unitcalc.NameError
			return errors.As(err, &e) && e.Name == "nosuch"
		}},
		{"add-func", "sqrt + 1", func(err error) bool {
			var e *unitcalc.TypeError
			return errors.As(err, &e)
		}},
		{"forced-mul-func", "2 sqrt", func(err error) bool {
			var e *unitcalc.TypeError
			return errors.As(err, &e)
		}},
		{"call-non-func", "x(4)", func(err error) bool {
			var e *unitcalc.TypeError
			return errors.As(err, &e)
		}},
		{"paren-func", "(sqrt)", func(err error) bool {
			var e *unitcalc.TypeError
			return errors.As(err, &e)
		}},
		{"sqrt-neg", "sqrt(-1)", func(err error) bool {
			var e *unitcalc.DomainError
			return errors.As(err, &e)
		}},
		{"asin-range", "asin 2", func(err error) bool {
			var e *unitcalc.DomainError
			return errors.As(err, &e)
		}},
		{"fact-neg", "(-1)!", func(err error) bool {
			var e *unitcalc.DomainError
			return errors.As(err, &e)
		}},
		{"fact-frac", "1.5!", func(err error) bool {
			var e *unitcalc.DomainError
			return errors.As(err, &e)
		}},
		{"base-frac", "1.5 as hex", func(err error) bool {
			var e *unitcalc.DomainError
			return errors.As(err, &e)
		}},
		{"base-range", "1 as base 1", func(err error) bool {
			var e *unitcalc.BaseError
			return errors.As(err, &e)
		}},
		{"unit-add", "1 km + 1 s", func(err error) bool {
			var e *unitcalc.UnitError
			return errors.As(err, &e)
		}},
		{"unit-convert", "1 km as s", func(err error) bool {
			var e *unitcalc.UnitError
			return errors.As(err, &e)
		}},
		{"unit-scaled-target", "1 km as 2 m", func(err error) bool {
			var e *unitcalc.DomainError
			return errors.As(err, &e)
		}},
	}
	scope := unitcalc.DefaultScope(0)
	scope.Set("x", mustEval(context.Background(), "3", scope))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := unitcalc.EvalString(context.Background(), c.src, scope, unitcalc.Options{})
			if err == nil {
				t.Fatalf("%q evaluated without error", c.src)
			}
			if !c.as(err) {
				t.Errorf("%q gave wrong error: %v", c.src, err)
			}
		})
	}
}

func mustEval(ctx context.Context, src string, scope *unitcalc.Scope) unitcalc.Value {
	v, err := unitcalc.EvalString(ctx, src, scope, unitcalc.Options{})
	if err != nil {
		panic(err)
	}
	return v
}

func TestEvalCompat(t *testing.T) {
	opts := unitcalc.Options{Compat: true}
	scope := unitcalc.DefaultScope(0)
	ok := []struct {
		src string
		r   float64
	}{
		{"sqrt 4", 2},
		{"exp 0", 1},
		{"ln 1", 0},
		{"log2 8", 3},
		{"log10 1000", 3},
		{"tan 0", 0},
		{"asin 0", 0},
		{"approx. 2", 2},
		{"approximately 2", 2},
	}
	for _, c := range ok {
		v, err := unitcalc.EvalString(context.Background(), c.src, scope, opts)
		if err != nil {
			t.Errorf("%q failed to evaluate: %v", c.src, err)
			continue
		}
		n, _ := v.Num()
		if f, _ := n.Float64(); !closeTo(f, c.r) {
			t.Errorf("%q gave wrong result: want %g, got %g", c.src, c.r, f)
		}
	}
	// Everything outside the reduced table defers to the scope.
	missing := []string{"pi", "e + 1", "sin 1", "2 as fraction", "1 as hex"}
	for _, src := range missing {
		_, err := unitcalc.EvalString(context.Background(), src, scope, opts)
		var e *unitcalc.NameError
		if !errors.As(err, &e) {
			t.Errorf("%q gave wrong error: %v", src, err)
		}
	}
	// Units come from the scope, so they survive the mode switch.
	v, err := unitcalc.EvalString(context.Background(), "2 km as m", scope, opts)
	if err != nil {
		t.Fatal("unit conversion failed in compat mode:", err)
	}
	if got := v.String(); got != "2000 m" {
		t.Errorf("unit conversion rendered wrong: want %q, got %q", "2000 m", got)
	}
}

func TestEvalCancel(t *testing.T) {
	scope := unitcalc.DefaultScope(0)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	srcs := []string{"1", "1+1", "pi", "sqrt 2", "1000!", "2^100"}
	for _, src := range srcs {
		_, err := unitcalc.EvalString(canceled, src, scope, unitcalc.Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%q with canceled context gave wrong error: %v", src, err)
		}
	}
	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := unitcalc.EvalString(expired, "1+1", scope, unitcalc.Options{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expired context gave wrong error: %v", err)
	}
}

func TestEvalPrec(t *testing.T) {
	// More precision means more correct digits of an irrational result.
	lo, err := unitcalc.EvalString(context.Background(), "sqrt 2", unitcalc.DefaultScope(64), unitcalc.Options{Prec: 64})
	if err != nil {
		t.Fatal(err)
	}
	hi, err := unitcalc.EvalString(context.Background(), "sqrt 2", unitcalc.DefaultScope(0), unitcalc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ln, _ := lo.Num()
	hn, _ := hi.Num()
	lf, _ := ln.Float64()
	hf, _ := hn.Float64()
	if !closeTo(lf, math.Sqrt2) || !closeTo(hf, math.Sqrt2) {
		t.Errorf("wrong sqrt 2: %g and %g", lf, hf)
	}
}
