package unitcalc_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/unitcalc"
)

func TestFuncs(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"sqrt", "sqrt 2", math.Sqrt2},
		{"sqrt-zero", "sqrt 0", 0},
		{"cbrt", "cbrt 27", 3},
		{"cbrt-neg", "cbrt(-8)", -2},
		{"exp", "exp 1", math.E},
		{"exp-neg", "exp(-1)", 1 / math.E},
		{"ln", "ln 10", math.Ln10},
		{"log2", "log2 8", 3},
		{"log10", "log10 1000", 3},
		{"sin", "sin 1", math.Sin(1)},
		{"sin-zero", "sin 0", 0},
		{"sin-pi", "sin pi", 0},
		{"sin-half-pi", "sin(pi/2)", 1},
		{"sin-large", "sin 100", math.Sin(100)},
		{"cos", "cos 1", math.Cos(1)},
		{"cos-zero", "cos 0", 1},
		{"cos-pi", "cos pi", -1},
		{"tan", "tan 1", math.Tan(1)},
		{"tan-neg", "tan(-0.5)", math.Tan(-0.5)},
		{"asin", "asin 0.5", math.Asin(0.5)},
		{"asin-one", "asin 1", math.Pi / 2},
		{"acos", "acos 0.5", math.Acos(0.5)},
		{"acos-one", "acos 1", 0},
		{"atan", "atan 1", math.Pi / 4},
		{"atan-large", "atan 100", math.Atan(100)},
		{"atan-neg", "atan(-2)", math.Atan(-2)},
		{"sinh", "sinh 1", math.Sinh(1)},
		{"cosh", "cosh 1", math.Cosh(1)},
		{"tanh", "tanh 1", math.Tanh(1)},
		{"asinh", "asinh 1", math.Asinh(1)},
		{"acosh", "acosh 2", math.Acosh(2)},
		{"atanh", "atanh 0.5", math.Atanh(0.5)},
		{"abs", "abs 3", 3},
		{"abs-neg", "abs(-3)", 3},
		{"abs-complex", "abs(3+4*i)", 5},
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

func TestFuncDomains(t *testing.T) {
	srcs := []string{
		"sqrt(-1)",
		"ln 0",
		"ln(-1)",
		"log2 0",
		"log10(-10)",
		"asin 2",
		"acos(-2)",
		"acosh 0.5",
		"atanh 1",
		"atanh(-2)",
		"sin(1 km)",
		"ln i",
	}
	scope := unitcalc.DefaultScope(0)
	for _, src := range srcs {
		_, err := unitcalc.EvalString(context.Background(), src, scope, unitcalc.Options{})
		var e *unitcalc.DomainError
		if !errors.As(err, &e) {
			t.Errorf("%q gave wrong error: %v", src, err)
		}
	}
}
