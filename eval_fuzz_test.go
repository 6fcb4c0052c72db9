package unitcalc_test

import (
	"context"
	"testing"
	"time"

	"github.com/zephyrtronium/unitcalc"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("2 km as m")
	f.Add("1×2")
	f.Add("255 as hex")
	f.Add("sin pi")
	f.Fuzz(func(t *testing.T, s string) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		unitcalc.EvalString(ctx, s, unitcalc.DefaultScope(64), unitcalc.Options{Prec: 64})
	})
}
