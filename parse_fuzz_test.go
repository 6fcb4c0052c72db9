package unitcalc_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/unitcalc"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("2 km as m")
	f.Add("1×2")
	f.Add("sqrt(4)!")
	f.Add("0xff as binary")
	f.Fuzz(func(t *testing.T, s string) {
		unitcalc.Parse(strings.NewReader(s))
	})
}
