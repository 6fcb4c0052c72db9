package unitcalc

import (
	"math/big"
	"strconv"
	"strings"
)

// unitPow is one named unit raised to a power, e.g. s^-2 in "m/s^2".
type unitPow struct {
	name string
	exp  int
}

// unitDef ties a unit name to its scale relative to the base unit of its
// dimension and its exponents over the base dimensions.
type unitDef struct {
	scale string
	dims  map[string]int
}

// unitTable is the builtin unit definitions. The table contents are
// configuration data; extending it is a matter of adding rows.
var unitTable = map[string]unitDef{
	// length, base m
	"m":  {"1", map[string]int{"m": 1}},
	"km": {"1000", map[string]int{"m": 1}},
	"cm": {"0.01", map[string]int{"m": 1}},
	"mm": {"0.001", map[string]int{"m": 1}},
	"in": {"0.0254", map[string]int{"m": 1}},
	"ft": {"0.3048", map[string]int{"m": 1}},
	"mi": {"1609.344", map[string]int{"m": 1}},

	// mass, base kg
	"kg": {"1", map[string]int{"kg": 1}},
	"g":  {"0.001", map[string]int{"kg": 1}},
	"mg": {"0.000001", map[string]int{"kg": 1}},
	"lb": {"0.45359237", map[string]int{"kg": 1}},
	"oz": {"0.028349523125", map[string]int{"kg": 1}},

	// time, base s
	"s":   {"1", map[string]int{"s": 1}},
	"ms":  {"0.001", map[string]int{"s": 1}},
	"min": {"60", map[string]int{"s": 1}},
	"hr":  {"3600", map[string]int{"s": 1}},
	"day": {"86400", map[string]int{"s": 1}},

	// data, base B
	"B":   {"1", map[string]int{"B": 1}},
	"KiB": {"1024", map[string]int{"B": 1}},
	"MiB": {"1048576", map[string]int{"B": 1}},
	"GiB": {"1073741824", map[string]int{"B": 1}},
}

// registerUnits binds every builtin unit into s as the dimensioned number 1.
func registerUnits(s *Scope, prec uint) {
	for name := range unitTable {
		n := numberFromInt(1, prec)
		n.units = []unitPow{{name: name, exp: 1}}
		s.Set(name, numValue(n))
	}
}

// dimsOf aggregates the base-dimension exponents of a unit list.
func dimsOf(us []unitPow) map[string]int {
	dims := make(map[string]int)
	for _, u := range us {
		for d, e := range unitTable[u.name].dims {
			dims[d] += e * u.exp
		}
	}
	for d, e := range dims {
		if e == 0 {
			delete(dims, d)
		}
	}
	return dims
}

// sameDims reports whether two unit lists measure the same thing.
func sameDims(a, b []unitPow) bool {
	da, db := dimsOf(a), dimsOf(b)
	if len(da) != len(db) {
		return false
	}
	for d, e := range da {
		if db[d] != e {
			return false
		}
	}
	return true
}

// factorOf computes the multiplier taking a value in units us to base units.
func factorOf(us []unitPow, prec uint) *big.Float {
	f := new(big.Float).SetPrec(prec).SetInt64(1)
	for _, u := range us {
		s, _, err := new(big.Float).SetPrec(prec).Parse(unitTable[u.name].scale, 10)
		if err != nil {
			panic("unitcalc: invalid unit scale for " + u.name + ": " + err.Error())
		}
		e := u.exp
		if e < 0 {
			s.Quo(new(big.Float).SetPrec(prec).SetInt64(1), s)
			e = -e
		}
		for i := 0; i < e; i++ {
			f.Mul(f, s)
		}
	}
	return f
}

// mulUnits merges unit lists for a multiplication. Negate the exponents of b
// first for a division.
func mulUnits(a, b []unitPow) []unitPow {
	r := make([]unitPow, 0, len(a)+len(b))
	for _, u := range a {
		r = append(r, u)
	}
	for _, u := range b {
		found := false
		for i := range r {
			if r[i].name == u.name {
				r[i].exp += u.exp
				found = true
				break
			}
		}
		if !found {
			r = append(r, u)
		}
	}
	c := r[:0]
	for _, u := range r {
		if u.exp != 0 {
			c = append(c, u)
		}
	}
	return c
}

// negUnits returns the unit list with every exponent negated.
func negUnits(us []unitPow) []unitPow {
	r := make([]unitPow, len(us))
	for i, u := range us {
		r[i] = unitPow{name: u.name, exp: -u.exp}
	}
	return r
}

// powUnits raises every unit in the list to an integer power.
func powUnits(us []unitPow, k int) []unitPow {
	if k == 0 {
		return nil
	}
	r := make([]unitPow, len(us))
	for i, u := range us {
		r[i] = unitPow{name: u.name, exp: u.exp * k}
	}
	return r
}

// renderUnits formats a unit list, e.g. "kg m/s^2". The result is empty for
// a dimensionless list.
func renderUnits(us []unitPow) string {
	var num, den []string
	for _, u := range us {
		switch {
		case u.exp == 1:
			num = append(num, u.name)
		case u.exp > 1:
			num = append(num, u.name+"^"+strconv.Itoa(u.exp))
		case u.exp == -1:
			den = append(den, u.name)
		default:
			den = append(den, u.name+"^"+strconv.Itoa(-u.exp))
		}
	}
	s := strings.Join(num, " ")
	if len(den) > 0 {
		if s == "" {
			s = "1"
		}
		s += "/" + strings.Join(den, " ")
	}
	return s
}
