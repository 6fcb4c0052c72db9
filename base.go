package unitcalc

import "strconv"

// Base is a numeric radix for rendering a number. The zero Base is decimal.
type Base struct {
	n int8
}

// BaseFromPlain constructs a base from a plain integer. Bases outside 2
// through 36 are a BaseError.
func BaseFromPlain(n int) (Base, error) {
	if n < 2 || n > 36 {
		return Base{}, &BaseError{Base: n}
	}
	return Base{n: int8(n)}, nil
}

// N returns the radix, 10 for the zero Base.
func (b Base) N() int {
	if b.n == 0 {
		return 10
	}
	return int(b.n)
}

// prefix returns the conventional literal prefix for the base, if it has one.
func (b Base) prefix() string {
	switch b.n {
	case 2:
		return "0b"
	case 8:
		return "0o"
	case 16:
		return "0x"
	}
	return ""
}

func (b Base) String() string {
	return "base " + strconv.Itoa(b.N())
}
