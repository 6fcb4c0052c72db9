package unitcalc

import (
	"errors"
	"strconv"
)

// NameError is an error from a lookup for an identifier that is neither a
// builtin nor bound in the evaluation scope.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "unknown identifier " + strconv.Quote(err.Name)
}

// TypeError is an error from using a value where a different kind of value
// is required, e.g. a formatting style as an operand of addition.
type TypeError struct {
	// Want names the required kind, e.g. "a number".
	Want string
	// Got describes the value that was found.
	Got string
}

func (err *TypeError) Error() string {
	return "expected " + err.Want + ", found " + err.Got
}

// DomainError is an error from a numeric operation applied to an argument
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument, already rendered.
	X string
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	return err.X + " outside domain of " + err.Func
}

// UnitError is an error from combining or converting between quantities of
// incompatible dimensions.
type UnitError struct {
	// From and To are the rendered units of the two quantities.
	From, To string
	// Op is the operation that required compatible units.
	Op string
}

func (err *UnitError) Error() string {
	from, to := err.From, err.To
	if from == "" {
		from = "(dimensionless)"
	}
	if to == "" {
		to = "(dimensionless)"
	}
	return "incompatible units for " + err.Op + ": " + from + " and " + to
}

// BaseError is an error from constructing an unrepresentable numeric base.
type BaseError struct {
	// Base is the requested base.
	Base int
}

func (err *BaseError) Error() string {
	return "invalid base " + strconv.Itoa(err.Base) + ": must be between 2 and 36"
}

// ErrDivisionByZero is the error returned by division operations with a zero
// divisor.
var ErrDivisionByZero = errors.New("division by zero")
