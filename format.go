package unitcalc

import "strconv"

// FormattingStyle is a request for how a number should be rendered.
type FormattingStyle struct {
	kind   styleKind
	digits int
}

type styleKind int8

const (
	styleAuto styleKind = iota
	styleExact
	styleFraction
	styleFloat
	styleApprox
)

// Formatting styles resolvable by name in expressions.
var (
	// StyleAuto renders integers as integers and everything else as an
	// exact decimal where one exists, falling back to an approximation.
	StyleAuto = FormattingStyle{kind: styleAuto}
	// StyleExact renders an exact decimal expansion where one exists and a
	// fraction otherwise.
	StyleExact = FormattingStyle{kind: styleExact}
	// StyleFraction always renders a fraction.
	StyleFraction = FormattingStyle{kind: styleFraction}
	// StyleFloat always renders a decimal expansion.
	StyleFloat = FormattingStyle{kind: styleFloat}
)

// ApproxFloat renders an approximate decimal with the given number of
// significant digits. Conversion "as dp" uses ten.
func ApproxFloat(digits int) FormattingStyle {
	return FormattingStyle{kind: styleApprox, digits: digits}
}

func (s FormattingStyle) String() string {
	switch s.kind {
	case styleAuto:
		return "auto"
	case styleExact:
		return "exact"
	case styleFraction:
		return "fraction"
	case styleFloat:
		return "float"
	case styleApprox:
		return strconv.Itoa(s.digits) + " sf"
	}
	return "<invalid style>"
}
