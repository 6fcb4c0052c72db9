// Package unitcalc implements an arbitrary-precision, unit-aware calculator.
//
// Expressions are written roughly the way you'd write math in your notes:
// "2 x y" is a multiplication of three terms, "sqrt 9" calls a function, and
// "5 m as cm" converts between units. Evaluation is cooperative: every node
// visit polls the supplied context, so a long computation can be cancelled
// from outside.
//
// Results are not always numbers. Evaluating "hex" yields a base marker and
// "fraction" a formatting directive; both become useful as the right-hand
// side of an "as" conversion.
package unitcalc
