// Package calc implements an exact decimal calculator.
//
// Formulas are written with decimal numbers, the four operators + - * /, and
// parentheses: "(1+2)*3", "10/4", "1.5*(2-0.25)". Results are computed with
// arbitrary-precision decimals, so "0.1+0.2" is exactly 0.3. Only division can
// round, and only when the quotient has no finite decimal expansion, like 1/3.
// Such quotients keep the context's fractional digit cap (20 digits unless set
// with DivPrec). Quotients that terminate, like 1/1024, are always exact.
//
// There are no unary operators: "-5+3" and "3*-2" are rejected rather than
// guessed at. Whitespace between tokens is ignored.
//
// Every error from evaluating a formula unwraps to one of
// ErrUnbalancedParentheses, ErrInvalidToken, or ErrDivisionByZero, and carries
// the column at which the problem was found. See InputError and KindOf.
package calc
