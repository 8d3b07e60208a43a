package calc

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

// Error kinds. Every error from parsing or evaluating a formula unwraps to
// exactly one of these.
var (
	// ErrUnbalancedParentheses is the kind of error for a formula whose
	// parentheses do not pair up.
	ErrUnbalancedParentheses = errors.New("unbalanced parentheses")
	// ErrInvalidToken is the kind of error for a formula containing something
	// other than a well-formed number where a number is required, or two
	// operands with no operator between them.
	ErrInvalidToken = errors.New("invalid token")
	// ErrDivisionByZero is the kind of error for a division whose divisor is
	// exactly zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// BracketError is an error indicating a parenthesis with no partner. It
// unwraps to ErrUnbalancedParentheses and implements InputError.
type BracketError struct {
	// Col is the position of the unpaired parenthesis.
	Col int
	// Open is true if the unpaired parenthesis is an open parenthesis that is
	// never closed, and false if it is a close parenthesis with nothing to
	// close.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "open parenthesis with no close parenthesis")
	}
	return errpos(err.Col, "close parenthesis with no open parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Unwrap() error {
	return ErrUnbalancedParentheses
}

// TokenError is an error indicating that the parser found a token, or the end
// of the formula, where it needed a number or an operator. Empty operands, as
// in "1+", "+1", "1**2", or "()", and juxtaposed operands, as in "1 2" or
// "2(3)", produce TokenErrors. It unwraps to ErrInvalidToken and implements
// InputError.
type TokenError struct {
	// Col is the position of the unexpected token.
	Col int
	// Text is the unexpected token. It is the empty string if the formula
	// ended early.
	Text string
	// Want is what the parser expected instead, either "number" or
	// "operator".
	Want string
}

func (err *TokenError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, "expected "+err.Want+" at end of formula")
	}
	return errpos(err.Col, "expected "+err.Want+", got "+strconv.Quote(err.Text))
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Unwrap() error {
	return ErrInvalidToken
}

// DivisionError is an error indicating a division by zero. It unwraps to
// ErrDivisionByZero and implements InputError.
type DivisionError struct {
	// Col is the position of the division operator.
	Col int
	// Dividend is the value that was divided by zero.
	Dividend decimal.Decimal
}

func (err *DivisionError) Error() string {
	return errpos(err.Col, "division of "+err.Dividend.String()+" by zero")
}

func (err *DivisionError) Pos() int {
	return err.Col
}

func (err *DivisionError) Unwrap() error {
	return ErrDivisionByZero
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*DivisionError)(nil)
	_ InputError = (*LexError)(nil)
)

// Kind classifies an error by the sentinel it unwraps to.
type Kind int

const (
	// KindUnknown is the kind of nil and of errors that did not come from
	// this package.
	KindUnknown Kind = iota
	KindUnbalancedParentheses
	KindInvalidToken
	KindDivisionByZero
)

func (k Kind) String() string {
	switch k {
	case KindUnbalancedParentheses:
		return "UnbalancedParentheses"
	case KindInvalidToken:
		return "InvalidToken"
	case KindDivisionByZero:
		return "DivisionByZero"
	default:
		return "Unknown"
	}
}

// KindOf returns the kind of err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnbalancedParentheses):
		return KindUnbalancedParentheses
	case errors.Is(err, ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, ErrDivisionByZero):
		return KindDivisionByZero
	default:
		return KindUnknown
	}
}
