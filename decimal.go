package calc

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultDivPrec is the number of fractional digits to which a context rounds
// quotients that do not terminate, unless set with DivPrec.
const DefaultDivPrec = 20

// isNumber reports whether s is a decimal number as accepted in formulas: one
// or more digits with at most one decimal point anywhere among them. Signs,
// exponents, and grouping separators are not part of numbers.
func isNumber(s string) bool {
	var dig, dot bool
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
			dig = true
		case c == '.':
			if dot {
				return false
			}
			dot = true
		default:
			return false
		}
	}
	return dig
}

// ParseNumber converts the text of a number token to a decimal. The error, if
// any, is a *LexError that unwraps to ErrInvalidToken. Its column is relative
// to text, so it is always 1.
func ParseNumber(text string) (decimal.Decimal, error) {
	if !isNumber(text) {
		return decimal.Decimal{}, &LexError{Text: text, Col: 1}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, &LexError{Text: text, Col: 1}
	}
	return d, nil
}

// Add returns a+b.
func (ctx *Context) Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

// Sub returns a-b.
func (ctx *Context) Sub(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b)
}

// Mul returns a*b.
func (ctx *Context) Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// Div returns a/b. The quotient is exact whenever it has a finite decimal
// expansion, however many digits that takes. Otherwise, it is rounded to
// ctx.DivPrec() fractional digits, with halves rounded away from zero. If b is
// zero, the error is ErrDivisionByZero.
func (ctx *Context) Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, ErrDivisionByZero
	}
	if q, ok := exactQuo(a, b); ok {
		return q, nil
	}
	return a.DivRound(b, ctx.divprec), nil
}

var bigFive = big.NewInt(5)

// exactQuo computes a/b when the quotient terminates, which is exactly when
// the reduced denominator has no prime factors other than 2 and 5. b must be
// nonzero.
func exactQuo(a, b decimal.Decimal) (decimal.Decimal, bool) {
	num, den := a.Coefficient(), b.Coefficient()
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	num.Quo(num, g)
	den.Quo(den, g)

	twos := den.TrailingZeroBits()
	den.Rsh(den, twos)
	var fives uint
	var q, r big.Int
	for {
		q.QuoRem(den, bigFive, &r)
		if r.Sign() != 0 {
			break
		}
		den.Set(&q)
		fives++
	}
	if !den.IsInt64() || den.Int64() != 1 {
		return decimal.Decimal{}, false
	}

	// num / (2^twos * 5^fives) = num * 2^(k-twos) * 5^(k-fives) / 10^k
	k := max(twos, fives)
	num.Lsh(num, k-twos)
	num.Mul(num, new(big.Int).Exp(bigFive, big.NewInt(int64(k-fives)), nil))
	exp := int64(a.Exponent()) - int64(b.Exponent()) - int64(k)
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromBigInt(num, int32(exp)), true
}

// Canonical formats a decimal the way Evaluate does: no exponent, a point as
// the decimal separator, no trailing fractional zeros, and "0" for zero.
func Canonical(d decimal.Decimal) string {
	return d.String()
}
