package calc

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Context is a context for evaluating expressions. A Context is immutable, so
// it is safe to use concurrently.
type Context struct {
	divprec int32
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type divprecopt int32

func (divprecopt) ctxOption() {}

// DivPrec sets the number of fractional digits to which quotients that do not
// terminate are rounded. Panics if digits is negative.
func DivPrec(digits int32) ContextOption {
	if digits < 0 {
		panic("calc: negative division precision " + strconv.Itoa(int(digits)))
	}
	return divprecopt(digits)
}

// NewContext creates a new evaluation context. If no division precision is
// given, the default is DefaultDivPrec.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{divprec: DefaultDivPrec}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Later options
// override earlier ones.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case divprecopt:
			n.divprec = int32(opt)
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// DivPrec returns the number of fractional digits to which ctx rounds
// quotients that do not terminate.
func (ctx *Context) DivPrec() int32 {
	return ctx.divprec
}

// Eval evaluates an expression and returns the result. The only error that
// can occur is a *DivisionError.
func (ctx *Context) Eval(e *Expr) (decimal.Decimal, error) {
	return e.n.eval(ctx)
}

// eval computes the node's value. Operands are evaluated left before right,
// so the first division by zero in the formula is the one reported.
func (n *node) eval(ctx *Context) (decimal.Decimal, error) {
	if n.kind == nodeNum {
		return n.num, nil
	}
	l, err := n.left.eval(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch n.kind {
	case nodeAdd:
		return ctx.Add(l, r), nil
	case nodeSub:
		return ctx.Sub(l, r), nil
	case nodeMul:
		return ctx.Mul(l, r), nil
	case nodeDiv:
		q, err := ctx.Div(l, r)
		if err != nil {
			return decimal.Decimal{}, &DivisionError{Col: n.pos, Dividend: l}
		}
		return q, nil
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// EvaluateDecimal is a shortcut to parse a formula and evaluate it in a new
// context created with opts.
func EvaluateDecimal(formula string, opts ...ContextOption) (decimal.Decimal, error) {
	a, err := Parse(formula)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return NewContext(opts...).Eval(a)
}

// Evaluate parses and evaluates a formula, returning the result in canonical
// form. On error, the result is the empty string and the error unwraps to one
// of ErrUnbalancedParentheses, ErrInvalidToken, or ErrDivisionByZero.
func Evaluate(formula string, opts ...ContextOption) (string, error) {
	r, err := EvaluateDecimal(formula, opts...)
	if err != nil {
		return "", err
	}
	return Canonical(r), nil
}
