package calc

import (
	"strings"
)

// Formula = '-' num | Expr
// Expr = num | Add | Sub | Mul | Div | '(' Expr ')'
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr

// Expr is a parsed formula that can be evaluated with a context. An Expr is
// immutable and safe to evaluate concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses a formula so it can be evaluated with a context.
//
// Parentheses are checked before anything else, so a formula with unpaired
// parentheses always fails with an error that unwraps to
// ErrUnbalancedParentheses, even if it has other problems. Other errors unwrap
// to ErrInvalidToken.
//
// There are no unary operators. As the one exception, a formula that is only a
// negative number, like "-2.5", parses as that number, so that any result of
// Evaluate is itself a valid formula.
func Parse(formula string) (*Expr, error) {
	if err := checkBrackets(formula); err != nil {
		return nil, err
	}
	scan := lex(strings.NewReader(formula))
	n, err := parseliteral(scan)
	if err != nil {
		return nil, err
	}
	if n != nil {
		return &Expr{n: n}, nil
	}
	n, err = parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.Kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, 0)
	}
	return &Expr{n: n}, nil
}

// checkBrackets finds the first parenthesis with no partner, if any. When the
// numbers of open and close parentheses differ, there is always one.
func checkBrackets(formula string) error {
	var open []int
	col := 0
	for _, r := range formula {
		col++
		switch r {
		case Open:
			open = append(open, col)
		case Close:
			if len(open) == 0 {
				return &BracketError{Col: col, Open: false}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) != 0 {
		return &BracketError{Col: open[len(open)-1], Open: true}
	}
	return nil
}

// parseliteral parses a formula which is a negative number. If the formula does
// not start with an operator, then parseliteral pushes the first token and
// returns nil, nil.
func parseliteral(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokenOperator {
		scan.push(tok)
		return nil, nil
	}
	// Any other leading operator, or a minus followed by anything but a lone
	// number, is a missing operand.
	bad := &TokenError{Col: tok.Pos, Text: tok.Text, Want: "number"}
	if tok.Text != "-" {
		return nil, bad
	}
	num, err := scan.next()
	if err != nil {
		return nil, err
	}
	if num.Kind != TokenNumber {
		return nil, bad
	}
	end, err := scan.next()
	if err != nil {
		return nil, err
	}
	if end.Kind != tokenEOF {
		return nil, bad
	}
	v, err := ParseNumber(num.Text)
	if err != nil {
		return nil, &LexError{Text: num.Text, Col: num.Pos}
	}
	return &node{kind: nodeNum, num: v.Neg(), pos: tok.Pos}, nil
}

// parseterm parses a term whose operators all bind more tightly than until. If
// there is no error, then parseterm pushes the last token it scans, including
// EOF.
func parseterm(scan *lexer, until operator) (*node, error) {
	n, err := parselhs(scan)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TokenOperator:
			prec := binop(tok.Text)
			if prec.op == nodeNone {
				panic("calc: no operator for " + tok.String())
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, pos: tok.Pos, left: n, right: rhs}
		case TokenNumber, TokenOpen:
			// Two operands with nothing between them, e.g. 1 2 or 2(3).
			return nil, &TokenError{Col: tok.Pos, Text: tok.Text, Want: "operator"}
		case TokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first operand of a term: a number or a parenthesized
// subexpression.
func parselhs(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenNumber:
		v, err := ParseNumber(tok.Text)
		if err != nil {
			return nil, &LexError{Text: tok.Text, Col: tok.Pos}
		}
		return &node{kind: nodeNum, num: v, pos: tok.Pos}, nil
	case TokenOpen:
		rhs, err := parseterm(scan, exprprec)
		if err != nil {
			return nil, err
		}
		if end := scan.must(); end.Kind != TokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, tok.Pos)
		}
		return rhs, nil
	case TokenOperator, TokenClose, tokenEOF:
		// Operators are never unary, and () is an empty group.
		return nil, &TokenError{Col: tok.Pos, Text: tok.Text, Want: "number"}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the position of the open
// parenthesis the subexpression should have closed, or 0 if none.
func itShouldNotHaveEndedThisWay(tok Token, open int) error {
	switch tok.Kind {
	case tokenEOF:
		// Unexpected EOF implies an open parenthesis that was not closed.
		return &BracketError{Col: open, Open: true}
	case TokenClose:
		// A close parenthesis at the top level.
		return &BracketError{Col: tok.Pos, Open: false}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
