package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical element of a formula.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Text is the token as written in the formula.
	Text string
	// Pos is the 1-based rune column where the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the type of a token.
type TokenKind int

const (
	tokenNone TokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// TokenNumber is a decimal number, e.g. 12, 0.5, .5, or 5.
	TokenNumber
	// TokenOperator is one of the runes in Operators.
	TokenOperator
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case TokenNumber:
		return "Number"
	case TokenOperator:
		return "Operator"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/"

// Open and Close are the runes which group subexpressions.
const (
	Open  = '('
	Close = ')'
)

// delims contains every rune that ends a number besides whitespace.
const delims = Operators + string(Open) + string(Close)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var operstrs = byteidcs(Operators)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    Token
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok Token) {
	if l.p.Kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() Token {
	tok := l.p
	if tok.Kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = Token{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	if l.p.Kind != tokenNone {
		tok := l.p
		l.p = Token{}
		return tok, nil
	}
	if l.eof {
		return Token{}, io.EOF
	}
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.Pos++
			continue
		case r == Open:
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == Close:
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.Text = operstrs[k]
				tok.Kind = TokenOperator
				return tok, nil
			}
			// Anything else starts a number. scanNum rejects it if it isn't
			// one.
			l.unreadRune()
			if err := l.scanNum(tok.Pos); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNumber
			return tok, nil
		}
	}
}

// scanNum reads a run of runes up to the next operator, parenthesis,
// whitespace, or EOF, and checks that the run is a number.
func (l *lexer) scanNum(pos int) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) || strings.ContainsRune(delims, r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
	}
	if !isNumber(l.buf.String()) {
		return &LexError{Text: l.buf.String(), Col: pos}
	}
	return nil
}

// Tokens splits a formula into tokens. Whitespace separates tokens and does
// not appear in the result. If the formula contains a run of characters that
// is not a number, operator, or parenthesis, Tokens returns the tokens before
// it along with a *LexError.
//
// Tokens does not check that the formula is well-formed; "1++)" tokenizes
// without error.
func Tokens(formula string) ([]Token, error) {
	scan := lex(strings.NewReader(formula))
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			return toks, err
		}
		if tok.Kind == tokenEOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// LexError indicates a run of characters that is not a valid number. It
// unwraps to ErrInvalidToken and implements InputError.
type LexError struct {
	// Text is the invalid run of characters.
	Text string
	// Col is the column at which the run starts.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrInvalidToken
}
