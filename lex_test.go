package calc

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []Token
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []Token{{Text: "0", Kind: TokenNumber, Pos: 1}}, 0},
		{"9876543210", []Token{{Text: "9876543210", Kind: TokenNumber, Pos: 1}}, 0},
		{"1 0", []Token{{Text: "1", Kind: TokenNumber, Pos: 1}, {Text: "0", Kind: TokenNumber, Pos: 3}}, 0},
		{"1.0", []Token{{Text: "1.0", Kind: TokenNumber, Pos: 1}}, 0},
		{".1", []Token{{Text: ".1", Kind: TokenNumber, Pos: 1}}, 0},
		{"1.", []Token{{Text: "1.", Kind: TokenNumber, Pos: 1}}, 0},
		{"-1", []Token{{Text: "-", Kind: TokenOperator, Pos: 1}, {Text: "1", Kind: TokenNumber, Pos: 2}}, 0},
		{"1+0", []Token{{Text: "1", Kind: TokenNumber, Pos: 1}, {Text: "+", Kind: TokenOperator, Pos: 2}, {Text: "0", Kind: TokenNumber, Pos: 3}}, 0},
		{"1*0", []Token{{Text: "1", Kind: TokenNumber, Pos: 1}, {Text: "*", Kind: TokenOperator, Pos: 2}, {Text: "0", Kind: TokenNumber, Pos: 3}}, 0},
		{"1/0", []Token{{Text: "1", Kind: TokenNumber, Pos: 1}, {Text: "/", Kind: TokenOperator, Pos: 2}, {Text: "0", Kind: TokenNumber, Pos: 3}}, 0},
		{"(1)", []Token{{Text: "(", Kind: TokenOpen, Pos: 1}, {Text: "1", Kind: TokenNumber, Pos: 2}, {Text: ")", Kind: TokenClose, Pos: 3}}, 0},
		{" 1 + 2 ", []Token{{Text: "1", Kind: TokenNumber, Pos: 2}, {Text: "+", Kind: TokenOperator, Pos: 4}, {Text: "2", Kind: TokenNumber, Pos: 6}}, 0},
		// operators
		{"+", []Token{{Text: "+", Kind: TokenOperator, Pos: 1}}, 0},
		{"++", []Token{{Text: "+", Kind: TokenOperator, Pos: 1}, {Text: "+", Kind: TokenOperator, Pos: 2}}, 0},
		// erroneous numbers
		{".", []Token{{Pos: 1}}, 1},
		{"1.1.1", []Token{{Pos: 1}}, 1},
		{"1e1", []Token{{Pos: 1}}, 1},
		{"1,000", []Token{{Pos: 1}}, 1},
		{"1a", []Token{{Pos: 1}}, 1},
		{"$", []Token{{Pos: 1}}, 1},
		{"2+x", []Token{{Text: "2", Kind: TokenNumber, Pos: 1}, {Text: "+", Kind: TokenOperator, Pos: 2}, {Pos: 3}}, 1},
		{"×", []Token{{Pos: 1}}, 1},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if err == io.EOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
			continue
		}
		if got, err := scan.next(); err != nil || got.Kind != tokenEOF {
			t.Errorf("scanning %q: extra token %v with error: %v", c.src, got, err)
		}
	}
}

func TestLexErrorPos(t *testing.T) {
	cases := []struct {
		src  string
		text string
		col  int
	}{
		{"1..2", "1..2", 1},
		{"1+ab", "ab", 3},
		{"(1) * 2_000", "2_000", 7},
		{"π", "π", 1},
		{"1+π2", "π2", 3},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := Tokens(c.src)
			var lerr *LexError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, c.text, lerr.Text)
			assert.Equal(t, c.col, lerr.Pos())
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestTokens(t *testing.T) {
	toks, err := Tokens("(12.5 - 3)/.5")
	require.NoError(t, err)
	want := []Token{
		{Kind: TokenOpen, Text: "(", Pos: 1},
		{Kind: TokenNumber, Text: "12.5", Pos: 2},
		{Kind: TokenOperator, Text: "-", Pos: 7},
		{Kind: TokenNumber, Text: "3", Pos: 9},
		{Kind: TokenClose, Text: ")", Pos: 10},
		{Kind: TokenOperator, Text: "/", Pos: 11},
		{Kind: TokenNumber, Text: ".5", Pos: 12},
	}
	assert.Equal(t, want, toks)

	// Malformed formulas still tokenize.
	toks, err = Tokens("1++)")
	require.NoError(t, err)
	assert.Len(t, toks, 4)

	// Tokens before a bad run are returned with the error.
	toks, err = Tokens("1+1e5")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, []Token{{Kind: TokenNumber, Text: "1", Pos: 1}, {Kind: TokenOperator, Text: "+", Pos: 2}}, toks)
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "Number", TokenNumber.String())
	assert.Equal(t, "Operator:+@3", Token{Kind: TokenOperator, Text: "+", Pos: 3}.String())
	assert.Equal(t, "TokenKind(99)", TokenKind(99).String())
}
