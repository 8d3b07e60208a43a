//go:build go1.18
// +build go1.18

package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("1")
	f.Add("(1+2)*3")
	f.Add("((1+(2*3))-4)")
	f.Add("1+")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := calc.Parse(s)
		if err != nil {
			if calc.KindOf(err) == calc.KindUnknown {
				t.Errorf("%q: error %v has no kind", s, err)
			}
			if _, ok := err.(calc.InputError); !ok {
				t.Errorf("%q: error %#v is not an InputError", s, err)
			}
			return
		}
		if a == nil {
			t.Errorf("%q: nil Expr with nil error", s)
		}
	})
}
