package expressions_test

import (
	"testing"
	"unicode/utf8"

	"github.com/zephyrtronium/answerkey/expressions"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("(-x)^0.5")
	f.Add("log(x, 1)")
	f.Add("2^1024.5")
	f.Add("0.5^100000.5")
	f.Add("1e-4000000000")
	ctx := expressions.NewContext(53).SetFloat64("x", 0)
	f.Fuzz(func(t *testing.T, s string) {
		a, err := expressions.Parse(s)
		if err != nil {
			return
		}
		r := ctx.Eval(a)
		if (r == nil) == (ctx.Err() == nil) {
			t.Errorf("%q: result %v with error %v", s, r, ctx.Err())
		}
		if r != nil && r.Prec() != 53 {
			t.Errorf("%q: result has precision %d", s, r.Prec())
		}
	})
}

func FuzzSubstitute(f *testing.F) {
	f.Add("x+y")
	f.Add("a*b^c")
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		r, err := expressions.Substitute(s, func(name string) (string, bool) { return name, true })
		if err == nil && r != s {
			t.Errorf("identity substitution changed %q to %q", s, r)
		}
	})
}
