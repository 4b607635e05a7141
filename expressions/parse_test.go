package expressions

import (
	"math/big"
	"reflect"
	"regexp"
	"testing"
)

type mockfn struct {
	can []int
}

func mockFunc(n ...int) Func {
	return mockfn{can: n}
}

func (f mockfn) Call(ctx *Context, args []*big.Float, r *big.Float) error {
	return nil
}

func (f mockfn) CanCall(n int) bool {
	for _, v := range f.can {
		if v == n {
			return true
		}
	}
	return false
}

var testfns = map[string]Func{
	"zero":    mockFunc(0),
	"one":     mockFunc(1),
	"zeroone": mockFunc(0, 1),
	"two":     mockFunc(2),
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "1"},
		{"name", "x", "x"},
		{"paren", "(x)", "x"},
		{"nested", "(((x)))", "x"},

		{"plus", "+x", "x"},
		{"neg", "-x", "(-x)"},
		{"negneg", "--x", "(-(-x))"},
		{"add", "x+y", "(x + y)"},
		{"sub", "x-y", "(x - y)"},
		{"mul", "x*y", "(x * y)"},
		{"div", "x/y", "(x / y)"},
		{"pow", "x^y", "(x ^ y)"},
		{"starstar", "x**y", "(x ^ y)"},

		{"add4", "w+x+y+z", "(((w + x) + y) + z)"},
		{"sub4", "w-x-y-z", "(((w - x) - y) - z)"},
		{"mul4", "w*x*y*z", "(((w * x) * y) * z)"},
		{"div4", "w/x/y/z", "(((w / x) / y) / z)"},
		{"pow4", "w^x^y^z", "(w ^ (x ^ (y ^ z)))"},
		{"starstar4", "w**x^y**z", "(w ^ (x ^ (y ^ z)))"},

		{"negpow", "-1^n", "(-(1 ^ n))"},
		{"powneg", "x^-1", "(x ^ (-1))"},
		{"pownegpow", "x^-y^-z", "(x ^ (-(y ^ (-z))))"},
		{"negmul", "-x*y", "((-x) * y)"},
		{"mulneg", "x*-y", "(x * (-y))"},
		{"powmul", "x^2*y", "((x ^ 2) * y)"},
		{"desc", "w^x*y+z", "(((w ^ x) * y) + z)"},
		{"asc", "w+x*y^z", "(w + (x * (y ^ z)))"},
		{"mixed", "w-x/y+z", "((w - (x / y)) + z)"},
		{"grouped", "(w+x)*(y-z)", "((w + x) * (y - z))"},
		{"parenpow", "(x^y)^z", "((x ^ y) ^ z)"},

		{"call0", "zero()", "zero()"},
		{"call0-bare", "zero*x", "(zero() * x)"},
		{"call01-bare", "zeroone+1", "(zeroone() + 1)"},
		{"call01-arg", "zeroone(x)", "zeroone(x)"},
		{"call1", "one(x+y)", "one((x + y))"},
		{"call1-pow", "one(x)^2", "(one(x) ^ 2)"},
		{"call2", "two(x, y*z)", "two(x, (y * z))"},
		{"callnest", "two(one(x), zero)", "two(one(x), zero())"},
		{"fn-as-name", "one+1", "(one + 1)"},
		{"two-as-name", "two", "two"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src, WithFuncs(testfns))
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			if got := a.String(); got != c.want {
				t.Errorf("%q parsed to %s, want %s", c.src, got, c.want)
			}
			// The formatted tree must parse to itself.
			b, err := Parse(a.String(), WithFuncs(testfns))
			if err != nil {
				t.Fatalf("reparsing %q: %v", a.String(), err)
			}
			if b.String() != a.String() {
				t.Errorf("%q reparsed to %s", a.String(), b.String())
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		want []string
	}{
		{"none", "1+2", nil, nil},
		{"sorted", "z+y*x", nil, []string{"x", "y", "z"}},
		{"reuse", "a+b+a", nil, []string{"a", "b"}},
		{"pi", "pi*r^2", nil, []string{"r"}},
		{"pi-call", "pi()*r^2", nil, []string{"r"}},
		{"pi-brackets", "pi*r^2", []ParseOption{RequireCallBrackets()}, []string{"pi", "r"}},
		{"pi-brackets-call", "pi()*r^2", []ParseOption{RequireCallBrackets()}, []string{"r"}},
		{"pi-shadow", "pi*r^2", []ParseOption{Shadow("pi")}, []string{"pi", "r"}},
		{"pi-shadow-call", "pi()*pi", []ParseOption{Shadow("pi")}, []string{"pi"}},
		{"shadow-empty", "pi", []ParseOption{Shadow()}, nil},
		{"sin-name", "sin+1", nil, []string{"sin"}},
		{"inf", "inf", nil, []string{"inf"}},
		{"nofuncs", "pi+sqrt", []ParseOption{WithFuncs(nil)}, []string{"pi", "sqrt"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src, c.opts...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			if got := a.Vars(); !reflect.DeepEqual(got, c.want) {
				t.Errorf("%q gave wrong names: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		col  int
		re   string
	}{
		{"empty", "", &EmptyExpressionError{}, 1, `no expression`},
		{"blank", "   ", &EmptyExpressionError{}, 4, `term at end`},
		{"trailing-op", "1+", &EmptyExpressionError{}, 3, `term at end`},
		{"empty-parens", "()", &EmptyExpressionError{}, 2, `before "\)"`},
		{"empty-arg", "two(x,)", &EmptyExpressionError{}, 7, `before "\)"`},
		{"leading-comma", "two(,x)", &EmptyExpressionError{}, 5, `before ","`},
		{"lead-mul", "*x", &OperatorError{}, 1, `"\*"`},
		{"double-op", "x*/y", &OperatorError{}, 3, `"/"`},
		{"pow-op", "x^*y", &OperatorError{}, 3, `"\*"`},
		{"unclosed", "(x+y", &BracketError{}, 5, `unclosed`},
		{"unclosed-call", "one(x", &BracketError{}, 6, `unclosed`},
		{"unopened", "x+y)", &BracketError{}, 4, `unmatched`},
		{"comma", "x,y", &SeparatorError{}, 2, `comma`},
		{"paren-comma", "(x,y)", &SeparatorError{}, 3, `comma`},
		{"adjacent-num", "2 x", &AdjacentTermError{}, 3, `missing operator before "x"`},
		{"adjacent-names", "x y", &AdjacentTermError{}, 3, `"y"`},
		{"adjacent-paren", "x(y)", &AdjacentTermError{}, 2, `"\("`},
		{"adjacent-num-paren", "2(x)", &AdjacentTermError{}, 2, `"\("`},
		{"paren-adjacent", "(x)(y)", &AdjacentTermError{}, 4, `"\("`},
		{"bare-call", "one x", &AdjacentTermError{}, 5, `"x"`},
		{"niladic-adjacent", "zero x", &AdjacentTermError{}, 6, `"x"`},
		{"call-arity0", "zero(x)", &CallError{}, 5, `zero with 1 arg`},
		{"call-arity1", "one()", &CallError{}, 4, `one with 0 arg`},
		{"call-arity2", "two(x)", &CallError{}, 4, `two with 1 arg`},
		{"lex", "x+[y]", &LexError{}, 3, `"\["`},
		{"lex-semicolon", "two(x; y)", &LexError{}, 6, `";"`},
		{"lex-number", "x+1.2.3", &LexError{}, 3, `malformed number`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src, WithFuncs(testfns))
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if got := err.(InputError).Pos(); got != c.col {
				t.Errorf("%q: want error at column %d, got %d", c.src, c.col, got)
			}
			if !regexp.MustCompile(c.re).MatchString(err.Error()) {
				t.Errorf("error message %q does not match %s", err.Error(), c.re)
			}
		})
	}
}

func TestParseDefaultFuncs(t *testing.T) {
	for _, name := range Funcs() {
		fn := Lookup(name)
		src := name + "(x)"
		switch {
		case fn.CanCall(0):
			src = name + "()"
		case fn.CanCall(2):
			src = name + "(x, y)"
		}
		a, err := Parse(src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", src, err)
			continue
		}
		if a.n.kind != nodeCall {
			t.Errorf("%q parsed to %v, not a call", src, a)
		}
		b, err := Parse(src, WithFuncs(nil))
		if err == nil {
			t.Errorf("%q parsed without functions to %v", src, b)
		}
	}
}
