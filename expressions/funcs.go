package expressions

import (
	"errors"
	"math"
	"math/big"
	"slices"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function, setting r to its result. args has a
	// length for which CanCall returned true. Call may modify the elements
	// of args and should not otherwise use the value of r.
	Call(ctx *Context, args []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments.
	// A function that can be called with no arguments may be written
	// without brackets, like pi.
	CanCall(n int) bool
}

// library is the set of functions available to formulas.
var library = map[string]Func{
	"sqrt": monadic(func(out, in *big.Float) *big.Float {
		if in.Sign() < 0 {
			panic(&DomainError{X: new(big.Float).Copy(in), Arg: 1, Func: "sqrt"})
		}
		return out.Sqrt(in)
	}),
	"exp": monadic(bigfloat.Exp),
	"log": logfn{},
	"log10": monadic(func(out, in *big.Float) *big.Float {
		return logb(out, in, new(big.Float).SetPrec(out.Prec()).SetInt64(10))
	}),
	"pow": powfn{},

	// bigfloat has no trig.
	"cos":  float64Monadic("cos", math.Cos),
	"sin":  float64Monadic("sin", math.Sin),
	"tan":  float64Monadic("tan", math.Tan),
	"atan": float64Monadic("atan", math.Atan),

	"pi": niladic(bigfloat.Pi),
}

// Funcs returns the names of the library functions in sorted order.
func Funcs() []string {
	names := make([]string, 0, len(library))
	for k := range library {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the library function with the given name, or nil if there is
// none.
func Lookup(name string) Func {
	return library[name]
}

// monadic wraps a function of one argument. f sets out to its result at out's
// precision and returns the result, which need not be out. f reports an
// argument outside its domain by panicking with a *DomainError or big.ErrNaN.
type monadic func(out, in *big.Float) *big.Float

func (f monadic) Call(ctx *Context, args []*big.Float, r *big.Float) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		err, _ = p.(error)
		if errors.As(err, new(*DomainError)) || errors.As(err, new(big.ErrNaN)) {
			return
		}
		panic(p)
	}()
	r.SetPrec(ctx.Prec())
	r.Set(f(r, args[0]))
	return nil
}

func (monadic) CanCall(n int) bool {
	return n == 1
}

// float64Monadic wraps a float64 function. The argument is rounded to float64
// and the result is set exactly. A NaN or infinite result is a *DomainError.
func float64Monadic(name string, f func(float64) float64) Func {
	return monadic(func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			panic(&DomainError{X: new(big.Float).Copy(in), Arg: 1, Func: name})
		}
		return out.SetFloat64(y)
	})
}

// niladic wraps a constant.
type niladic func(out *big.Float) *big.Float

func (f niladic) Call(ctx *Context, args []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	r.Set(f(r))
	return nil
}

func (niladic) CanCall(n int) bool {
	return n == 0
}

// logfn is the natural logarithm log(x) or the logarithm to a base, log(x, b).
type logfn struct{}

func (logfn) Call(ctx *Context, args []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	x := args[0]
	if x.Sign() <= 0 || x.IsInf() {
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "log"}
	}
	if len(args) == 1 {
		r.Set(bigfloat.Log(new(big.Float).SetPrec(ctx.Prec()), x))
		return nil
	}
	b := args[1]
	if b.Sign() <= 0 || b.IsInf() || b.Cmp(one) == 0 {
		return &DomainError{X: new(big.Float).Copy(b), Arg: 2, Func: "log"}
	}
	logb(r, x, b)
	return nil
}

func (logfn) CanCall(n int) bool {
	return n == 1 || n == 2
}

var one = big.NewFloat(1)

// logb sets out to the logarithm of x to the base b. Panics with a
// *DomainError if x is not positive.
func logb(out, x, b *big.Float) *big.Float {
	if x.Sign() <= 0 {
		panic(&DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "log10"})
	}
	wp := out.Prec() + 32
	n := bigfloat.Log(new(big.Float).SetPrec(wp), new(big.Float).SetPrec(wp).Set(x))
	d := bigfloat.Log(new(big.Float).SetPrec(wp), new(big.Float).SetPrec(wp).Set(b))
	return out.Quo(n, d)
}

// powfn is pow(x, y), with the same rules as x^y.
type powfn struct{}

func (powfn) Call(ctx *Context, args []*big.Float, r *big.Float) error {
	return pow(ctx.Prec(), r, args[0], args[1], "pow")
}

func (powfn) CanCall(n int) bool {
	return n == 2
}

// DomainError is a function or operator applied to an argument outside its
// domain.
type DomainError struct {
	// X is the out-of-domain argument. It is nil if the argument is not
	// known, e.g. for an invalid operation between infinities.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func names the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.Text('g', 10) + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
