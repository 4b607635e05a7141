package expressions

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating formulas: variable values and a working
// precision. It is not safe to use a Context concurrently.
type Context struct {
	stack []*big.Float
	names map[string]*big.Float
	prec  uint
	res   *big.Float
	err   error
}

// NewContext creates an evaluation context computing with prec bits of
// mantissa. 53 matches float64. Panics if prec is zero.
func NewContext(prec uint) *Context {
	if prec == 0 {
		panic("expressions: zero precision")
	}
	return &Context{names: make(map[string]*big.Float), prec: prec}
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
	return ctx
}

// SetFloat64 sets the value of a variable from a float64. Returns ctx for
// chaining.
func (ctx *Context) SetFloat64(name string, value float64) *Context {
	return ctx.Set(name, new(big.Float).SetFloat64(value))
}

// Eval evaluates a formula and returns the result. If evaluation fails, e.g.
// because a variable is undefined or a function argument is outside the
// function's domain, the result is nil and ctx.Err returns the error. The
// result is valid until the next call to Eval.
func (ctx *Context) Eval(e *Expr) *big.Float {
	ctx.stack = ctx.stack[:0]
	ctx.res, ctx.err = nil, ctx.eval(e.n)
	if ctx.err == nil {
		ctx.res = ctx.pop()
	}
	return ctx.res
}

// eval evaluates a tree, converting NaN panics from math/big into domain
// errors. math/big panics with big.ErrNaN on operations like inf - inf.
func (ctx *Context) eval(n *node) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		nan, ok := r.(big.ErrNaN)
		if !ok {
			panic(r)
		}
		err = &DomainError{Func: nan.Error()}
	}()
	return n.eval(ctx)
}

// Err returns the error from the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Float64 returns the result of the last evaluation converted to the nearest
// float64. If evaluation failed, the error is ctx.Err. If the result does not
// fit in a float64, the error is an *OverflowError. Results too small for a
// float64 are zero.
func (ctx *Context) Float64() (float64, error) {
	if ctx.err != nil {
		return 0, ctx.err
	}
	if ctx.res == nil {
		panic("expressions: Float64 called before Eval")
	}
	f, _ := ctx.res.Float64()
	if math.IsInf(f, 0) {
		return 0, &OverflowError{X: new(big.Float).Copy(ctx.res)}
	}
	return f, nil
}

// push adds a value at the working precision to the stack and returns it.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if z := ctx.stack[len(ctx.stack)-1]; z != nil {
			return z.SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, nil)
	}
	z := new(big.Float).SetPrec(ctx.prec)
	ctx.stack[len(ctx.stack)-1] = z
	return z
}

// pop removes the top of the stack and returns it. The returned value may be
// modified by later pushes.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// parseNum sets z to the value of a number literal. Exponents beyond the
// range of big.Float give zero when negative or when every mantissa digit is
// zero, and +inf otherwise.
func parseNum(z *big.Float, s string) *big.Float {
	prec := z.Prec()
	if _, _, err := z.Parse(s, 10); err == nil {
		return z
	}
	mant, exp, _ := strings.Cut(strings.ToLower(s), "e")
	z.SetPrec(prec)
	if strings.Trim(mant, "0.") == "" || strings.HasPrefix(exp, "-") {
		return z.SetInt64(0)
	}
	return z.SetInf(false)
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		parseNum(ctx.push(), n.text)
	case nodeName:
		v := ctx.names[n.text]
		if v == nil {
			return &NameError{Name: n.text}
		}
		ctx.push().Set(v)
	case nodeCall:
		// Reserve the result slot below the arguments.
		ctx.push()
		k := len(ctx.stack)
		for _, a := range n.args {
			if err := a.eval(ctx); err != nil {
				return err
			}
		}
		args := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := n.fn.Call(ctx, args, ctx.stack[k-1]); err != nil {
			return err
		}
		ctx.stack = ctx.stack[:k]
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return arith(ctx.prec, n.kind, l, r)
	default:
		panic("expressions: invalid AST node " + n.kind.String())
	}
	return nil
}

// arith sets l to l op r.
func arith(prec uint, op nodeKind, l, r *big.Float) error {
	switch op {
	case nodeAdd:
		l.Add(l, r)
	case nodeSub:
		l.Sub(l, r)
	case nodeMul:
		l.Mul(l, r)
	case nodeDiv:
		// big.Float would give an infinity for x/0.
		if r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return &DomainError{X: new(big.Float).Copy(r), Arg: 2, Func: "/"}
		}
		l.Quo(l, r)
	case nodePow:
		return pow(prec, l, l, r, "^")
	}
	return nil
}

// maxIntPow is the largest integer exponent computed by repeated squaring.
const maxIntPow = 1 << 16

// maxPowBits bounds the binary exponent of a power computed through exp and
// log. Past it, the result is far outside float64 range and is set directly
// to +inf or 0 instead.
const maxPowBits = 1 << 20

// pow sets z to x^y at precision prec. z may alias x or y. A negative base is
// allowed only with an integer exponent, and zero may not be raised to a
// negative power.
func pow(prec uint, z, x, y *big.Float, name string) error {
	if x.IsInf() || y.IsInf() {
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2, Func: name}
	}
	if n, acc := y.Int64(); acc == big.Exact && -maxIntPow <= n && n <= maxIntPow {
		return powint(prec, z, x, n, name)
	}
	neg := false
	switch x.Sign() {
	case 0:
		if y.Sign() < 0 {
			return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: name}
		}
		z.SetPrec(prec).SetInt64(0)
		return nil
	case -1:
		if !y.IsInt() {
			return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: name}
		}
		odd := new(big.Int)
		y.Int(odd)
		neg = odd.Bit(0) == 1
	}
	b := new(big.Float).SetPrec(prec).Abs(x)
	e := new(big.Float).SetPrec(prec).Set(y)
	// Estimate log2 of the result to keep exp out of huge argument
	// reductions.
	mant := new(big.Float)
	bexp := b.MantExp(mant)
	m, _ := mant.Float64()
	yf, _ := e.Float64()
	est := yf * (float64(bexp) + math.Log2(m))
	switch {
	case est > maxPowBits:
		z.SetPrec(prec).SetInf(false)
	case est < -maxPowBits:
		z.SetPrec(prec).SetInt64(0)
	default:
		z.SetPrec(prec).Set(bigfloat.Pow(new(big.Float).SetPrec(prec), b, e))
	}
	if neg {
		z.Neg(z)
	}
	return nil
}

// powint sets z to x^n by repeated squaring with guard bits.
func powint(prec uint, z, x *big.Float, n int64, name string) error {
	if n == 0 {
		z.SetPrec(prec).SetInt64(1)
		return nil
	}
	if n < 0 && x.Sign() == 0 {
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: name}
	}
	inv := n < 0
	if inv {
		n = -n
	}
	wp := prec + 64
	b := new(big.Float).SetPrec(wp).Set(x)
	r := new(big.Float).SetPrec(wp).SetInt64(1)
	for n > 0 {
		if n&1 == 1 {
			r.Mul(r, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
	if inv {
		r.Quo(new(big.Float).SetPrec(wp).SetInt64(1), r)
	}
	z.SetPrec(prec).Set(r)
	return nil
}

// NameError is a reference to a variable with no value in the context.
type NameError struct {
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable " + strconv.Quote(err.Name)
}

// OverflowError is a result too large for a float64.
type OverflowError struct {
	// X is the result.
	X *big.Float
}

func (err *OverflowError) Error() string {
	return "result " + err.X.Text('g', 10) + " out of range"
}

// IsDomain reports whether err is or wraps a *DomainError.
func IsDomain(err error) bool {
	var d *DomainError
	return errors.As(err, &d)
}
