package answerkey

import (
	"errors"
	"fmt"
	"strconv"

	exprs "github.com/zephyrtronium/answerkey/expressions"
)

// DefaultFunctions is the default set of functions available to formulas.
var DefaultFunctions = []string{"sqrt", "atan", "cos", "sin", "tan", "log", "log10", "exp", "pi", "pow"}

// DefaultPrecision is the default working precision of formula evaluation in
// bits, the same as a float64 mantissa.
const DefaultPrecision = 53

// Evaluator evaluates answer formulas. It is safe to use an Evaluator from
// multiple goroutines.
type Evaluator struct {
	popts   []exprs.ParseOption
	niladic map[string]bool
	prec    uint
}

// Option configures an Evaluator.
type Option func(*evalconf)

type evalconf struct {
	funcs    []string
	prec     uint
	strictPi bool
}

// WithFunctions sets the names of the functions formulas may call. Every name
// must be one of the functions of package expressions.
func WithFunctions(names ...string) Option {
	return func(c *evalconf) {
		c.funcs = append([]string(nil), names...)
	}
}

// WithPrecision sets the working precision in bits.
func WithPrecision(bits uint) Option {
	return func(c *evalconf) {
		c.prec = bits
	}
}

// WithStrictPi makes a bare pi a variable name. Only pi() is π. Without it,
// pi is π with or without brackets unless a variable named pi is defined.
func WithStrictPi(strict bool) Option {
	return func(c *evalconf) {
		c.strictPi = strict
	}
}

// NewEvaluator creates an evaluator. It returns an error if a function name
// is unknown or the precision is zero.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	c := evalconf{funcs: DefaultFunctions, prec: DefaultPrecision}
	for _, opt := range opts {
		opt(&c)
	}
	if c.prec == 0 {
		return nil, errors.New("answerkey: zero precision")
	}
	fns := make(map[string]exprs.Func, len(c.funcs))
	niladic := make(map[string]bool)
	for _, name := range c.funcs {
		fn := exprs.Lookup(name)
		if fn == nil {
			return nil, fmt.Errorf("answerkey: unknown function %q", name)
		}
		fns[name] = fn
		if fn.CanCall(0) {
			niladic[name] = true
		}
	}
	popts := []exprs.ParseOption{exprs.WithFuncs(fns)}
	if c.strictPi {
		popts = append(popts, exprs.RequireCallBrackets())
	}
	e := Evaluator{
		popts:   popts,
		niladic: niladic,
		prec:    c.prec,
	}
	return &e, nil
}

// Evaluate evaluates a formula using the given variables. Any failure is a
// *FormulaError: a syntax error, a reference to an undefined variable, a
// function argument outside its domain, division by zero, or a result too
// large for a float64.
func (e *Evaluator) Evaluate(formula string, vars *VarMap) (float64, error) {
	opts := e.popts
	var shadow []string
	for name := range e.niladic {
		if _, ok := vars.Get(name); ok {
			shadow = append(shadow, name)
		}
	}
	if shadow != nil {
		opts = append(opts[:len(opts):len(opts)], exprs.Shadow(shadow...))
	}
	x, err := exprs.Parse(formula, opts...)
	if err != nil {
		return 0, e.fail(formula, vars, err)
	}
	ctx := exprs.NewContext(e.prec)
	for _, name := range x.Vars() {
		if v, ok := vars.Get(name); ok {
			ctx.SetFloat64(name, v)
		}
	}
	ctx.Eval(x)
	r, err := ctx.Float64()
	if err != nil {
		return 0, e.fail(formula, vars, err)
	}
	return r, nil
}

func (e *Evaluator) fail(formula string, vars *VarMap, err error) *FormulaError {
	return &FormulaError{Formula: formula, Rewritten: Rewrite(formula, vars), Err: err}
}

// Rewrite returns formula with the values of vars in place of their names, for
// diagnostics. The formula is scanned once, so a value is never mistaken for a
// name. If the formula has lexical errors, it is returned unchanged.
func Rewrite(formula string, vars *VarMap) string {
	rw, err := exprs.Substitute(formula, vars.lookupText)
	if err != nil {
		return formula
	}
	return rw
}

// FormulaError is an error evaluating a formula.
type FormulaError struct {
	// Formula is the formula as written.
	Formula string
	// Rewritten is the formula with variable values in place of their names.
	Rewritten string
	// Err is the cause.
	Err error
}

func (err *FormulaError) Error() string {
	return "evaluating " + strconv.Quote(err.Rewritten) + ": " + err.Err.Error()
}

func (err *FormulaError) Unwrap() error {
	return err.Err
}
