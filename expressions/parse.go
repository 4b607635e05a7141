package expressions

import (
	"slices"
)

// Formula grammar:
//
//	Expr    = Term { ('+' | '-') Term }
//	Term    = Unary { ('*' | '/') Unary }
//	Unary   = ('+' | '-') Unary | Power
//	Power   = Primary [ ('^' | '**') Unary ]
//	Primary = number | name | Call | '(' Expr ')'
//	Call    = funcname '(' [ Expr { ',' Expr } ] ')' | niladic funcname
//
// Exponentiation is right-associative and binds tighter than a unary sign on
// its left, so -2^2 is -4 and 2^-1 is 0.5. Terms are never juxtaposed.

// Expr is a parsed formula that can be evaluated with a Context.
type Expr struct {
	n *node
	// names is the sorted list of variable names used in the formula.
	names []string
}

type parser struct {
	scan *lexer
	// tok is the current lookahead token.
	tok token

	funcs map[string]Func
	// brackets requires brackets on niladic calls.
	brackets bool
	// shadow is the set of names that parse as variables rather than bare
	// niladic calls.
	shadow map[string]bool

	names map[string]bool
}

// Parse parses a formula. The given options are applied in order. Without
// WithFuncs, the formula may call any function in the default library.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := parser{
		scan:  lex(src),
		funcs: library,
		names: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenEOF {
		return nil, p.unexpected()
	}
	e := Expr{n: n, names: make([]string, 0, len(p.names))}
	for name := range p.names {
		e.names = append(e.names, name)
	}
	slices.Sort(e.names)
	return &e, nil
}

// advance scans the next lookahead token.
func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

type operator struct {
	// prec is the precedence. Higher binds tighter.
	prec int8
	op   nodeKind
}

// binop gets the binary operator for an operator token. Exponentiation is
// handled by Power, so it has no entry here.
func binop(text string) (operator, bool) {
	switch text {
	case "+":
		return operator{1, nodeAdd}, true
	case "-":
		return operator{1, nodeSub}, true
	case "*":
		return operator{2, nodeMul}, true
	case "/":
		return operator{2, nodeDiv}, true
	}
	return operator{}, false
}

func isPow(tok token) bool {
	return tok.kind == tokenOp && (tok.text == "^" || tok.text == "**")
}

func (p *parser) expr() (*node, error) {
	return p.binary(1)
}

// binary parses left-associative binary operations with at least the given
// precedence.
func (p *parser) binary(min int8) (*node, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokenOp {
		op, ok := binop(p.tok.text)
		if !ok || op.prec < min {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.binary(op.prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: op.op, left: lhs, right: rhs}
	}
	return lhs, nil
}

func (p *parser) unary() (*node, error) {
	if p.tok.kind == tokenOp && (p.tok.text == "+" || p.tok.text == "-") {
		neg := p.tok.text == "-"
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			n = &node{kind: nodeNeg, left: n}
		}
		return n, nil
	}
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !isPow(p.tok) {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: base, right: exp}, nil
}

func (p *parser) primary() (*node, error) {
	tok := p.tok
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, text: tok.text}, p.advance()
	case tokenIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		fn := p.funcs[tok.text]
		switch {
		case fn == nil:
		case p.tok.kind == tokenOpen:
			return p.call(tok.text, fn)
		case !p.brackets && !p.shadow[tok.text] && fn.CanCall(0):
			return &node{kind: nodeCall, text: tok.text, fn: fn}, nil
		}
		p.names[tok.text] = true
		return &node{kind: nodeName, text: tok.text}, nil
	case tokenOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokenClose {
			return nil, p.unexpected()
		}
		return n, p.advance()
	case tokenOp:
		return nil, &OperatorError{Col: tok.col, Operator: tok.text}
	default:
		return nil, &EmptyExpressionError{Col: tok.col, End: tok.text}
	}
}

// call parses the bracketed argument list of a call to fn. The lookahead is
// the opening bracket.
func (p *parser) call(name string, fn Func) (*node, error) {
	open := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	n := &node{kind: nodeCall, text: name, fn: fn}
	if p.tok.kind != tokenClose {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			n.args = append(n.args, arg)
			if p.tok.kind == tokenComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.tok.kind != tokenClose {
				return nil, p.unexpected()
			}
			break
		}
	}
	if !fn.CanCall(len(n.args)) {
		return nil, &CallError{Col: open.col, Func: name, Len: len(n.args)}
	}
	return n, p.advance()
}

// unexpected returns the error for a lookahead token that cannot follow a
// complete expression.
func (p *parser) unexpected() error {
	tok := p.tok
	switch tok.kind {
	case tokenEOF:
		return &BracketError{Col: tok.col, Open: true}
	case tokenClose:
		return &BracketError{Col: tok.col}
	case tokenComma:
		return &SeparatorError{Col: tok.col}
	case tokenOp:
		return &OperatorError{Col: tok.col, Operator: tok.text}
	default:
		return &AdjacentTermError{Col: tok.col, Term: tok.text}
	}
}

// Vars returns the variable names used in the formula in sorted order.
func (e *Expr) Vars() []string {
	if len(e.names) == 0 {
		return nil
	}
	return append([]string(nil), e.names...)
}

// String formats the formula with every operation in round brackets.
func (e *Expr) String() string {
	return e.n.String()
}
