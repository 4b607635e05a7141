package expressions

import (
	"strings"
)

// node is a node in the syntax tree of a formula.
type node struct {
	kind nodeKind
	// text is the literal of a number, or the name of a variable or function.
	text string
	fn   Func
	// args are the arguments of a call.
	args []*node

	left, right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push literal
	nodeName // push variable
	nodeCall // push fn(args...)

	nodeNeg // -left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
)

//go:generate stringer -type=nodeKind -trimprefix=node

// String formats the tree with every operation in round brackets, so that
// the result parses to the same tree.
func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.text)
	case nodeCall:
		b.WriteString(n.text)
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	case nodeNeg:
		b.WriteString("(-")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(binopText[n.kind])
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("expressions: invalid node kind " + n.kind.String())
	}
}

var binopText = [...]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodePow: " ^ ",
}
