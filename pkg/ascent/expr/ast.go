package expr

import (
	"strconv"
	"strings"
)

// Node is an AST node. The set of implementations is closed: NumberLiteral,
// Identifier, BinaryOp, UnaryOp, FunctionCall and Grouping.
type Node interface {
	// Pos returns the byte offset of the node's defining token.
	Pos() int
	node()
}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Value float32
	At    int
}

// Identifier is a variable reference, possibly namespaced ("q.speed").
type Identifier struct {
	Name string
	At   int
}

// BinaryOp applies an infix operator. At is the operator's position.
type BinaryOp struct {
	Op    Operator
	Left  Node
	Right Node
	At    int

	height int
}

// UnaryOp applies a prefix operator ('-' or '!').
type UnaryOp struct {
	Op      Operator
	Operand Node
	At      int

	height int
}

// FunctionCall invokes a registered built-in. Fn is resolved by the parser.
type FunctionCall struct {
	Name string
	Args []Node
	Fn   *Function
	At   int

	height int
}

// Grouping is a parenthesized sub-expression.
type Grouping struct {
	Inner Node
	At    int

	height int
}

func (n *NumberLiteral) Pos() int { return n.At }
func (n *Identifier) Pos() int    { return n.At }
func (n *BinaryOp) Pos() int      { return n.At }
func (n *UnaryOp) Pos() int       { return n.At }
func (n *FunctionCall) Pos() int  { return n.At }
func (n *Grouping) Pos() int      { return n.At }

// heightOf returns the height recorded by the parser, 1 for leaves.
// Nodes built outside the parser report 1.
func heightOf(n Node) int {
	h := 0
	switch n := n.(type) {
	case *BinaryOp:
		h = n.height
	case *UnaryOp:
		h = n.height
	case *FunctionCall:
		h = n.height
	case *Grouping:
		h = n.height
	}
	return max(h, 1)
}

func (*NumberLiteral) node() {}
func (*Identifier) node()    {}
func (*BinaryOp) node()      {}
func (*UnaryOp) node()       {}
func (*FunctionCall) node()  {}
func (*Grouping) node()      {}

// Format renders a node in canonical form: every binary and unary operation
// is fully parenthesized and explicit groupings are dropped, so two
// expressions with the same structure format identically.
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *NumberLiteral:
		sb.WriteString(strconv.FormatFloat(float64(n.Value), 'g', -1, 32))
	case *Identifier:
		sb.WriteString(n.Name)
	case *BinaryOp:
		sb.WriteByte('(')
		format(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		format(sb, n.Right)
		sb.WriteByte(')')
	case *UnaryOp:
		sb.WriteByte('(')
		sb.WriteString(n.Op.String())
		format(sb, n.Operand)
		sb.WriteByte(')')
	case *FunctionCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, arg)
		}
		sb.WriteByte(')')
	case *Grouping:
		format(sb, n.Inner)
	}
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UnaryOp:
		Walk(n.Operand, fn)
	case *FunctionCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *Grouping:
		Walk(n.Inner, fn)
	}
}
