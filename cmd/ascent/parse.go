package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// ParseCommand prints how an expression is parsed.
type ParseCommand struct {
	globals *GlobalConfig
	printer Printer

	source      string
	tree        bool
	identifiers bool
}

// Register is used to register the command to a parent command.
func (c *ParseCommand) Register(app *kingpin.Application, globals *GlobalConfig, printer Printer) {
	c.globals = globals
	c.printer = printer

	cmd := app.Command("parse", "Print the fully parenthesized form of an expression.").Action(c.parse)
	cmd.Arg("expression", "Expression to parse.").Required().StringVar(&c.source)
	cmd.Flag("tree", "Print the syntax tree instead.").BoolVar(&c.tree)
	cmd.Flag("identifiers", "Also list the variables the expression reads.").BoolVar(&c.identifiers)
}

func (c *ParseCommand) parse(_ *kingpin.ParseContext) error {
	prog, err := c.globals.Engine().Compile(c.source)
	if err != nil {
		printCaret(c.printer, c.source, err)
		return err
	}

	if c.tree {
		printTree(c.printer, prog.Root(), 0)
	} else {
		c.printer.PrintLine(prog.String())
	}
	if c.identifiers {
		c.printer.PrintLine("identifiers: " + strings.Join(prog.Identifiers(), ", "))
	}
	return nil
}

func printTree(p Printer, n expr.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *expr.NumberLiteral:
		p.PrintLine(fmt.Sprintf("%snumber %s @%d", indent, formatValue(n.Value), n.At))
	case *expr.Identifier:
		p.PrintLine(fmt.Sprintf("%sident %s @%d", indent, n.Name, n.At))
	case *expr.UnaryOp:
		p.PrintLine(fmt.Sprintf("%sunary %s @%d", indent, n.Op, n.At))
		printTree(p, n.Operand, depth+1)
	case *expr.BinaryOp:
		p.PrintLine(fmt.Sprintf("%sbinary %s @%d", indent, n.Op, n.At))
		printTree(p, n.Left, depth+1)
		printTree(p, n.Right, depth+1)
	case *expr.FunctionCall:
		p.PrintLine(fmt.Sprintf("%scall %s/%d @%d", indent, n.Name, len(n.Args), n.At))
		for _, arg := range n.Args {
			printTree(p, arg, depth+1)
		}
	case *expr.Grouping:
		p.PrintLine(fmt.Sprintf("%sgroup @%d", indent, n.At))
		printTree(p, n.Inner, depth+1)
	}
}
