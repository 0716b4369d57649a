package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

// EvalCommand evaluates one expression.
type EvalCommand struct {
	globals *GlobalConfig
	printer Printer

	source  string
	binds   bindings
	verbose bool
}

// Register is used to register the command to a parent command.
func (c *EvalCommand) Register(app *kingpin.Application, globals *GlobalConfig, printer Printer) {
	c.globals = globals
	c.printer = printer

	cmd := app.Command("eval", "Evaluate an expression.").Action(c.eval)
	cmd.Arg("expression", "Expression to evaluate; quote it for the shell.").Required().StringVar(&c.source)
	c.binds.register(cmd)
	cmd.Flag("verbose", "Also print the canonical form of the expression.").BoolVar(&c.verbose)
}

func (c *EvalCommand) eval(_ *kingpin.ParseContext) error {
	vars, err := c.binds.load()
	if err != nil {
		return err
	}

	engine := c.globals.Engine()
	if c.verbose {
		prog, err := engine.Compile(c.source)
		if err != nil {
			printCaret(c.printer, c.source, err)
			return err
		}
		c.printer.PrintLine(fmt.Sprintf("%s =", prog))
	}

	v, err := engine.Evaluate(context.Background(), c.source, vars.Scope())
	if err != nil {
		printCaret(c.printer, c.source, err)
		return err
	}
	c.printer.PrintLine(formatValue(v))
	return nil
}

func printCaret(p Printer, src string, err error) {
	for _, line := range caretLines(src, err) {
		p.PrintLine(line)
	}
}
