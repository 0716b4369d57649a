package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/ascent/pkg/ascent"
	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// FuncsCommand lists the built-in functions.
type FuncsCommand struct {
	printer Printer
	format  string
}

// Register is used to register the command to a parent command.
func (c *FuncsCommand) Register(app *kingpin.Application, printer Printer) {
	c.printer = printer

	cmd := app.Command("funcs", "List built-in functions.").Action(c.list)
	cmd.Flag("format", "Output format.").Default("text").EnumVar(&c.format, "text", "json", "yaml")
}

func (c *FuncsCommand) list(_ *kingpin.ParseContext) error {
	fns := ascent.Functions()
	switch c.format {
	case "json":
		out, err := json.MarshalIndent(fns, "", "  ")
		if err != nil {
			return err
		}
		c.printer.PrintLine(string(out))
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fns); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		c.printer.PrintLine(strings.TrimRight(buf.String(), "\n"))
	default:
		c.printer.PrintLine(fmt.Sprintf("# functions version %s", expr.FunctionsVersion))
		for _, fn := range fns {
			c.printer.PrintLine(fmt.Sprintf("%-8s %d  %s", fn.Name, fn.Arity, fn.Doc))
		}
	}
	return nil
}
