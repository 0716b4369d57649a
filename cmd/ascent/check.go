package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/multierr"
)

// CheckCommand validates expressions without evaluating them.
type CheckCommand struct {
	globals *GlobalConfig
	printer Printer

	sources []string
	file    string
}

// Register is used to register the command to a parent command.
func (c *CheckCommand) Register(app *kingpin.Application, globals *GlobalConfig, printer Printer) {
	c.globals = globals
	c.printer = printer

	cmd := app.Command("check", "Check that expressions parse and call known functions correctly.").Action(c.check)
	cmd.Arg("expressions", "Expressions to check.").StringsVar(&c.sources)
	cmd.Flag("file", "File with one expression per line; blank lines and lines starting with '#' are skipped.").StringVar(&c.file)
}

func (c *CheckCommand) check(_ *kingpin.ParseContext) error {
	sources := c.sources
	if c.file != "" {
		fromFile, err := readExpressions(c.file)
		if err != nil {
			return err
		}
		sources = append(sources, fromFile...)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no expressions given")
	}

	err := c.globals.Engine().CheckAll(sources...)
	if err == nil {
		c.printer.PrintLine(fmt.Sprintf("ok: %d expression(s)", len(sources)))
		return nil
	}

	failures := multierr.Errors(err)
	for _, ferr := range failures {
		c.printer.PrintLine(ferr.Error())
	}
	return fmt.Errorf("%d of %d expression(s) failed", len(failures), len(sources))
}

func readExpressions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
