package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/ascent/pkg/ascent"
	"github.com/randalmurphal/ascent/pkg/ascent/config"
)

// batchFile is the YAML layout read by the batch command:
//
//	query:
//	  speed: 3
//	variables:
//	  hp: 100
//	expressions:
//	  - name: dash
//	    source: speed * 2
type batchFile struct {
	Query       map[string]float32 `yaml:"query"`
	Variables   map[string]float32 `yaml:"variables"`
	Expressions []struct {
		Name   string `yaml:"name"`
		Source string `yaml:"source"`
	} `yaml:"expressions"`
}

// BatchCommand evaluates every expression in a file concurrently.
type BatchCommand struct {
	globals *GlobalConfig
	printer Printer

	file        string
	concurrency int
	binds       bindings
}

// Register is used to register the command to a parent command.
func (c *BatchCommand) Register(app *kingpin.Application, globals *GlobalConfig, printer Printer) {
	c.globals = globals
	c.printer = printer

	cmd := app.Command("batch", "Evaluate the expressions in a YAML file.").Action(c.run)
	cmd.Arg("file", "Batch file with 'expressions' and optional 'query' and 'variables' maps.").Required().StringVar(&c.file)
	cmd.Flag("concurrency", "Maximum expressions evaluated at once.").Default(fmt.Sprint(ascent.DefaultConcurrency)).IntVar(&c.concurrency)
	c.binds.register(cmd)
}

func (c *BatchCommand) run(_ *kingpin.ParseContext) error {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return err
	}
	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return fmt.Errorf("parse %s: %w", c.file, err)
	}

	extra, err := c.binds.load()
	if err != nil {
		return err
	}
	scope := config.Variables{Query: bf.Query, Variables: bf.Variables}.Merge(extra).Scope()

	reqs := make([]ascent.Request, 0, len(bf.Expressions))
	for i, e := range bf.Expressions {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		reqs = append(reqs, ascent.Request{Name: name, Source: e.Source, Scope: scope})
	}

	results, err := c.globals.Engine().EvaluateAll(context.Background(), reqs, c.concurrency)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			c.printer.PrintLine(fmt.Sprintf("%s: error: %v", r.Name, r.Err))
			continue
		}
		c.printer.PrintLine(fmt.Sprintf("%s = %s", r.Name, formatValue(r.Value)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expression(s) failed", failed, len(results))
	}
	return nil
}
