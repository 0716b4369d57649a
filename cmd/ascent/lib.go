package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/randalmurphal/ascent/pkg/ascent/library"
)

// LibCommand manages a library of named expressions in SQLite.
type LibCommand struct {
	globals *GlobalConfig
	printer Printer

	db          string
	name        string
	source      string
	description string
	file        string
	binds       bindings
}

// Register is used to register the command to a parent command.
func (c *LibCommand) Register(app *kingpin.Application, globals *GlobalConfig, printer Printer) {
	c.globals = globals
	c.printer = printer

	cmd := app.Command("lib", "Manage a library of named expressions.")
	cmd.Flag("db", "Library database file.").Default("ascent.db").Envar("ASCENT_DB").StringVar(&c.db)

	addCmd := cmd.Command("add", "Add or replace a named expression.").Action(c.add)
	addCmd.Arg("name", "Expression name.").Required().StringVar(&c.name)
	addCmd.Arg("source", "Expression source.").Required().StringVar(&c.source)
	addCmd.Flag("description", "What the expression computes.").Short('d').StringVar(&c.description)

	cmd.Command("list", "List named expressions.").Action(c.list)

	showCmd := cmd.Command("show", "Show a named expression.").Action(c.show)
	showCmd.Arg("name", "Expression name.").Required().StringVar(&c.name)

	runCmd := cmd.Command("run", "Evaluate a named expression.").Action(c.run)
	runCmd.Arg("name", "Expression name.").Required().StringVar(&c.name)
	c.binds.register(runCmd)

	rmCmd := cmd.Command("rm", "Remove a named expression.").Action(c.remove)
	rmCmd.Arg("name", "Expression name.").Required().StringVar(&c.name)

	importCmd := cmd.Command("import", "Import expressions from a YAML file.").Action(c.importFile)
	importCmd.Arg("file", "YAML file with an 'expressions' list.").Required().StringVar(&c.file)

	exportCmd := cmd.Command("export", "Export expressions as YAML.").Action(c.exportFile)
	exportCmd.Arg("file", "Output file; stdout when omitted.").StringVar(&c.file)
}

func (c *LibCommand) open() (*library.SQLiteStore, error) {
	return library.NewSQLiteStore(c.db, library.WithCheck(c.globals.Engine().Check))
}

// withStore opens the library for the duration of fn.
func (c *LibCommand) withStore(fn func(store library.Store) error) (err error) {
	store, err := c.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(store)
}

func (c *LibCommand) add(_ *kingpin.ParseContext) error {
	return c.withStore(func(store library.Store) error {
		e, err := store.Save(library.Entry{Name: c.name, Source: c.source, Description: c.description})
		if err != nil {
			return err
		}
		c.printer.PrintLine(fmt.Sprintf("saved %s (%s)", e.Name, e.ID))
		return nil
	})
}

func (c *LibCommand) list(_ *kingpin.ParseContext) error {
	return c.withStore(func(store library.Store) error {
		entries, err := store.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s\t%s", e.Name, e.Source)
			if e.Description != "" {
				line += "\t# " + e.Description
			}
			c.printer.PrintLine(line)
		}
		return nil
	})
}

func (c *LibCommand) show(_ *kingpin.ParseContext) error {
	return c.withStore(func(store library.Store) error {
		e, err := store.Get(c.name)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		c.printer.PrintLine("name:        " + e.Name)
		c.printer.PrintLine("id:          " + e.ID)
		c.printer.PrintLine("source:      " + e.Source)
		if e.Description != "" {
			c.printer.PrintLine("description: " + e.Description)
		}
		c.printer.PrintLine("created:     " + e.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
		c.printer.PrintLine("updated:     " + e.UpdatedAt.Format("2006-01-02 15:04:05Z07:00"))
		return nil
	})
}

func (c *LibCommand) run(_ *kingpin.ParseContext) error {
	vars, err := c.binds.load()
	if err != nil {
		return err
	}
	return c.withStore(func(store library.Store) error {
		e, err := store.Get(c.name)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		v, err := c.globals.Engine().Evaluate(context.Background(), e.Source, vars.Scope())
		if err != nil {
			printCaret(c.printer, e.Source, err)
			return err
		}
		c.printer.PrintLine(formatValue(v))
		return nil
	})
}

func (c *LibCommand) remove(_ *kingpin.ParseContext) error {
	return c.withStore(func(store library.Store) error {
		if err := store.Delete(c.name); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		c.printer.PrintLine("removed " + c.name)
		return nil
	})
}

func (c *LibCommand) importFile(_ *kingpin.ParseContext) error {
	f, err := os.Open(c.file)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.withStore(func(store library.Store) error {
		n, err := library.ImportYAML(store, f)
		c.printer.PrintLine(fmt.Sprintf("imported %d expression(s)", n))
		return err
	})
}

func (c *LibCommand) exportFile(_ *kingpin.ParseContext) error {
	return c.withStore(func(store library.Store) error {
		if c.file == "" {
			var buf bytes.Buffer
			if err := library.ExportYAML(store, &buf); err != nil {
				return err
			}
			c.printer.PrintLine(strings.TrimRight(buf.String(), "\n"))
			return nil
		}

		f, err := os.Create(c.file)
		if err != nil {
			return err
		}
		if err := library.ExportYAML(store, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}
