package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/multierr"

	"github.com/randalmurphal/ascent/pkg/ascent/config"
	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// bindings collects variable flags shared by commands that evaluate.
type bindings struct {
	query    map[string]string
	vars     map[string]string
	varsFile string
}

func (b *bindings) register(cmd *kingpin.CmdClause) {
	b.query = map[string]string{}
	b.vars = map[string]string{}
	cmd.Flag("query", "Query variable NAME=VALUE. Repeatable; shadows --var.").Short('q').StringMapVar(&b.query)
	cmd.Flag("var", "General variable NAME=VALUE. Repeatable.").Short('v').StringMapVar(&b.vars)
	cmd.Flag("vars-file", "YAML or JSON file with 'query' and 'variables' maps.").StringVar(&b.varsFile)
}

// load returns the file bindings overlaid with the inline ones.
func (b *bindings) load() (config.Variables, error) {
	vars := config.Variables{}
	if b.varsFile != "" {
		loaded, err := config.LoadVariables(b.varsFile)
		if err != nil {
			return config.Variables{}, err
		}
		vars = loaded
	}

	var err error
	query, qerr := parseFloats("--query", b.query)
	err = multierr.Append(err, qerr)
	general, verr := parseFloats("--var", b.vars)
	err = multierr.Append(err, verr)
	if err != nil {
		return config.Variables{}, err
	}
	return vars.Merge(config.Variables{Query: query, Variables: general}), nil
}

func parseFloats(flag string, raw map[string]string) (map[string]float32, error) {
	out := make(map[string]float32, len(raw))
	var err error
	for _, name := range sortedKeys(raw) {
		v, ok := expr.ToFloat32(raw[name])
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%s %s=%q: not a float32 number", flag, name, raw[name]))
			continue
		}
		out[name] = v
	}
	return out, err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue renders a result the way it was computed, in float32.
func formatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// caretLines points at the failing position of an expression error, e.g.
//
//	1 + 2 / 0
//	      ^
func caretLines(src string, err error) []string {
	e, ok := expr.AsError(err)
	if !ok || e.Pos < 0 || e.Pos > len(src) || strings.ContainsAny(src, "\n\t") {
		return nil
	}
	col := utf8.RuneCountInString(src[:e.Pos])
	return []string{"  " + src, "  " + strings.Repeat(" ", col) + "^"}
}
