package config

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

const (
	keyQuery     = "query"
	keyVariables = "variables"
)

// Variables holds the two standard binding layers loaded from a file:
//
//	query:
//	  speed: 3.5
//	variables:
//	  hp: 100
type Variables struct {
	Query     map[string]float32 `yaml:"query" json:"query"`
	Variables map[string]float32 `yaml:"variables" json:"variables"`
}

// Scope returns the standard scope in which query variables shadow general
// variables.
func (v Variables) Scope() expr.Scope {
	return expr.StandardScope(v.Query, v.Variables)
}

// Merge returns a copy of v with other's bindings layered on top.
func (v Variables) Merge(other Variables) Variables {
	return Variables{
		Query:     mergeFloats(v.Query, other.Query),
		Variables: mergeFloats(v.Variables, other.Variables),
	}
}

// Names returns every bound name as it would be addressed with a layer
// prefix ("query.x", "variable.y"), sorted.
func (v Variables) Names() []string {
	names := make([]string, 0, len(v.Query)+len(v.Variables))
	for k := range v.Query {
		names = append(names, expr.QueryLayer+"."+k)
	}
	for k := range v.Variables {
		names = append(names, expr.VariableLayer+"."+k)
	}
	sort.Strings(names)
	return names
}

// VariablesFrom decodes variables from v.
func VariablesFrom(v Values) (Variables, error) {
	var err error
	query, qerr := v.Floats(keyQuery)
	err = multierr.Append(err, qerr)
	vars, verr := v.Floats(keyVariables)
	err = multierr.Append(err, verr)
	for _, k := range v.Unknown(keyQuery, keyVariables) {
		err = multierr.Append(err, fmt.Errorf("unknown section %q (want %s or %s)", k, keyQuery, keyVariables))
	}
	if err != nil {
		return Variables{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return Variables{Query: query, Variables: vars}, nil
}

func mergeFloats(base, over map[string]float32) map[string]float32 {
	out := make(map[string]float32, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
