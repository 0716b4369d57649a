package expr

import "strings"

// Layer names for the two standard scopes.
const (
	QueryLayer    = "query"
	VariableLayer = "variable"
)

// Layer is one level of variable bindings. A layer can be addressed
// directly with a namespaced identifier such as "query.x" or, through an
// alias, "q.x".
type Layer struct {
	Name    string
	Aliases []string
	Vars    map[string]float32
}

// Query returns the query-variables layer, addressable as "query." or "q.".
func Query(vars map[string]float32) Layer {
	return Layer{Name: QueryLayer, Aliases: []string{"q"}, Vars: vars}
}

// Variables returns the general variables layer, addressable as
// "variable." or "v.".
func Variables(vars map[string]float32) Layer {
	return Layer{Name: VariableLayer, Aliases: []string{"v"}, Vars: vars}
}

func (l Layer) addressedBy(ns string) bool {
	if ns == l.Name {
		return true
	}
	for _, a := range l.Aliases {
		if ns == a {
			return true
		}
	}
	return false
}

// Scope is an ordered list of layers searched first to last. The evaluator
// never modifies the maps a Scope refers to.
type Scope struct {
	layers []Layer
}

// NewScope creates a scope from layers in lookup order.
func NewScope(layers ...Layer) Scope {
	return Scope{layers: layers}
}

// StandardScope builds the two-layer scope in which query variables shadow
// general variables. Either map may be nil.
func StandardScope(query, vars map[string]float32) Scope {
	return NewScope(Query(query), Variables(vars))
}

// Layers returns the scope's layers in lookup order.
func (s Scope) Layers() []Layer {
	return s.layers
}

// Resolve looks up name. A name whose first dot-separated segment addresses
// a layer ("q.x", "variable.hp") is looked up only in that layer, under the
// remainder of the name. Any other name is looked up in each layer in order
// and the first binding wins.
func (s Scope) Resolve(name string) (float32, error) {
	if ns, rest, ok := strings.Cut(name, "."); ok {
		for _, l := range s.layers {
			if !l.addressedBy(ns) {
				continue
			}
			if v, ok := l.Vars[rest]; ok {
				return v, nil
			}
			return 0, newError(KindUnboundIdentifier, StageEvaluate, NoPos,
				"%s is not bound in the %s scope", quote(rest), l.Name)
		}
	}

	for _, l := range s.layers {
		if v, ok := l.Vars[name]; ok {
			return v, nil
		}
	}
	return 0, newError(KindUnboundIdentifier, StageEvaluate, NoPos, "%s is not bound", quote(name))
}
