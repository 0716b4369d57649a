package expr

import (
	"sort"
	"strings"
)

// Program is a parsed, validated expression ready for repeated evaluation.
// A Program is immutable and safe for concurrent use.
type Program struct {
	source string
	root   Node
	idents []string
}

// Compile parses src into a Program.
func Compile(src string, opts ...Option) (*Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, newError(KindParse, StageParse, len(src), "empty expression")
	}
	root, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return &Program{source: src, root: root, idents: collectIdentifiers(root)}, nil
}

// Eval evaluates the program against scope.
func (p *Program) Eval(scope Scope) (float32, error) {
	return eval(p.root, scope)
}

// Source returns the original expression text.
func (p *Program) Source() string {
	return p.source
}

// Root returns the AST root. Callers must not modify it.
func (p *Program) Root() Node {
	return p.root
}

// Identifiers returns the distinct variable names the program references,
// sorted.
func (p *Program) Identifiers() []string {
	out := make([]string, len(p.idents))
	copy(out, p.idents)
	return out
}

// String returns the canonical form of the program.
func (p *Program) String() string {
	return Format(p.root)
}

func collectIdentifiers(root Node) []string {
	seen := make(map[string]struct{})
	Walk(root, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			seen[id.Name] = struct{}{}
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate compiles and evaluates src in one step. Query variables shadow
// general variables.
func Evaluate(src string, query, vars map[string]float32) (float32, error) {
	prog, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return prog.Eval(StandardScope(query, vars))
}
