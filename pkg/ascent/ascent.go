package ascent

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// Process-wide state behind Init. The default engine is built exactly once.
var (
	initOnce      sync.Once
	initialized   atomic.Bool
	defaultEngine *Engine
)

// Init builds the process-wide engine used by the package-level functions.
// Only the first call has any effect; later calls, and their options, are
// ignored. It reports whether this call performed the initialization.
//
// Calling Init is optional: the package-level functions initialize with
// defaults on first use.
func Init(opts ...Option) bool {
	first := false
	initOnce.Do(func() {
		defaultEngine = NewEngine(opts...)
		initialized.Store(true)
		first = true
	})
	return first
}

// Initialized reports whether the process-wide engine has been built.
func Initialized() bool {
	return initialized.Load()
}

// Default returns the process-wide engine, initializing it if needed.
func Default() *Engine {
	Init()
	return defaultEngine
}

// Evaluate evaluates src with the process-wide engine. Query variables
// shadow general variables; either map may be nil.
//
// Example:
//
//	v, err := ascent.Evaluate("q.speed * 2 + hp",
//	    map[string]float32{"speed": 3},
//	    map[string]float32{"hp": 10})
//	// v == 16
func Evaluate(src string, query, vars map[string]float32) (float32, error) {
	return Default().EvaluateMap(context.Background(), src, query, vars)
}

// Check reports whether src compiles with the process-wide engine.
func Check(src string) error {
	return Default().Check(src)
}

// Functions lists the built-in functions, sorted by name.
func Functions() []expr.FunctionInfo {
	return expr.Functions()
}
