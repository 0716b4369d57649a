/*
Package ascent evaluates small numeric expressions against layered
variable scopes.

# Quick Start

	v, err := ascent.Evaluate("clamp(q.speed * 2, 0, 10) + hp",
	    map[string]float32{"speed": 3},   // query variables
	    map[string]float32{"hp": 10})     // general variables
	if err != nil {
	    return err
	}
	// v == 16

All arithmetic is float32. Comparisons and logical operators yield 1 or 0.
Identifiers are looked up in the query variables first, then in the
general variables; "q.x" and "v.x" (or "query.x" and "variable.x") address
a single layer.

# Engines

The package-level functions share one process-wide engine, built once by
Init or on first use:

	ascent.Init(ascent.WithMaxDepth(64), ascent.WithLogger(logger))
	if !ascent.Initialized() { ... }

Hosts that need different settings create their own:

	engine := ascent.NewEngine(
	    ascent.WithCacheSize(1024),
	    ascent.WithMetrics(true),
	    ascent.WithTracing(true),
	)
	v, err := engine.EvaluateMap(ctx, src, query, vars)

An engine caches compiled programs by source text, so evaluating the same
expression repeatedly parses it once. Stats reports its counters.

# Errors

Every failure is an *expr.Error that wraps one of the sentinels in package
expr, so callers can branch with errors.Is:

	_, err := ascent.Evaluate("1 / 0", nil, nil)
	errors.Is(err, expr.ErrDivisionByZero) // true

Syntax problems, unknown functions, wrong argument counts and excessive
nesting are reported by Check without evaluating anything.

# Concurrency

Engines and compiled programs are safe for concurrent use. Evaluation never
blocks and never modifies the variable maps it is given. EvaluateAll runs a
batch with bounded concurrency.
*/
package ascent
