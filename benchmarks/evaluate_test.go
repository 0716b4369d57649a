package benchmarks

import (
	"context"
	"strings"
	"testing"

	"github.com/randalmurphal/ascent/pkg/ascent"
	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

const typical = "clamp(q.speed * 2 + sin(t) ^ 2, 0, 10) + (hp > 50 && !dead) * bonus"

var (
	benchQuery = map[string]float32{"speed": 3, "t": 0.5}
	benchVars  = map[string]float32{"hp": 80, "dead": 0, "bonus": 4}
)

// BenchmarkTokenize measures lexing a typical expression.
func BenchmarkTokenize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Tokenize(typical)
	}
}

// BenchmarkParse measures lexing and parsing a typical expression.
func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Parse(typical)
	}
}

// BenchmarkParse_Deep measures parsing 200 levels of parentheses.
func BenchmarkParse_Deep(b *testing.B) {
	src := strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200)
	for i := 0; i < b.N; i++ {
		_, _ = expr.Parse(src)
	}
}

// BenchmarkProgram_Eval measures evaluating an already compiled program.
func BenchmarkProgram_Eval(b *testing.B) {
	prog, err := expr.Compile(typical)
	if err != nil {
		b.Fatal(err)
	}
	scope := expr.StandardScope(benchQuery, benchVars)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = prog.Eval(scope)
	}
}

// BenchmarkEvaluate_OneShot measures the full pipeline with no caching.
func BenchmarkEvaluate_OneShot(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Evaluate(typical, benchQuery, benchVars)
	}
}

// BenchmarkEngine_Cached measures engine evaluation with a warm program cache.
func BenchmarkEngine_Cached(b *testing.B) {
	engine := ascent.NewEngine()
	ctx := context.Background()
	scope := expr.StandardScope(benchQuery, benchVars)
	_, _ = engine.Evaluate(ctx, typical, scope)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Evaluate(ctx, typical, scope)
	}
}

// BenchmarkEngine_Uncached baseline with the program cache disabled.
func BenchmarkEngine_Uncached(b *testing.B) {
	engine := ascent.NewEngine(ascent.WithCacheSize(0))
	ctx := context.Background()
	scope := expr.StandardScope(benchQuery, benchVars)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Evaluate(ctx, typical, scope)
	}
}

// BenchmarkEngine_EvaluateAll measures a 64 request batch.
func BenchmarkEngine_EvaluateAll(b *testing.B) {
	engine := ascent.NewEngine()
	ctx := context.Background()
	scope := expr.StandardScope(benchQuery, benchVars)
	reqs := make([]ascent.Request, 64)
	for i := range reqs {
		reqs[i] = ascent.Request{Source: typical, Scope: scope}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.EvaluateAll(ctx, reqs, ascent.DefaultConcurrency)
	}
}
