package ascent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
	"github.com/randalmurphal/ascent/pkg/ascent/observability"
)

// Engine compiles and evaluates expressions with a fixed configuration.
// It caches compiled programs by source text. An Engine is safe for
// concurrent use.
type Engine struct {
	cfg   engineConfig
	cache *lru.Cache[string, *expr.Program]

	evaluations atomic.Uint64
	failures    atomic.Uint64
	compiles    atomic.Uint64
	cacheHits   atomic.Uint64
}

// Stats is a snapshot of an engine's counters.
type Stats struct {
	// Evaluations counts Evaluate calls that ran, successful or not.
	Evaluations uint64 `json:"evaluations" yaml:"evaluations"`
	// Failures counts evaluations that returned an error.
	Failures uint64 `json:"failures" yaml:"failures"`
	// Compiles counts sources that were parsed.
	Compiles uint64 `json:"compiles" yaml:"compiles"`
	// CacheHits counts compile requests served from the cache.
	CacheHits uint64 `json:"cache_hits" yaml:"cache_hits"`
	// Cached is the number of programs currently cached.
	Cached int `json:"cached" yaml:"cached"`
}

// NewEngine creates an engine.
//
// Example:
//
//	engine := ascent.NewEngine(
//	    ascent.WithMaxDepth(64),
//	    ascent.WithLogger(slog.Default()),
//	)
//	v, err := engine.EvaluateMap(ctx, "q.speed * 2", map[string]float32{"speed": 3}, nil)
func NewEngine(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{cfg: cfg}
	if cfg.cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		e.cache, _ = lru.New[string, *expr.Program](cfg.cacheSize)
	}
	observability.LogInit(cfg.logger, cfg.maxDepth, cfg.cacheSize)
	return e
}

// MaxDepth returns the engine's nesting limit.
func (e *Engine) MaxDepth() int {
	return e.cfg.maxDepth
}

// MaxHeight returns the engine's syntax tree height limit.
func (e *Engine) MaxHeight() int {
	return e.cfg.maxHeight
}

// Compile parses src, or returns the cached program for it.
func (e *Engine) Compile(src string) (*expr.Program, error) {
	return e.compile(context.Background(), src, e.cfg.logger)
}

// Check reports whether src parses, without evaluating it. Unknown
// functions and wrong argument counts are reported here.
func (e *Engine) Check(src string) error {
	_, err := e.Compile(src)
	return err
}

// CheckAll checks every source and reports all failures together, each
// labelled with its 1-based index.
func (e *Engine) CheckAll(sources ...string) error {
	var err error
	for i, src := range sources {
		if cerr := e.Check(src); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("expression %d: %w", i+1, cerr))
		}
	}
	return err
}

// Evaluate compiles src and evaluates it against scope.
//
// The context carries trace spans only; evaluation itself never blocks.
// A context that is already done is reported without evaluating.
func (e *Engine) Evaluate(ctx context.Context, src string, scope expr.Scope) (result float32, err error) {
	if cerr := ctx.Err(); cerr != nil {
		return 0, cerr
	}

	watch := observability.StartStopwatch()
	logger := e.cfg.logger
	var evalID string
	if logger != nil || e.cfg.tracingEnabled {
		evalID = uuid.NewString()
		logger = observability.EnrichLogger(logger, evalID)
	}
	observability.LogEvaluateStart(logger, src)

	if e.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = e.cfg.spans.StartEvaluateSpan(ctx, src, evalID)
		defer func() {
			e.cfg.spans.EndSpanWithError(span, err)
		}()
	}

	prog, err := e.compile(ctx, src, logger)
	if err == nil {
		result, err = prog.Eval(scope)
	}

	duration := watch.Elapsed()
	e.evaluations.Inc()
	if err != nil {
		e.failures.Inc()
		result = 0
	}
	e.cfg.metrics.RecordEvaluation(ctx, duration, err)

	durationMs := observability.Milliseconds(duration)
	if err != nil {
		observability.LogEvaluateError(logger, src, err, durationMs)
	} else {
		observability.LogEvaluateComplete(logger, src, result, durationMs)
	}
	return result, err
}

// EvaluateMap evaluates src with query variables shadowing general
// variables. Either map may be nil.
func (e *Engine) EvaluateMap(ctx context.Context, src string, query, vars map[string]float32) (float32, error) {
	return e.Evaluate(ctx, src, expr.StandardScope(query, vars))
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Evaluations: e.evaluations.Load(),
		Failures:    e.failures.Load(),
		Compiles:    e.compiles.Load(),
		CacheHits:   e.cacheHits.Load(),
	}
	if e.cache != nil {
		s.Cached = e.cache.Len()
	}
	return s
}

// Purge empties the program cache.
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func (e *Engine) compile(ctx context.Context, src string, logger *slog.Logger) (*expr.Program, error) {
	if e.cache != nil {
		if prog, ok := e.cache.Get(src); ok {
			e.cacheHits.Inc()
			e.cfg.metrics.RecordCompile(ctx, true)
			e.cfg.spans.AddSpanEvent(ctx, "cache.hit")
			observability.LogCompile(logger, src, true)
			return prog, nil
		}
	}

	var span trace.Span
	if e.cfg.tracingEnabled {
		ctx, span = e.cfg.spans.StartCompileSpan(ctx)
	}
	prog, err := expr.Compile(src, expr.WithMaxDepth(e.cfg.maxDepth), expr.WithMaxHeight(e.cfg.maxHeight))
	if span != nil {
		if err == nil {
			span.SetAttributes(attribute.Int("ascent.identifiers", len(prog.Identifiers())))
		}
		e.cfg.spans.EndSpanWithError(span, err)
	}

	e.compiles.Inc()
	e.cfg.metrics.RecordCompile(ctx, false)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Add(src, prog)
	}
	observability.LogCompile(logger, src, false)
	return prog, nil
}
