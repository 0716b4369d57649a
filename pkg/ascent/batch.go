package ascent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// DefaultConcurrency bounds EvaluateAll when no limit is given.
const DefaultConcurrency = 8

// Request is one expression to evaluate in a batch.
type Request struct {
	Name   string
	Source string
	Scope  expr.Scope
}

// Result is the outcome of one Request. Err holds the expression's own
// failure; a failing expression does not stop the batch.
type Result struct {
	Name   string
	Source string
	Value  float32
	Err    error
}

// EvaluateAll evaluates reqs concurrently, at most limit at a time, and
// returns results in request order. A limit below 1 uses
// DefaultConcurrency. The only error returned is the context's, when it is
// done before every request has been started.
func (e *Engine) EvaluateAll(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	started := 0
	for i, req := range reqs {
		if gctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := e.Evaluate(gctx, req.Source, req.Scope)
			results[i] = Result{Name: req.Name, Source: req.Source, Value: v, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if started < len(reqs) {
		return results, context.Cause(gctx)
	}
	return results, nil
}
