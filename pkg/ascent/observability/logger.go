// Package observability provides logging, metrics and tracing for ascent
// evaluations.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// maxLoggedExpression caps how much of an expression is copied into a log
// record.
const maxLoggedExpression = 256

// EnrichLogger adds the evaluation ID to a logger.
func EnrichLogger(logger *slog.Logger, evalID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("eval_id", evalID))
}

// LogEvaluateStart logs the start of an evaluation.
func LogEvaluateStart(logger *slog.Logger, source string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("expression", truncate(source)),
	)
}

// LogEvaluateComplete logs a successful evaluation.
func LogEvaluateComplete(logger *slog.Logger, source string, result float32, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation completed",
		slog.String("expression", truncate(source)),
		slog.Float64("result", float64(result)),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvaluateError logs a failed evaluation. Failures caused by the caller's
// input are expected, so they are logged at info level.
func LogEvaluateError(logger *slog.Logger, source string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("expression", truncate(source)),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	}
	var e *expr.Error
	if errors.As(err, &e) {
		attrs = append(attrs,
			slog.String("kind", e.Kind.String()),
			slog.String("stage", e.Stage.String()),
			slog.Int("pos", e.Pos),
		)
	}
	logger.Info("evaluation failed", attrs...)
}

// LogCompile logs a compilation and whether it was served from cache.
func LogCompile(logger *slog.Logger, source string, cached bool) {
	if logger == nil {
		return
	}
	logger.Debug("expression compiled",
		slog.String("expression", truncate(source)),
		slog.Bool("cached", cached),
	)
}

// LogInit logs engine initialization settings.
func LogInit(logger *slog.Logger, maxDepth, cacheSize int) {
	if logger == nil {
		return
	}
	logger.Info("ascent engine initialized",
		slog.Int("max_depth", maxDepth),
		slog.Int("cache_size", cacheSize),
		slog.String("functions_version", expr.FunctionsVersion),
	)
}

// Stopwatch times one evaluation. The same reading feeds the latency
// histogram and the duration_ms log attribute.
type Stopwatch struct {
	start time.Time
}

// StartStopwatch starts timing now.
func StartStopwatch() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since the stopwatch started.
func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Milliseconds converts d to fractional milliseconds for log records.
func Milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// truncate shortens s to at most maxLoggedExpression bytes without
// splitting a UTF-8 sequence.
func truncate(s string) string {
	if len(s) <= maxLoggedExpression {
		return s
	}
	cut := maxLoggedExpression
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
