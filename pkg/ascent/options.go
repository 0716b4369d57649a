package ascent

import (
	"log/slog"

	"github.com/randalmurphal/ascent/pkg/ascent/config"
	"github.com/randalmurphal/ascent/pkg/ascent/expr"
	"github.com/randalmurphal/ascent/pkg/ascent/observability"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	maxDepth       int
	maxHeight      int
	cacheSize      int
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	metricsEnabled bool
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		maxDepth:  expr.DefaultMaxDepth,
		maxHeight: expr.DefaultMaxHeight,
		cacheSize: config.DefaultCacheSize,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Default: 256. Values below 1 are ignored.
//
// Example:
//
//	engine := ascent.NewEngine(ascent.WithMaxDepth(32))
func WithMaxDepth(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithMaxHeight sets the maximum syntax tree height accepted by the
// parser. Every operator of a chain like 1+1+1 adds one level.
// Default: 10000. Values below 1 are ignored.
func WithMaxHeight(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxHeight = n
		}
	}
}

// WithCacheSize sets how many compiled programs the engine keeps, keyed by
// source text. Zero disables caching; negative values are ignored.
// Default: 512
func WithCacheSize(n int) Option {
	return func(c *engineConfig) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithLogger enables structured logging of compilations and evaluations.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics through the global meter
// provider.
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		c.metricsEnabled = enabled
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder enables metrics through a specific recorder, such
// as one built by observability.NewMetricsRecorderWithProvider.
func WithMetricsRecorder(rec observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if rec == nil {
			return
		}
		c.metricsEnabled = true
		c.metrics = rec
	}
}

// WithTracing enables OpenTelemetry spans through the global tracer
// provider.
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager enables tracing through a specific span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		if sm == nil {
			return
		}
		c.tracingEnabled = true
		c.spans = sm
	}
}

// NewEngineFromSettings validates s and builds an engine from it.
// logger may be nil; it is used as given, so filter by s.Level() when
// building its handler.
func NewEngineFromSettings(s config.Settings, logger *slog.Logger) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return NewEngine(
		WithMaxDepth(s.MaxDepth),
		WithMaxHeight(s.MaxHeight),
		WithCacheSize(s.CacheSize),
		WithLogger(logger),
		WithMetrics(s.Metrics),
		WithTracing(s.Tracing),
	), nil
}
