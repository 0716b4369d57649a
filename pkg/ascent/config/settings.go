package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// Defaults for engine settings.
const (
	DefaultMaxDepth  = expr.DefaultMaxDepth
	DefaultMaxHeight = expr.DefaultMaxHeight
	DefaultCacheSize = 512
	DefaultLogLevel  = "info"
)

// Setting keys as they appear in YAML and JSON files.
const (
	keyMaxDepth  = "max_depth"
	keyMaxHeight = "max_height"
	keyCacheSize = "cache_size"
	keyMetrics   = "metrics"
	keyTracing   = "tracing"
	keyLogLevel  = "log_level"
)

// ErrInvalid is returned (wrapped) by Validate and the loaders when the
// settings cannot be used.
var ErrInvalid = errors.New("invalid settings")

// Settings configures an evaluation engine.
type Settings struct {
	// MaxDepth bounds expression nesting.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`

	// MaxHeight bounds the height of the syntax tree, counting every
	// operator of a flat chain.
	MaxHeight int `yaml:"max_height" json:"max_height"`

	// CacheSize is the number of compiled programs kept. Zero disables
	// the cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// Metrics enables OpenTelemetry metrics via the global meter provider.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables OpenTelemetry spans via the global tracer provider.
	Tracing bool `yaml:"tracing" json:"tracing"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		MaxDepth:  DefaultMaxDepth,
		MaxHeight: DefaultMaxHeight,
		CacheSize: DefaultCacheSize,
		LogLevel:  DefaultLogLevel,
	}
}

// Validate reports every problem with s at once.
func (s Settings) Validate() error {
	var err error
	if s.MaxDepth <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive, got %d", keyMaxDepth, s.MaxDepth))
	}
	if s.MaxHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive, got %d", keyMaxHeight, s.MaxHeight))
	}
	if s.CacheSize < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative, got %d", keyCacheSize, s.CacheSize))
	}
	if _, lerr := ParseLevel(s.LogLevel); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level returns the slog level for s.LogLevel, or info if it is invalid.
func (s Settings) Level() slog.Level {
	l, err := ParseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps a level name to a slog level. The empty string is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%s: unknown level %q (want debug, info, warn or error)", keyLogLevel, name)
	}
}

// SettingsFrom decodes settings from v on top of the defaults. Unknown keys
// and mistyped values are reported together.
func SettingsFrom(v Values) (Settings, error) {
	s := Default()
	var err error
	var e error

	s.MaxDepth, e = v.Int(keyMaxDepth, s.MaxDepth)
	err = multierr.Append(err, e)
	s.MaxHeight, e = v.Int(keyMaxHeight, s.MaxHeight)
	err = multierr.Append(err, e)
	s.CacheSize, e = v.Int(keyCacheSize, s.CacheSize)
	err = multierr.Append(err, e)
	s.Metrics, e = v.Bool(keyMetrics, s.Metrics)
	err = multierr.Append(err, e)
	s.Tracing, e = v.Bool(keyTracing, s.Tracing)
	err = multierr.Append(err, e)
	s.LogLevel, e = v.String(keyLogLevel, s.LogLevel)
	err = multierr.Append(err, e)

	for _, k := range v.Unknown(keyMaxDepth, keyMaxHeight, keyCacheSize, keyMetrics, keyTracing, keyLogLevel) {
		err = multierr.Append(err, fmt.Errorf("unknown setting %q", k))
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if verr := s.Validate(); verr != nil {
		return Settings{}, verr
	}
	return s, nil
}
