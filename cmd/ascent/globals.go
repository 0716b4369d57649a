package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/randalmurphal/ascent/pkg/ascent"
	"github.com/randalmurphal/ascent/pkg/ascent/config"
)

// cliLogLevel is used when neither --log.level nor a settings file says
// otherwise, so engine start-up is quiet.
const cliLogLevel = "warn"

// GlobalConfig holds application-wide flags and the engine built from them.
type GlobalConfig struct {
	configFile string
	logLevel   string
	logFormat  string

	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer

	settings config.Settings
	logger   *slog.Logger
	engine   *ascent.Engine
}

// Register adds the global flags and builds the engine before any command
// action runs.
func (c *GlobalConfig) Register(app *kingpin.Application) {
	app.Flag("config", "Engine settings file (.yaml, .yml or .json).").Envar("ASCENT_CONFIG").StringVar(&c.configFile)
	app.Flag("log.level", "Log level: debug, info, warn or error. Overrides the settings file.").StringVar(&c.logLevel)
	app.Flag("log.format", "Log format.").Default("text").EnumVar(&c.logFormat, "text", "json")
	app.PreAction(c.setup)
}

func (c *GlobalConfig) setup(_ *kingpin.ParseContext) error {
	s := config.Default()
	s.LogLevel = cliLogLevel
	if c.configFile != "" {
		loaded, err := config.FromFile(c.configFile)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		s = loaded
	}
	if c.logLevel != "" {
		s.LogLevel = c.logLevel
	}
	level, err := config.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}

	out := c.LogOutput
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.logFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	c.logger = slog.New(handler)

	engine, err := ascent.NewEngineFromSettings(s, c.logger)
	if err != nil {
		return err
	}
	c.settings = s
	c.engine = engine
	return nil
}

// Engine returns the engine built for this invocation.
func (c *GlobalConfig) Engine() *ascent.Engine {
	return c.engine
}

// Logger returns the logger built for this invocation.
func (c *GlobalConfig) Logger() *slog.Logger {
	return c.logger
}
