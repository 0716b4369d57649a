/*
Package config loads engine settings and variable bindings from YAML or JSON.

# Settings

Settings configure an evaluation engine:

	max_depth: 256     # maximum expression nesting
	max_height: 10000  # maximum syntax tree height
	cache_size: 512    # compiled programs kept, 0 disables
	metrics: false     # OpenTelemetry metrics
	tracing: false     # OpenTelemetry spans
	log_level: info    # debug, info, warn, error

Load them with defaults applied and validated:

	s, err := config.FromFile("ascent.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := ascent.NewEngineFromSettings(s, logger)

Unknown keys, mistyped values and out-of-range values are all reported
in one error, which wraps ErrInvalid.

# Variables

Variable files carry the two binding layers:

	query:
	  speed: 3.5
	variables:
	  hp: 100

Values may be any YAML or JSON number, a boolean (1 or 0) or a numeric
string, and must fit in float32:

	vars, err := config.LoadVariables("vars.yaml")
	result, err := prog.Eval(vars.Scope())

# Thread Safety

Settings and Variables are plain values. Values is safe for concurrent
read access as long as the underlying map is not modified.
*/
package config
