// Command ascent evaluates, checks and stores numeric expressions.
//
//	ascent eval 'clamp(q.speed * 2, 0, 10) + hp' -q speed=3 -v hp=10
//	ascent check 'sin(x' 'max(1)'
//	ascent lib add dps 'dmg * rate' --db game.db
//	ascent parse -- '-x ^ 2'
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
)

// newApp builds the command-line application writing output to printer.
func newApp(printer Printer) (*kingpin.Application, *GlobalConfig) {
	app := kingpin.New("ascent", "Evaluate numeric expressions against query and general variables.")

	globals := &GlobalConfig{}
	// Register globals first so their PreAction runs before others.
	globals.Register(app)

	(&EvalCommand{}).Register(app, globals, printer)
	(&CheckCommand{}).Register(app, globals, printer)
	(&ParseCommand{}).Register(app, globals, printer)
	(&FuncsCommand{}).Register(app, printer)
	(&BatchCommand{}).Register(app, globals, printer)
	(&LibCommand{}).Register(app, globals, printer)

	return app, globals
}

func main() {
	app, _ := newApp(StdoutPrinter{})
	kingpin.MustParse(app.Parse(os.Args[1:]))
}
