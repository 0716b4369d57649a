package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestApp builds a fresh application whose logs go to logs.
func newTestApp(logs *bytes.Buffer) (*kingpin.Application, *BufferedPrinter) {
	printer := &BufferedPrinter{}
	app, globals := newApp(printer)
	globals.LogOutput = logs
	return app, printer
}

func run(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	var logs bytes.Buffer
	app, printer := newTestApp(&logs)
	_, err := app.Parse(args)
	return printer.Lines, err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"arithmetic", []string{"eval", "1 + 2 * 3"}, []string{"7"}},
		{"variables", []string{"eval", "q.speed * 2 + hp", "-q", "speed=3", "-v", "hp=10"}, []string{"16"}},
		{"query shadows", []string{"eval", "x", "--query", "x=1", "--var", "x=2"}, []string{"1"}},
		{"float32 result", []string{"eval", "1 / 3"}, []string{"0.33333334"}},
		{"verbose", []string{"eval", "--verbose", "1+2*3"}, []string{"(1 + (2 * 3)) =", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	lines, err := run(t, "eval", "1 / 0")
	require.ErrorIs(t, err, expr.ErrDivisionByZero)
	assert.Equal(t, []string{"  1 / 0", "    ^"}, lines)

	_, err = run(t, "eval", "x")
	require.ErrorIs(t, err, expr.ErrUnboundIdentifier)

	_, err = run(t, "eval", "x", "-q", "x=abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `--query x="abc"`)
}

func TestCaretLines_CountsCharacters(t *testing.T) {
	lines, err := run(t, "eval", "1 + é")
	require.ErrorIs(t, err, expr.ErrLex)
	assert.Equal(t, []string{"  1 + é", "      ^"}, lines)

	// "π" is two bytes; the caret sits under the third character.
	perr := &expr.Error{Kind: expr.KindParse, Stage: expr.StageParse, Pos: len("π "), Msg: "unexpected x"}
	assert.Equal(t, []string{"  π x", "    ^"}, caretLines("π x", perr))

	assert.Nil(t, caretLines("1", &expr.Error{Kind: expr.KindParse, Stage: expr.StageParse, Pos: expr.NoPos}))
}

func TestEval_VarsFile(t *testing.T) {
	path := writeFile(t, "vars.yaml", "query:\n  speed: 2\nvariables:\n  hp: 5\n")

	lines, err := run(t, "eval", "speed * hp", "--vars-file", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, lines)

	// Inline bindings override the file.
	lines, err = run(t, "eval", "speed * hp", "--vars-file", path, "-q", "speed=4")
	require.NoError(t, err)
	assert.Equal(t, []string{"20"}, lines)
}

func TestGlobals_Settings(t *testing.T) {
	settings := writeFile(t, "settings.yaml", "max_depth: 2\nlog_level: debug\n")

	var logs bytes.Buffer
	app, _ := newTestApp(&logs)
	_, err := app.Parse([]string{"--config", settings, "--log.format", "json", "eval", "((1))"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"msg":"evaluation completed"`)

	_, err = run(t, "--config", settings, "eval", "(((1)))")
	require.ErrorIs(t, err, expr.ErrNestingTooDeep)

	bad := writeFile(t, "bad.yaml", "max_depth: -1\n")
	_, err = run(t, "--config", bad, "eval", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load settings")

	_, err = run(t, "--log.level", "loud", "eval", "1")
	require.Error(t, err)
}

func TestGlobals_QuietByDefault(t *testing.T) {
	var logs bytes.Buffer
	app, _ := newTestApp(&logs)
	_, err := app.Parse([]string{"eval", "1"})
	require.NoError(t, err)
	assert.Empty(t, logs.String())
}

func TestCheck(t *testing.T) {
	lines, err := run(t, "check", "1 + 1", "sin(x)")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok: 2 expression(s)"}, lines)

	lines, err = run(t, "check", "1 +", "ok", "nope(1)")
	require.Error(t, err)
	assert.Equal(t, "2 of 3 expression(s) failed", err.Error())
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "expression 1:"))
	assert.True(t, strings.HasPrefix(lines[1], "expression 3:"))

	_, err = run(t, "check")
	require.Error(t, err)
}

func TestCheck_File(t *testing.T) {
	path := writeFile(t, "exprs.txt", "# damage\ndmg * rate\n\nmax(a, b)\n")
	lines, err := run(t, "check", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok: 2 expression(s)"}, lines)
}

func TestParse(t *testing.T) {
	// "--" stops flag parsing so a leading '-' is part of the expression.
	lines, err := run(t, "parse", "--identifiers", "--", "-2^2 + f")
	require.NoError(t, err)
	assert.Equal(t, []string{"((-(2 ^ 2)) + f)", "identifiers: f"}, lines)

	lines, err = run(t, "parse", "--tree", "max(a, 1)")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"call max/2 @0",
		"  ident a @4",
		"  number 1 @7",
	}, lines)

	lines, err = run(t, "parse", "(1 + ")
	require.ErrorIs(t, err, expr.ErrParse)
	assert.Len(t, lines, 2)
}

func TestFuncs(t *testing.T) {
	lines, err := run(t, "funcs")
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.Equal(t, "# functions version "+expr.FunctionsVersion, lines[0])
	assert.Len(t, lines, len(expr.Functions())+1)

	lines, err = run(t, "funcs", "--format", "json")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	var infos []expr.FunctionInfo
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &infos))
	assert.Equal(t, expr.Functions(), infos)

	lines, err = run(t, "funcs", "--format", "yaml")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "name: abs")
}

func TestBatch(t *testing.T) {
	path := writeFile(t, "batch.yaml", `
query:
  speed: 3
variables:
  hp: 100
expressions:
  - name: dash
    source: speed * 2
  - name: low
    source: hp < 50
  - source: hp / 0
`)

	lines, err := run(t, "batch", path, "--concurrency", "2")
	require.Error(t, err)
	assert.Equal(t, "1 of 3 expression(s) failed", err.Error())
	require.Len(t, lines, 3)
	assert.Equal(t, "dash = 6", lines[0])
	assert.Equal(t, "low = 0", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "#3: error:"))

	ok := writeFile(t, "ok.yaml", "expressions:\n  - name: a\n    source: x + 1\n")
	lines, err = run(t, "batch", ok, "-v", "x=1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a = 2"}, lines)
}

func TestLib(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lib.db")

	lines, err := run(t, "lib", "--db", db, "add", "dps", "dmg * rate", "-d", "damage per second")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "saved dps ("))

	_, err = run(t, "lib", "--db", db, "add", "broken", "max(1)")
	require.ErrorIs(t, err, expr.ErrArityMismatch)

	lines, err = run(t, "lib", "--db", db, "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"dps\tdmg * rate\t# damage per second"}, lines)

	lines, err = run(t, "lib", "--db", db, "show", "dps")
	require.NoError(t, err)
	assert.Equal(t, "name:        dps", lines[0])
	assert.Contains(t, lines, "source:      dmg * rate")

	lines, err = run(t, "lib", "--db", db, "run", "dps", "-v", "dmg=10", "-v", "rate=1.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"15"}, lines)

	lines, err = run(t, "lib", "--db", db, "export")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "source: dmg * rate")

	exported := filepath.Join(t.TempDir(), "lib.yaml")
	_, err = run(t, "lib", "--db", db, "export", exported)
	require.NoError(t, err)

	lines, err = run(t, "lib", "--db", db, "rm", "dps")
	require.NoError(t, err)
	assert.Equal(t, []string{"removed dps"}, lines)

	_, err = run(t, "lib", "--db", db, "show", "dps")
	require.Error(t, err)

	lines, err = run(t, "lib", "--db", db, "import", exported)
	require.NoError(t, err)
	assert.Equal(t, []string{"imported 1 expression(s)"}, lines)

	lines, err = run(t, "lib", "--db", db, "run", "dps")
	require.ErrorIs(t, err, expr.ErrUnboundIdentifier)
	assert.Equal(t, []string{"  dmg * rate", "  ^"}, lines)
}

func TestPrinters(t *testing.T) {
	var buf bytes.Buffer
	StdoutPrinter{W: &buf}.PrintLine("hello")
	assert.Equal(t, "hello\n", buf.String())

	p := &BufferedPrinter{}
	p.PrintLine("a")
	p.Reset()
	assert.Empty(t, p.Lines)
}
