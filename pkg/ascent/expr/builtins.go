package expr

import (
	"math"
	"strings"

	"github.com/randalmurphal/ascent/pkg/ascent/registry"
)

// FunctionsVersion identifies the built-in function set. It changes whenever
// a function is added, removed, or changes arity or semantics.
const FunctionsVersion = "1"

// functionNamespace is an optional prefix accepted on every function name.
const functionNamespace = "math."

// Function describes a built-in function.
type Function struct {
	Name  string
	Arity int
	Doc   string
	call  func(args []float32) (float32, error)
}

// FunctionInfo is the public description of a built-in.
type FunctionInfo struct {
	Name  string `json:"name" yaml:"name"`
	Arity int    `json:"arity" yaml:"arity"`
	Doc   string `json:"doc" yaml:"doc"`
}

var functions = registry.New[string, *Function]()

func init() {
	for _, fn := range builtins() {
		functions.MustRegister(fn.Name, fn)
	}
	functions.Freeze()
}

// LookupFunction returns the built-in with the given name. The "math."
// prefix is accepted and ignored.
func LookupFunction(name string) (*Function, bool) {
	return functions.Get(strings.TrimPrefix(name, functionNamespace))
}

// Functions lists the built-ins sorted by name.
func Functions() []FunctionInfo {
	names := functions.SortedKeys(func(a, b string) bool { return a < b })
	infos := make([]FunctionInfo, 0, len(names))
	for _, name := range names {
		fn, _ := functions.Get(name)
		infos = append(infos, FunctionInfo{Name: fn.Name, Arity: fn.Arity, Doc: fn.Doc})
	}
	return infos
}

func domainErr(format string, args ...any) error {
	return newError(KindDomain, StageEvaluate, NoPos, format, args...)
}

func unary(name, doc string, f func(float64) float64) *Function {
	return &Function{
		Name:  name,
		Arity: 1,
		Doc:   doc,
		call: func(args []float32) (float32, error) {
			return float32(f(float64(args[0]))), nil
		},
	}
}

func binary(name, doc string, f func(a, b float64) float64) *Function {
	return &Function{
		Name:  name,
		Arity: 2,
		Doc:   doc,
		call: func(args []float32) (float32, error) {
			return float32(f(float64(args[0]), float64(args[1]))), nil
		},
	}
}

func builtins() []*Function {
	return []*Function{
		unary("abs", "absolute value", math.Abs),
		unary("floor", "largest integer not greater than x", math.Floor),
		unary("ceil", "smallest integer not less than x", math.Ceil),
		unary("round", "nearest integer, halves away from zero", math.Round),
		unary("trunc", "integer part of x", math.Trunc),
		unary("exp", "e raised to x", math.Exp),
		unary("sin", "sine of x radians", math.Sin),
		unary("cos", "cosine of x radians", math.Cos),
		unary("tan", "tangent of x radians", math.Tan),
		unary("atan", "arc tangent in radians", math.Atan),
		{
			Name: "sign", Arity: 1, Doc: "-1, 0 or 1 according to the sign of x",
			call: func(args []float32) (float32, error) {
				switch x := args[0]; {
				case x > 0:
					return 1, nil
				case x < 0:
					return -1, nil
				default:
					return x, nil
				}
			},
		},
		{
			Name: "sqrt", Arity: 1, Doc: "square root, x must be >= 0",
			call: func(args []float32) (float32, error) {
				if args[0] < 0 {
					return 0, domainErr("sqrt of negative number %g", args[0])
				}
				return float32(math.Sqrt(float64(args[0]))), nil
			},
		},
		{
			Name: "ln", Arity: 1, Doc: "natural logarithm, x must be > 0",
			call: func(args []float32) (float32, error) {
				if args[0] <= 0 {
					return 0, domainErr("ln of non-positive number %g", args[0])
				}
				return float32(math.Log(float64(args[0]))), nil
			},
		},
		{
			Name: "log10", Arity: 1, Doc: "base-10 logarithm, x must be > 0",
			call: func(args []float32) (float32, error) {
				if args[0] <= 0 {
					return 0, domainErr("log10 of non-positive number %g", args[0])
				}
				return float32(math.Log10(float64(args[0]))), nil
			},
		},
		{
			Name: "asin", Arity: 1, Doc: "arc sine in radians, x in [-1, 1]",
			call: func(args []float32) (float32, error) {
				if args[0] < -1 || args[0] > 1 {
					return 0, domainErr("asin argument %g outside [-1, 1]", args[0])
				}
				return float32(math.Asin(float64(args[0]))), nil
			},
		},
		{
			Name: "acos", Arity: 1, Doc: "arc cosine in radians, x in [-1, 1]",
			call: func(args []float32) (float32, error) {
				if args[0] < -1 || args[0] > 1 {
					return 0, domainErr("acos argument %g outside [-1, 1]", args[0])
				}
				return float32(math.Acos(float64(args[0]))), nil
			},
		},
		binary("atan2", "arc tangent of y/x in radians", math.Atan2),
		binary("pow", "x raised to y", math.Pow),
		binary("min", "smaller of two values", math.Min),
		binary("max", "larger of two values", math.Max),
		{
			Name: "mod", Arity: 2, Doc: "remainder of x/y with the sign of x",
			call: func(args []float32) (float32, error) {
				if args[1] == 0 {
					return 0, newError(KindDivisionByZero, StageEvaluate, NoPos, "mod by zero")
				}
				return float32(math.Mod(float64(args[0]), float64(args[1]))), nil
			},
		},
		{
			Name: "clamp", Arity: 3, Doc: "x limited to [lo, hi]",
			call: func(args []float32) (float32, error) {
				x, lo, hi := args[0], args[1], args[2]
				if lo > hi {
					return 0, domainErr("clamp bounds reversed: %g > %g", lo, hi)
				}
				return min(max(x, lo), hi), nil
			},
		},
		{
			Name: "lerp", Arity: 3, Doc: "linear interpolation a + (b - a) * t",
			call: func(args []float32) (float32, error) {
				a, b, t := args[0], args[1], args[2]
				return a + float32(float32(b-a)*t), nil
			},
		},
	}
}
