package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"(2 + 3) * 4", "((2 + 3) * 4)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "(-(2 ^ 2))"},
		{"2 ^ -1", "(2 ^ (-1))"},
		{"-x * y", "((-x) * y)"},
		{"!a == b", "((!a) == b)"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c", "((a && b) || c)"},
		{"a == b < c", "(a == (b < c))"},
		{"a < b + 1", "(a < (b + 1))"},
		{"7 % 3 * 2", "((7 % 3) * 2)"},
		{"--x", "(-(-x))"},
		{"min(1, 2 + 3)", "min(1, (2 + 3))"},
		{"math.sin(x) ^ 2", "(sin(x) ^ 2)"},
		{"clamp(q.t, 0, 1)", "clamp(q.t, 0, 1)"},
		{"((((1))))", "1"},
		{"0.5", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			node, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(node))
		})
	}
}

func TestParse_NodeShapes(t *testing.T) {
	node, err := Parse("(a + 1)")
	require.NoError(t, err)

	group, ok := node.(*Grouping)
	require.True(t, ok, "got %T", node)
	assert.Equal(t, 0, group.Pos())

	bin, ok := group.Inner.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, OpAdd, bin.Op)
	assert.Equal(t, 3, bin.Pos())
	assert.Equal(t, &Identifier{Name: "a", At: 1}, bin.Left)
	assert.Equal(t, &NumberLiteral{Value: 1, At: 5}, bin.Right)

	node, err = Parse("max(1, 2)")
	require.NoError(t, err)
	call, ok := node.(*FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "max", call.Name)
	assert.Len(t, call.Args, 2)
	require.NotNil(t, call.Fn)
	assert.Equal(t, 2, call.Fn.Arity)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
		pos  int
	}{
		{"dangling operator", "2 +", KindParse, 3},
		{"empty input", "", KindParse, 0},
		{"unclosed paren", "(1 + 2", KindParse, 6},
		{"extra close paren", "1 + 2)", KindParse, 5},
		{"adjacent operands", "1 2", KindParse, 2},
		{"leading infix operator", "* 2", KindParse, 0},
		{"empty group", "()", KindParse, 1},
		{"call missing close", "sqrt(1", KindParse, 6},
		{"trailing comma", "max(1,)", KindParse, 6},
		{"unknown function", "foo(1)", KindUnknownFunction, 0},
		{"too many args", "sqrt(1,2)", KindArityMismatch, 0},
		{"too few args", "1 + max(1)", KindArityMismatch, 4},
		{"lex error surfaces", "1 + #", KindLex, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			e, ok := AsError(err)
			require.True(t, ok, "want *Error, got %T", err)
			assert.Equal(t, tt.kind, e.Kind, "error: %v", err)
			assert.Equal(t, tt.pos, e.Pos, "error: %v", err)
		})
	}
}

func TestParse_ErrorStages(t *testing.T) {
	_, err := Parse("1 + #")
	e, _ := AsError(err)
	assert.Equal(t, StageLex, e.Stage)

	_, err = Parse("1 +")
	e, _ = AsError(err)
	assert.Equal(t, StageParse, e.Stage)

	_, err = Parse("nope(1)")
	e, _ = AsError(err)
	assert.Equal(t, StageParse, e.Stage)
}

func TestParse_MaxDepth(t *testing.T) {
	t.Run("default limit rejects pathological nesting", func(t *testing.T) {
		src := strings.Repeat("(", 10000) + "1" + strings.Repeat(")", 10000)
		_, err := Parse(src)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNestingTooDeep))
		e, _ := AsError(err)
		assert.Equal(t, DefaultMaxDepth, e.Pos, "fails at the first paren past the limit")
	})

	t.Run("custom limit", func(t *testing.T) {
		_, err := Parse("(((1)))", WithMaxDepth(3))
		require.NoError(t, err)

		_, err = Parse("((((1))))", WithMaxDepth(3))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNestingTooDeep))
		e, _ := AsError(err)
		assert.Equal(t, 3, e.Pos)
	})

	t.Run("prefix operators count", func(t *testing.T) {
		_, err := Parse("---1", WithMaxDepth(2))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNestingTooDeep))
	})

	t.Run("exponent chains count", func(t *testing.T) {
		src := "2" + strings.Repeat("^2", 5)
		_, err := Parse(src, WithMaxDepth(4))
		assert.True(t, errors.Is(err, ErrNestingTooDeep))

		_, err = Parse(src, WithMaxDepth(5))
		assert.NoError(t, err)
	})

	t.Run("long flat chains are not nesting", func(t *testing.T) {
		src := "1" + strings.Repeat(" + 1", 1000)
		prog, err := Compile(src, WithMaxDepth(4))
		require.NoError(t, err)
		v, err := prog.Eval(Scope{})
		require.NoError(t, err)
		assert.Equal(t, float32(1001), v)
	})

	t.Run("non-positive limit keeps default", func(t *testing.T) {
		_, err := Parse("((1))", WithMaxDepth(0))
		assert.NoError(t, err)
	})
}

func TestParse_MaxHeight(t *testing.T) {
	t.Run("million term chain fails instead of overflowing", func(t *testing.T) {
		src := "1" + strings.Repeat("+1", 1_000_000)
		got, err := Evaluate(src, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNestingTooDeep))
		assert.Equal(t, float32(0), got)

		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, StageParse, e.Stage)
		assert.Equal(t, 2*DefaultMaxHeight-1, e.Pos, "fails at the operator that passes the limit")
	})

	t.Run("chains below the limit evaluate", func(t *testing.T) {
		src := "1" + strings.Repeat("+1", DefaultMaxHeight-2)
		got, err := Evaluate(src, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, float32(DefaultMaxHeight-1), got)
	})

	tests := []struct {
		src     string
		wantErr bool
	}{
		{"1+1+1", false},
		{"1+1+1+1", true},
		{"(1+1)", false},
		{"(1+1+1)", true},
		{"-(1+1)", true},
		{"max(1, 1+1)", false},
		{"max(1, 1+1+1)", true},
		{"1*2+3*4", false},
		{"2^2^2", false},
		{"2^2^2^2", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, WithMaxHeight(3))
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNestingTooDeep), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("non-positive limit keeps default", func(t *testing.T) {
		_, err := Parse("1+1+1+1", WithMaxHeight(-1))
		assert.NoError(t, err)
	})
}

func TestCompile_Program(t *testing.T) {
	prog, err := Compile("q.speed * t + speed - t")
	require.NoError(t, err)

	assert.Equal(t, "q.speed * t + speed - t", prog.Source())
	assert.Equal(t, []string{"q.speed", "speed", "t"}, prog.Identifiers())
	assert.Equal(t, "(((q.speed * t) + speed) - t)", prog.String())

	ids := prog.Identifiers()
	ids[0] = "mutated"
	assert.Equal(t, "q.speed", prog.Identifiers()[0], "Identifiers returns a copy")
}

func TestCompile_Empty(t *testing.T) {
	_, err := Compile("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestWalk_SkipChildren(t *testing.T) {
	node, err := Parse("min(a, b) + c")
	require.NoError(t, err)

	var names []string
	Walk(node, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		_, isCall := n.(*FunctionCall)
		return !isCall
	})
	assert.Equal(t, []string{"c"}, names)
}
