package expr

import (
	"math"
)

// Eval reduces node to a single value, resolving identifiers in scope.
// Evaluation is pure: the same node and scope always give the same result.
func Eval(node Node, scope Scope) (float32, error) {
	return eval(node, scope)
}

func eval(node Node, scope Scope) (float32, error) {
	switch n := node.(type) {
	case *NumberLiteral:
		return n.Value, nil

	case *Identifier:
		v, err := scope.Resolve(n.Name)
		if err != nil {
			return 0, atPos(err, n.At)
		}
		return v, nil

	case *Grouping:
		return eval(n.Inner, scope)

	case *UnaryOp:
		return evalUnary(n, scope)

	case *BinaryOp:
		return evalBinary(n, scope)

	case *FunctionCall:
		return evalCall(n, scope)

	case nil:
		return 0, newError(KindParse, StageEvaluate, NoPos, "missing expression")

	default:
		return 0, newError(KindParse, StageEvaluate, node.Pos(), "unsupported node %T", node)
	}
}

func evalUnary(n *UnaryOp, scope Scope) (float32, error) {
	v, err := eval(n.Operand, scope)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case OpSub:
		return -v, nil
	case OpNot:
		return boolToFloat(!IsTruthy(v)), nil
	default:
		return 0, newError(KindParse, StageEvaluate, n.At, "%s is not a prefix operator", quote(n.Op.String()))
	}
}

func evalBinary(n *BinaryOp, scope Scope) (float32, error) {
	left, err := eval(n.Left, scope)
	if err != nil {
		return 0, err
	}

	// The right operand of && and || is only evaluated when needed.
	switch n.Op {
	case OpAnd:
		if !IsTruthy(left) {
			return 0, nil
		}
		right, err := eval(n.Right, scope)
		if err != nil {
			return 0, err
		}
		return boolToFloat(IsTruthy(right)), nil
	case OpOr:
		if IsTruthy(left) {
			return 1, nil
		}
		right, err := eval(n.Right, scope)
		if err != nil {
			return 0, err
		}
		return boolToFloat(IsTruthy(right)), nil
	}

	right, err := eval(n.Right, scope)
	if err != nil {
		return 0, err
	}
	return arith(n.Op, left, right, n.At)
}

// arith applies a strict binary operator. Every result is converted
// explicitly so intermediate values are rounded to float32 and never fused.
// A NaN from NaN-free operands, such as Inf - Inf or 0 * Inf, is a domain
// error.
func arith(op Operator, left, right float32, pos int) (float32, error) {
	var v float32
	switch op {
	case OpAdd:
		v = float32(left + right)
	case OpSub:
		v = float32(left - right)
	case OpMul:
		v = float32(left * right)
	case OpDiv:
		if right == 0 {
			return 0, newError(KindDivisionByZero, StageEvaluate, pos, "%g / 0", left)
		}
		v = float32(left / right)
	case OpMod:
		if right == 0 {
			return 0, newError(KindDivisionByZero, StageEvaluate, pos, "%g %% 0", left)
		}
		v = float32(math.Mod(float64(left), float64(right)))
	case OpPow:
		v = float32(math.Pow(float64(left), float64(right)))
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return compare(op, left, right), nil
	default:
		return 0, newError(KindParse, StageEvaluate, pos, "%s is not a binary operator", quote(op.String()))
	}
	if isNaN(v) && !isNaN(left) && !isNaN(right) {
		return 0, newError(KindDomain, StageEvaluate, pos, "%g %s %g is not a real number", left, op, right)
	}
	return v, nil
}

func evalCall(n *FunctionCall, scope Scope) (float32, error) {
	fn := n.Fn
	if fn == nil {
		var ok bool
		if fn, ok = LookupFunction(n.Name); !ok {
			return 0, newError(KindUnknownFunction, StageEvaluate, n.At, "no function named %s", quote(n.Name))
		}
	}
	if len(n.Args) != fn.Arity {
		return 0, newError(KindArityMismatch, StageEvaluate, n.At,
			"%s takes %d argument(s), got %d", fn.Name, fn.Arity, len(n.Args))
	}

	args := make([]float32, len(n.Args))
	anyNaN := false
	for i, arg := range n.Args {
		v, err := eval(arg, scope)
		if err != nil {
			return 0, err
		}
		args[i] = v
		anyNaN = anyNaN || isNaN(v)
	}

	v, err := fn.call(args)
	if err != nil {
		return 0, atPos(err, n.At)
	}
	if isNaN(v) && !anyNaN {
		return 0, newError(KindDomain, StageEvaluate, n.At, "%s is undefined for %v", fn.Name, args)
	}
	return v, nil
}

// atPos fills in the position of an evaluation error raised without one.
func atPos(err error, pos int) error {
	if e, ok := err.(*Error); ok && e.Pos == NoPos {
		e.Pos = pos
	}
	return err
}

func isNaN(v float32) bool {
	return v != v
}
