package expr

// Operator is one of the fixed set of unary and binary operators.
type Operator int

const (
	OpInvalid Operator = iota
	OpAdd              // +
	OpSub              // -
	OpMul              // *
	OpDiv              // /
	OpMod              // %
	OpPow              // ^
	OpEq               // ==
	OpNe               // !=
	OpLt               // <
	OpLe               // <=
	OpGt               // >
	OpGe               // >=
	OpAnd              // &&
	OpOr               // ||
	OpNot              // !
)

var operatorText = [...]string{
	OpInvalid: "?",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpPow:     "^",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
	OpAnd:     "&&",
	OpOr:      "||",
	OpNot:     "!",
}

// String returns the operator's source spelling.
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorText) {
		return "?"
	}
	return operatorText[op]
}

// Binding powers, low to high. Unary operators sit between the
// multiplicative operators and exponentiation, so -2^2 is -(2^2).
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPower
)

// precedence returns the binding power of a binary operator, or precLowest
// for operators that cannot appear in infix position.
func (op Operator) precedence() int {
	switch op {
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpEq, OpNe:
		return precEquality
	case OpLt, OpLe, OpGt, OpGe:
		return precRelational
	case OpAdd, OpSub:
		return precAdditive
	case OpMul, OpDiv, OpMod:
		return precMultiplicative
	case OpPow:
		return precPower
	default:
		return precLowest
	}
}

// rightAssoc reports whether the operator groups to the right.
func (op Operator) rightAssoc() bool {
	return op == OpPow
}

// isUnary reports whether the operator may appear in prefix position.
func (op Operator) isUnary() bool {
	return op == OpSub || op == OpNot
}

// compare applies a comparison operator, producing 1 or 0.
func compare(op Operator, left, right float32) float32 {
	switch op {
	case OpEq:
		return boolToFloat(left == right)
	case OpNe:
		return boolToFloat(left != right)
	case OpLt:
		return boolToFloat(left < right)
	case OpLe:
		return boolToFloat(left <= right)
	case OpGt:
		return boolToFloat(left > right)
	case OpGe:
		return boolToFloat(left >= right)
	default:
		return 0
	}
}
