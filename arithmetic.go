package stateful

import "math"

// BinaryOp names a dyadic operator supported by Event/EventColumn/Expr
// arithmetic: arithmetic, comparison, and logical composition.
type BinaryOp string

const (
	OpAdd      BinaryOp = "+"
	OpSub      BinaryOp = "-"
	OpMul      BinaryOp = "*"
	OpDiv      BinaryOp = "/"
	OpFloorDiv BinaryOp = "//"
	OpMod      BinaryOp = "%"
	OpPow      BinaryOp = "**"
	OpAnd      BinaryOp = "&"
	OpOr       BinaryOp = "|"
	OpEq       BinaryOp = "=="
	OpNeq      BinaryOp = "!="
	OpGt       BinaryOp = ">"
	OpGe       BinaryOp = ">="
	OpLt       BinaryOp = "<"
	OpLe       BinaryOp = "<="
)

// UnaryOp names a monadic operator.
type UnaryOp string

const (
	OpNeg     UnaryOp = "-"
	OpPos     UnaryOp = "+"
	OpAbs     UnaryOp = "abs"
	OpNot     UnaryOp = "~"
	OpAsInt   UnaryOp = "int"
	OpAsBool  UnaryOp = "bool"
	OpAsFloat UnaryOp = "float"
)

// applyBinary evaluates op over two scalar values, widening numeric operands
// and returning an explicit TypeMismatch error instead of silently
// coercing (spec.md §9 Open Question (b)).
func applyBinary(op BinaryOp, a, b interface{}) (interface{}, error) {
	if IsNA(a) || IsNA(b) {
		return NA, nil
	}

	if op == OpEq || op == OpNeq {
		eq := equalValues(a, b)
		if op == OpEq {
			return eq, nil
		}
		return !eq, nil
	}

	if op == OpAnd || op == OpOr {
		ab, aErr := toBool(a)
		bb, bErr := toBool(b)
		if aErr != nil || bErr != nil {
			return nil, newError(TypeMismatch, []interface{}{a, b}, "cannot apply %s to %T and %T", op, a, b)
		}
		if op == OpAnd {
			return ab && bb, nil
		}
		return ab || bb, nil
	}

	if op == OpAdd {
		if as, ok := a.(string); ok {
			if bs, ok := b.(string); ok {
				return as + bs, nil
			}
		}
	}

	af, aErr := toFloat(a)
	bf, bErr := toFloat(b)
	if aErr != nil || bErr != nil {
		return nil, newError(TypeMismatch, []interface{}{a, b}, "cannot apply %s to %T and %T", op, a, b)
	}

	var result float64
	switch op {
	case OpAdd:
		result = af + bf
	case OpSub:
		result = af - bf
	case OpMul:
		result = af * bf
	case OpDiv:
		result = af / bf
	case OpFloorDiv:
		result = math.Floor(af / bf)
	case OpMod:
		result = math.Mod(af, bf)
	case OpPow:
		result = math.Pow(af, bf)
	case OpGt:
		return af > bf, nil
	case OpGe:
		return af >= bf, nil
	case OpLt:
		return af < bf, nil
	case OpLe:
		return af <= bf, nil
	default:
		return nil, newError(TypeMismatch, op, "unsupported binary operator %s", op)
	}

	_, aIsInt := a.(int)
	_, bIsInt := b.(int)
	if aIsInt && bIsInt && op != OpDiv {
		return int(result), nil
	}
	return result, nil
}

// applyUnary evaluates a monadic operator over a scalar value.
func applyUnary(op UnaryOp, a interface{}) (interface{}, error) {
	if IsNA(a) {
		return NA, nil
	}
	switch op {
	case OpAsInt:
		return toInt(a)
	case OpAsBool:
		return toBool(a)
	case OpAsFloat:
		return toFloat(a)
	case OpNot:
		b, err := toBool(a)
		if err != nil {
			return nil, err
		}
		return !b, nil
	}

	f, err := toFloat(a)
	if err != nil {
		return nil, newError(TypeMismatch, a, "cannot apply %s to %T", op, a)
	}
	var result float64
	switch op {
	case OpNeg:
		result = -f
	case OpPos:
		result = f
	case OpAbs:
		result = math.Abs(f)
	default:
		return nil, newError(TypeMismatch, op, "unsupported unary operator %s", op)
	}
	if _, ok := a.(int); ok {
		return int(result), nil
	}
	return result, nil
}
