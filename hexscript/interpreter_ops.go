package hexscript

import "strings"

// evalBinary implements §4.2's evaluation rules: left-to-right operand
// evaluation, short-circuit && / ||, strict-typed comparisons, and
// string-coercing `+`.
func (exec *Execution) evalBinary(e *BinaryExpr, env *Scope) (Value, error) {
	if e.Op == tokenAnd || e.Op == tokenOr {
		return exec.evalShortCircuit(e, env)
	}

	if e.Op == tokenEQ || e.Op == tokenNotEQ {
		if err := exec.checkFeature(e.position, NoEquality, featEquality); err != nil {
			return NewNull(), err
		}
	} else if err := exec.checkFeature(e.position, NoOperators, featOperator); err != nil {
		return NewNull(), err
	}

	left, err := exec.evalExpression(e.Left, env)
	if err != nil {
		return NewNull(), err
	}
	right, err := exec.evalExpression(e.Right, env)
	if err != nil {
		return NewNull(), err
	}

	switch e.Op {
	case tokenEQ:
		return NewBool(DeepEqual(left, right)), nil
	case tokenNotEQ:
		return NewBool(!DeepEqual(left, right)), nil
	case tokenPlus:
		return exec.evalAdd(e, left, right)
	case tokenMinus, tokenAsterisk, tokenSlash, tokenPercent:
		return exec.evalArithmetic(e, left, right)
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		return exec.evalCompare(e, left, right)
	default:
		return NewNull(), exec.errorAt(e.position, ErrInternalError, "unsupported operator")
	}
}

func (exec *Execution) evalShortCircuit(e *BinaryExpr, env *Scope) (Value, error) {
	if err := exec.checkFeature(e.position, NoOperators, featOperator); err != nil {
		return NewNull(), err
	}
	left, err := exec.evalExpression(e.Left, env)
	if err != nil {
		return NewNull(), err
	}
	if e.Op == tokenAnd {
		if !left.Truthy() {
			return left, nil
		}
		return exec.evalExpression(e.Right, env)
	}
	// tokenOr
	if left.Truthy() {
		return left, nil
	}
	return exec.evalExpression(e.Right, env)
}

// evalAdd implements `+`: string concatenation when either operand is a
// string, numeric addition otherwise (§3).
func (exec *Execution) evalAdd(e *BinaryExpr, left, right Value) (Value, error) {
	if left.Kind() == KindString || right.Kind() == KindString {
		return NewString(left.String() + right.String()), nil
	}
	ln, lok := toNumber(left)
	rn, rok := toNumber(right)
	if !lok || !rok {
		return NewNull(), exec.errorAt(e.position, ErrTypeError, "cannot add %s and %s", left.Kind(), right.Kind())
	}
	return NewNumber(ln + rn), nil
}

func (exec *Execution) evalArithmetic(e *BinaryExpr, left, right Value) (Value, error) {
	ln, lok := toNumber(left)
	rn, rok := toNumber(right)
	if !lok || !rok {
		return NewNull(), exec.errorAt(e.position, ErrTypeError, "operator %s requires numbers, got %s and %s", e.Op, left.Kind(), right.Kind())
	}
	switch e.Op {
	case tokenMinus:
		return NewNumber(ln - rn), nil
	case tokenAsterisk:
		return NewNumber(ln * rn), nil
	case tokenSlash:
		if rn == 0 {
			return NewNull(), exec.errorAt(e.position, ErrTypeError, "division by zero")
		}
		return NewNumber(ln / rn), nil
	case tokenPercent:
		if rn == 0 {
			return NewNull(), exec.errorAt(e.position, ErrTypeError, "modulo by zero")
		}
		return NewNumber(mod(ln, rn)), nil
	default:
		return NewNull(), exec.errorAt(e.position, ErrInternalError, "unsupported arithmetic operator")
	}
}

func mod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

// evalCompare implements §4.2's "require both operands to be numbers or
// both strings; mixed types are an error".
func (exec *Execution) evalCompare(e *BinaryExpr, left, right Value) (Value, error) {
	if left.Kind() != right.Kind() || (left.Kind() != KindNumber && left.Kind() != KindString) {
		return NewNull(), exec.errorAt(e.position, ErrTypeError, "comparison requires two numbers or two strings, got %s and %s", left.Kind(), right.Kind())
	}
	var c int
	if left.Kind() == KindNumber {
		ln, rn := left.Number(), right.Number()
		switch {
		case ln < rn:
			c = -1
		case ln > rn:
			c = 1
		}
	} else {
		c = strings.Compare(left.Str(), right.Str())
	}
	switch e.Op {
	case tokenLT:
		return NewBool(c < 0), nil
	case tokenLTE:
		return NewBool(c <= 0), nil
	case tokenGT:
		return NewBool(c > 0), nil
	case tokenGTE:
		return NewBool(c >= 0), nil
	default:
		return NewNull(), exec.errorAt(e.position, ErrInternalError, "unsupported comparison operator")
	}
}
