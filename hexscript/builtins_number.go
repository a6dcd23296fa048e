package hexscript

import (
	"math"
	"strconv"
)

func init() {
	reg := func(name string, fn BuiltinFunc) { registerBuiltin(KindNumber, name, fn) }

	reg("toString", numberToString)
	reg("toFixed", numberToFixed)
	reg("isInteger", numberIsInteger)
	reg("abs", numberAbs)
}

func numberToString(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "number.toString", "0", len(args))
	}
	return NewString(receiver.String()), nil
}

// numberToFixed implements §4.1's toFixed using round-half-away-from-zero,
// the reference choice documented for the open question in §9.
func numberToFixed(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindNumber {
		return NewNull(), arity(exec, pos, "number.toFixed", "1 number", len(args))
	}
	digits := int(args[0].Number())
	if digits < 0 {
		return NewNull(), exec.errorAt(pos, ErrTypeError, "number.toFixed digits must be non-negative")
	}
	n := receiver.Number()
	scale := math.Pow(10, float64(digits))
	rounded := math.Trunc(n*scale+math.Copysign(0.5, n)) / scale
	return NewString(strconv.FormatFloat(rounded, 'f', digits, 64)), nil
}

func numberIsInteger(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "number.isInteger", "0", len(args))
	}
	n := receiver.Number()
	return NewBool(n == math.Trunc(n)), nil
}

func numberAbs(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "number.abs", "0", len(args))
	}
	return NewNumber(math.Abs(receiver.Number())), nil
}
