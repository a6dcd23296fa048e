package hexscript

import "strings"

func init() {
	reg := func(name string, fn BuiltinFunc) { registerBuiltin(KindArray, name, fn) }

	reg("length", arrayLength)
	reg("len", arrayLength)
	reg("isEmpty", arrayIsEmpty)
	reg("join", arrayJoin)
	reg("first", arrayFirst)
	reg("last", arrayLast)
	reg("includes", arrayIncludes)
	reg("contains", arrayIncludes)
	reg("slice", arraySlice)
}

func arrayLength(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "array.length", "0", len(args))
	}
	return NewNumber(float64(len(receiver.Array()))), nil
}

func arrayIsEmpty(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "array.isEmpty", "0", len(args))
	}
	return NewBool(len(receiver.Array()) == 0), nil
}

func arrayJoin(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "array.join", "1 string", len(args))
	}
	arr := receiver.Array()
	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = v.String()
	}
	return NewString(strings.Join(parts, args[0].Str())), nil
}

func arrayFirst(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "array.first", "0", len(args))
	}
	arr := receiver.Array()
	if len(arr) == 0 {
		return NewNull(), nil
	}
	return arr[0], nil
}

func arrayLast(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "array.last", "0", len(args))
	}
	arr := receiver.Array()
	if len(arr) == 0 {
		return NewNull(), nil
	}
	return arr[len(arr)-1], nil
}

func arrayIncludes(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 {
		return NewNull(), arity(exec, pos, "array.includes", "1", len(args))
	}
	for _, v := range receiver.Array() {
		if DeepEqual(v, args[0]) {
			return NewBool(true), nil
		}
	}
	return NewBool(false), nil
}

func arraySlice(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return NewNull(), arity(exec, pos, "array.slice", "1-2", len(args))
	}
	if args[0].Kind() != KindNumber {
		return NewNull(), exec.errorAt(pos, ErrTypeError, "array.slice start must be a number")
	}
	arr := receiver.Array()
	start := int(args[0].Number())
	end := len(arr)
	if len(args) == 2 {
		if args[1].Kind() != KindNumber {
			return NewNull(), exec.errorAt(pos, ErrTypeError, "array.slice end must be a number")
		}
		end = int(args[1].Number())
	}
	start, end = clampRange(start, end, len(arr))
	out := make([]Value, end-start)
	copy(out, arr[start:end])
	return NewArray(out), nil
}
