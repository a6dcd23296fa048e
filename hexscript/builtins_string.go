package hexscript

import "strings"

func init() {
	reg := func(name string, fn BuiltinFunc) { registerBuiltin(KindString, name, fn) }

	reg("length", stringLength)
	reg("len", stringLength)
	reg("isEmpty", stringIsEmpty)
	reg("substring", stringSubstring)
	reg("toLowerCase", stringToLowerCase)
	reg("toUpperCase", stringToUpperCase)
	reg("trim", stringTrim)
	reg("includes", stringIncludes)
	reg("contains", stringIncludes)
	reg("startsWith", stringStartsWith)
	reg("endsWith", stringEndsWith)
	reg("indexOf", stringIndexOf)
	reg("split", stringSplit)
	reg("replace", stringReplace)
}

func stringLength(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "string.length", "0", len(args))
	}
	return NewNumber(float64(len([]rune(receiver.Str())))), nil
}

func stringIsEmpty(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "string.isEmpty", "0", len(args))
	}
	return NewBool(receiver.Str() == ""), nil
}

func stringSubstring(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return NewNull(), arity(exec, pos, "string.substring", "1-2", len(args))
	}
	if args[0].Kind() != KindNumber {
		return NewNull(), exec.errorAt(pos, ErrTypeError, "string.substring start must be a number")
	}
	runes := []rune(receiver.Str())
	start := int(args[0].Number())
	end := len(runes)
	if len(args) == 2 {
		if args[1].Kind() != KindNumber {
			return NewNull(), exec.errorAt(pos, ErrTypeError, "string.substring end must be a number")
		}
		end = int(args[1].Number())
	}
	start, end = clampRange(start, end, len(runes))
	return NewString(string(runes[start:end])), nil
}

func stringToLowerCase(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "string.toLowerCase", "0", len(args))
	}
	return NewString(strings.ToLower(receiver.Str())), nil
}

func stringToUpperCase(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "string.toUpperCase", "0", len(args))
	}
	return NewString(strings.ToUpper(receiver.Str())), nil
}

const asciiWhitespace = " \t\n\r\v\f"

func stringTrim(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "string.trim", "0", len(args))
	}
	return NewString(strings.Trim(receiver.Str(), asciiWhitespace)), nil
}

func stringIncludes(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "string.includes", "1 string", len(args))
	}
	return NewBool(strings.Contains(receiver.Str(), args[0].Str())), nil
}

func stringStartsWith(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "string.startsWith", "1 string", len(args))
	}
	return NewBool(strings.HasPrefix(receiver.Str(), args[0].Str())), nil
}

func stringEndsWith(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "string.endsWith", "1 string", len(args))
	}
	return NewBool(strings.HasSuffix(receiver.Str(), args[0].Str())), nil
}

func stringIndexOf(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "string.indexOf", "1 string", len(args))
	}
	byteIdx := strings.Index(receiver.Str(), args[0].Str())
	if byteIdx < 0 {
		return NewNumber(-1), nil
	}
	return NewNumber(float64(len([]rune(receiver.Str()[:byteIdx])))), nil
}

func stringSplit(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "string.split", "1 string", len(args))
	}
	parts := strings.Split(receiver.Str(), args[0].Str())
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = NewString(p)
	}
	return NewArray(out), nil
}

func stringReplace(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 2 || args[0].Kind() != KindString || args[1].Kind() != KindString {
		return NewNull(), arity(exec, pos, "string.replace", "2 strings", len(args))
	}
	return NewString(strings.ReplaceAll(receiver.Str(), args[0].Str(), args[1].Str())), nil
}
