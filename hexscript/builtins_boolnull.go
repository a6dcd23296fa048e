package hexscript

func init() {
	registerBuiltin(KindBool, "toString", boolToString)
	registerBuiltin(KindNull, "toString", nullToString)
}

func boolToString(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "bool.toString", "0", len(args))
	}
	return NewString(receiver.String()), nil
}

func nullToString(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "null.toString", "0", len(args))
	}
	return NewString("null"), nil
}
