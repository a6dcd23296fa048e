package hexscript

func init() {
	reg := func(name string, fn BuiltinFunc) { registerBuiltin(KindObject, name, fn) }

	reg("keys", objectKeys)
	reg("values", objectValues)
	reg("entries", objectEntries)
	reg("isEmpty", objectIsEmpty)
	reg("has", objectHas)
}

func objectKeys(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "object.keys", "0", len(args))
	}
	keys := receiver.object().Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = NewString(k)
	}
	return NewArray(out), nil
}

func objectValues(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "object.values", "0", len(args))
	}
	o := receiver.object()
	keys := o.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		v, _ := o.Get(k)
		out[i] = v
	}
	return NewArray(out), nil
}

func objectEntries(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "object.entries", "0", len(args))
	}
	o := receiver.object()
	keys := o.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		v, _ := o.Get(k)
		out[i] = NewArray([]Value{NewString(k), v})
	}
	return NewArray(out), nil
}

func objectIsEmpty(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 0 {
		return NewNull(), arity(exec, pos, "object.isEmpty", "0", len(args))
	}
	return NewBool(receiver.object().Len() == 0), nil
}

func objectHas(exec *Execution, receiver Value, args []Value, pos Position) (Value, error) {
	if len(args) != 1 || args[0].Kind() != KindString {
		return NewNull(), arity(exec, pos, "object.has", "1 string", len(args))
	}
	_, ok := receiver.object().Get(args[0].Str())
	return NewBool(ok), nil
}
