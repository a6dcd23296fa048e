package hexscript

import "fmt"

func (exec *Execution) evalExpression(expr Expression, env *Scope) (Value, error) {
	if err := exec.checkCtx(); err != nil {
		return NewNull(), err
	}
	switch e := expr.(type) {
	case *NullLiteral:
		return NewNull(), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NumberLiteral:
		return NewNumber(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil

	case *ArrayLiteral:
		if err := exec.checkFeature(e.position, NoArrayConstructions, featArrayLiteral); err != nil {
			return NewNull(), err
		}
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			val, err := exec.evalExpression(el, env)
			if err != nil {
				return NewNull(), err
			}
			elems[i] = val
		}
		return NewArray(elems), nil

	case *ObjectLiteral:
		if err := exec.checkFeature(e.position, NoObjectConstructions, featObjectLiteral); err != nil {
			return NewNull(), err
		}
		o := newOrderedObject()
		for _, pair := range e.Pairs {
			val, err := exec.evalExpression(pair.Value, env)
			if err != nil {
				return NewNull(), err
			}
			o.Set(pair.Key, val)
		}
		return newObjectValue(o), nil

	case *Identifier:
		val, ok := env.Lookup(e.Name)
		if !ok {
			return NewNull(), exec.errorAt(e.position, ErrNameError, "undefined variable %s", e.Name)
		}
		return val, nil

	case *UnaryExpr:
		return exec.evalUnary(e, env)

	case *KeysOfExpr:
		if err := exec.checkFeature(e.position, NoObjectKeys, featKeysOf); err != nil {
			return NewNull(), err
		}
		operand, err := exec.evalExpression(e.Operand, env)
		if err != nil {
			return NewNull(), err
		}
		if operand.Kind() != KindObject {
			return NewNull(), exec.errorAt(e.position, ErrTypeError, "keysOf requires an object, got %s", operand.Kind())
		}
		keys := operand.object().Keys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = NewString(k)
		}
		return NewArray(out), nil

	case *BinaryExpr:
		return exec.evalBinary(e, env)

	case *MemberExpr:
		return exec.evalMemberExpr(e, env)

	case *CallExpr:
		return exec.evalCallExpr(e, env)

	case *CallbackLiteral:
		if err := exec.checkFeature(e.position, NoCallbacks, featCallback); err != nil {
			return NewNull(), err
		}
		cb := &Callback{Params: e.Params, Body: e.Body, Captured: env}
		return NewCallback(cb), nil

	default:
		return NewNull(), exec.errorAt(expr.Pos(), ErrInternalError, "unsupported expression")
	}
}

func (exec *Execution) evalUnary(e *UnaryExpr, env *Scope) (Value, error) {
	if err := exec.checkFeature(e.position, NoOperators, featOperator); err != nil {
		return NewNull(), err
	}
	operand, err := exec.evalExpression(e.Operand, env)
	if err != nil {
		return NewNull(), err
	}
	switch e.Op {
	case tokenMinus:
		n, ok := toNumber(operand)
		if !ok {
			return NewNull(), exec.errorAt(e.position, ErrTypeError, "cannot negate %s", operand.Kind())
		}
		return NewNumber(-n), nil
	case tokenBang:
		return NewBool(!operand.Truthy()), nil
	default:
		return NewNull(), exec.errorAt(e.position, ErrInternalError, "unsupported unary operator")
	}
}

// memberKey evaluates a MemberExpr's property to the string/number key
// used for lookup, per §4.2 ("obj.k and obj[k] are equivalent where k
// is a string").
func (exec *Execution) memberKey(m *MemberExpr, env *Scope) (string, error) {
	if !m.Computed {
		return m.Property.(*Identifier).Name, nil
	}
	keyVal, err := exec.evalExpression(m.Property, env)
	if err != nil {
		return "", err
	}
	switch keyVal.Kind() {
	case KindString:
		return keyVal.Str(), nil
	case KindNumber:
		return formatNumber(keyVal.Number()), nil
	default:
		return "", exec.errorAt(m.position, ErrTypeError, "member key must be a string or number, got %s", keyVal.Kind())
	}
}

// memberKeyValue evaluates the raw property value (preserving numeric
// type) for array indexing, where the key must stay a number.
func (exec *Execution) memberKeyValue(m *MemberExpr, env *Scope) (Value, error) {
	if !m.Computed {
		return NewString(m.Property.(*Identifier).Name), nil
	}
	return exec.evalExpression(m.Property, env)
}

func arrayIndex(key string, length int) (int, bool) {
	var i int
	if _, err := fmt.Sscanf(key, "%d", &i); err != nil {
		return 0, false
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

func (exec *Execution) evalMemberExpr(e *MemberExpr, env *Scope) (Value, error) {
	if err := exec.checkFeature(e.position, NoObjectNavigation, featMemberAccess); err != nil {
		return NewNull(), err
	}
	obj, err := exec.evalExpression(e.Object, env)
	if err != nil {
		return NewNull(), err
	}
	return exec.getMember(obj, e, env)
}

func (exec *Execution) getMember(obj Value, e *MemberExpr, env *Scope) (Value, error) {
	switch obj.Kind() {
	case KindObject:
		key, err := exec.memberKey(e, env)
		if err != nil {
			return NewNull(), err
		}
		v, ok := obj.object().Get(key)
		if !ok {
			return NewNull(), nil
		}
		return v, nil

	case KindArray:
		idxVal, err := exec.memberKeyValue(e, env)
		if err != nil {
			return NewNull(), err
		}
		if idxVal.Kind() != KindNumber {
			return NewNull(), exec.errorAt(e.position, ErrTypeError, "array index must be a number, got %s", idxVal.Kind())
		}
		arr := obj.Array()
		i := int(idxVal.Number())
		if i < 0 || i >= len(arr) {
			return NewNull(), nil
		}
		return arr[i], nil

	case KindString:
		idxVal, err := exec.memberKeyValue(e, env)
		if err != nil {
			return NewNull(), err
		}
		if idxVal.Kind() != KindNumber {
			return NewNull(), exec.errorAt(e.position, ErrTypeError, "string index must be a number, got %s", idxVal.Kind())
		}
		runes := []rune(obj.Str())
		i := int(idxVal.Number())
		if i < 0 || i >= len(runes) {
			return NewNull(), nil
		}
		return NewString(string(runes[i])), nil

	case KindNull:
		return NewNull(), exec.errorAt(e.position, ErrTypeError, "member access on null")

	default:
		return NewNull(), exec.errorAt(e.position, ErrTypeError, "cannot access member of %s", obj.Kind())
	}
}
