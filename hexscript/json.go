package hexscript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ValueToJSON marshals a Value into canonical JSON, preserving object
// key order exactly as held by the ordered object (§3). Callbacks have
// no wire representation and are rejected.
func ValueToJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		b, err := json.Marshal(v.Number())
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindString:
		b, err := json.Marshal(v.Str())
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Array() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		o := v.object()
		for i, k := range o.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := o.Get(k)
			if err := encodeValue(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindCallback:
		return fmt.Errorf("hexscript: cannot encode callback value as JSON")
	default:
		return fmt.Errorf("hexscript: unknown value kind %v", v.Kind())
	}
	return nil
}

// JSONToValue decodes a single JSON document into a Value, preserving
// object key order via json.Decoder's token stream rather than
// unmarshaling into a map (which Go randomizes on range).
func JSONToValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return NewNull(), err
	}
	if _, err := dec.Token(); err != io.EOF {
		return NewNull(), fmt.Errorf("hexscript: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return NewNull(), err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NewNull(), err
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return NewNull(), err
				}
				elems = append(elems, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return NewNull(), err
			}
			return NewArray(elems), nil
		case '{':
			o := newOrderedObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return NewNull(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return NewNull(), fmt.Errorf("hexscript: object key is not a string")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return NewNull(), err
				}
				o.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return NewNull(), err
			}
			return newObjectValue(o), nil
		}
	}
	return NewNull(), fmt.Errorf("hexscript: unexpected JSON token %v", tok)
}
