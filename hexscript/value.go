package hexscript

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind tags the dynamically-typed value domain (§3 Data Model).
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindCallback
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// Callback is a first-class function value: parameter names, a body
// block, and the scope active at its point of definition (§3).
type Callback struct {
	Params   []string
	Body     *Block
	Captured *Scope
	Name     string // empty for anonymous callbacks
}

// orderedObject preserves key insertion order for enumeration (§3).
type orderedObject struct {
	keys   []string
	values map[string]Value
}

func newOrderedObject() *orderedObject {
	return &orderedObject{values: make(map[string]Value)}
}

func (o *orderedObject) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *orderedObject) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *orderedObject) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *orderedObject) Len() int { return len(o.keys) }

func (o *orderedObject) Clone() *orderedObject {
	clone := &orderedObject{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		clone.values[k] = v
	}
	return clone
}

// Value is the tagged union described in §3.
type Value struct {
	kind ValueKind
	data any
}

func NewNull() Value             { return Value{kind: KindNull} }
func NewBool(b bool) Value       { return Value{kind: KindBool, data: b} }
func NewNumber(f float64) Value  { return Value{kind: KindNumber, data: f} }
func NewString(s string) Value   { return Value{kind: KindString, data: s} }
func NewArray(vs []Value) Value  { return Value{kind: KindArray, data: &vs} }
func NewCallback(c *Callback) Value {
	return Value{kind: KindCallback, data: c}
}

func NewObject(pairs map[string]Value) Value {
	o := newOrderedObject()
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, pairs[k])
	}
	return Value{kind: KindObject, data: o}
}

func newObjectValue(o *orderedObject) Value {
	return Value{kind: KindObject, data: o}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Number() float64 {
	f, _ := v.data.(float64)
	return f
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

func (v Value) Array() []Value {
	p, _ := v.data.(*[]Value)
	if p == nil {
		return nil
	}
	return *p
}

func (v Value) arrayPtr() *[]Value {
	p, _ := v.data.(*[]Value)
	return p
}

func (v Value) object() *orderedObject {
	o, _ := v.data.(*orderedObject)
	return o
}

func (v Value) Callback() *Callback {
	c, _ := v.data.(*Callback)
	return c
}

// Truthy implements §4.2's truthiness table.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number() != 0
	case KindString:
		return v.Str() != ""
	case KindArray:
		return len(v.Array()) != 0
	case KindObject:
		return v.object().Len() != 0
	default:
		return true
	}
}

// String renders the canonical textual form used by toString/coercion.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		return v.Str()
	case KindArray:
		parts := make([]string, len(v.Array()))
		for i, e := range v.Array() {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		o := v.object()
		parts := make([]string, 0, o.Len())
		for _, k := range o.Keys() {
			val, _ := o.Get(k)
			parts = append(parts, fmt.Sprintf("%s: %s", k, val.String()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindCallback:
		return "<callback>"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) && !strings.Contains(strconv.FormatFloat(f, 'g', -1, 64), "e") {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// DeepEqual implements `==` structural/deep comparison (§3, §4.2).
func DeepEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool() == b.Bool()
	case KindNumber:
		return a.Number() == b.Number()
	case KindString:
		return a.Str() == b.Str()
	case KindArray:
		aa, ba := a.Array(), b.Array()
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !DeepEqual(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ao, bo := a.object(), b.object()
		if ao.Len() != bo.Len() {
			return false
		}
		for _, k := range ao.Keys() {
			av, _ := ao.Get(k)
			bv, ok := bo.Get(k)
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	case KindCallback:
		return a.Callback() == b.Callback()
	default:
		return false
	}
}

// toNumber implements arithmetic coercion: booleans become 0/1, strings
// parse as finite decimals, everything else is a TypeError.
func toNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.Number(), true
	case KindBool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
