package hexscript

import "testing"

func TestValueTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", NewNull(), false},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"zero", NewNumber(0), false},
		{"nonzero", NewNumber(-1), true},
		{"empty string", NewString(""), false},
		{"nonempty string", NewString("x"), true},
		{"empty array", NewArray(nil), false},
		{"nonempty array", NewArray([]Value{NewNull()}), true},
		{"empty object", NewObject(nil), false},
		{"nonempty object", NewObject(map[string]Value{"a": NewNumber(1)}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Fatalf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestOrderedObjectPreservesInsertionOrder(t *testing.T) {
	o := newOrderedObject()
	o.Set("z", NewNumber(1))
	o.Set("a", NewNumber(2))
	o.Set("m", NewNumber(3))
	got := o.Keys()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("Keys()[%d] = %q, want %q (full: %v)", i, got[i], k, got)
		}
	}
}

func TestOrderedObjectSetExistingKeyKeepsPosition(t *testing.T) {
	o := newOrderedObject()
	o.Set("a", NewNumber(1))
	o.Set("b", NewNumber(2))
	o.Set("a", NewNumber(99))
	got := o.Keys()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", got)
	}
	v, _ := o.Get("a")
	if v.Number() != 99 {
		t.Fatalf("Get(a) = %v, want 99", v.Number())
	}
}

func TestDeepEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers equal", NewNumber(1), NewNumber(1), true},
		{"numbers differ", NewNumber(1), NewNumber(2), false},
		{"different kinds", NewNumber(1), NewString("1"), false},
		{"arrays equal", NewArray([]Value{NewNumber(1), NewString("a")}), NewArray([]Value{NewNumber(1), NewString("a")}), true},
		{"arrays differ length", NewArray([]Value{NewNumber(1)}), NewArray([]Value{NewNumber(1), NewNumber(2)}), false},
		{
			"objects equal regardless of insertion order",
			NewObject(map[string]Value{"a": NewNumber(1), "b": NewNumber(2)}),
			NewObject(map[string]Value{"b": NewNumber(2), "a": NewNumber(1)}),
			true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DeepEqual(c.a, c.b); got != c.want {
				t.Fatalf("DeepEqual() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	cases := []struct {
		name   string
		v      Value
		want   float64
		wantOk bool
	}{
		{"number", NewNumber(3.5), 3.5, true},
		{"true", NewBool(true), 1, true},
		{"false", NewBool(false), 0, true},
		{"numeric string", NewString(" 42 "), 42, true},
		{"non-numeric string", NewString("abc"), 0, false},
		{"array", NewArray(nil), 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := toNumber(c.v)
			if ok != c.wantOk {
				t.Fatalf("toNumber() ok = %v, want %v", ok, c.wantOk)
			}
			if ok && got != c.want {
				t.Fatalf("toNumber() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{-3, "-3"},
		{3.5, "3.5"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := formatNumber(c.in); got != c.want {
			t.Fatalf("formatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
