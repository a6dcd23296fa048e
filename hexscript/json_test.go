package hexscript

import "testing"

func TestJSONRoundTripPreservesObjectKeyOrder(t *testing.T) {
	src := `{"z":1,"a":2,"m":3}`
	val, err := JSONToValue([]byte(src))
	if err != nil {
		t.Fatalf("JSONToValue failed: %v", err)
	}
	if val.Kind() != KindObject {
		t.Fatalf("expected object, got %v", val.Kind())
	}
	keys := val.object().Keys()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Keys()[%d] = %q, want %q (full %v)", i, keys[i], k, keys)
		}
	}

	out, err := ValueToJSON(val)
	if err != nil {
		t.Fatalf("ValueToJSON failed: %v", err)
	}
	if string(out) != src {
		t.Fatalf("round trip mismatch: got %s, want %s", out, src)
	}
}

func TestJSONToValueScalars(t *testing.T) {
	cases := []struct {
		src  string
		kind ValueKind
	}{
		{"null", KindNull},
		{"true", KindBool},
		{"42", KindNumber},
		{"42.5", KindNumber},
		{`"hi"`, KindString},
		{"[1,2,3]", KindArray},
	}
	for _, c := range cases {
		val, err := JSONToValue([]byte(c.src))
		if err != nil {
			t.Fatalf("JSONToValue(%s) failed: %v", c.src, err)
		}
		if val.Kind() != c.kind {
			t.Fatalf("JSONToValue(%s).Kind() = %v, want %v", c.src, val.Kind(), c.kind)
		}
	}
}

func TestValueToJSONRejectsCallback(t *testing.T) {
	cb := NewCallback(&Callback{})
	if _, err := ValueToJSON(cb); err == nil {
		t.Fatalf("expected an error encoding a callback value as JSON")
	}
}

func TestJSONToValueNestedArrayOfObjects(t *testing.T) {
	val, err := JSONToValue([]byte(`[{"id":1},{"id":2}]`))
	if err != nil {
		t.Fatalf("JSONToValue failed: %v", err)
	}
	arr := val.Array()
	if len(arr) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(arr))
	}
	idVal, ok := arr[0].object().Get("id")
	if !ok || idVal.Number() != 1 {
		t.Fatalf("expected first element's id == 1, got %v", idVal)
	}
}
