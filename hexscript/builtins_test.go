package hexscript

import "testing"

func evalExpr(t *testing.T, src string) Value {
	t.Helper()
	val, err := run(t, "return "+src+";", 0, nil, NewNull())
	if err != nil {
		t.Fatalf("eval %q failed: %v", src, err)
	}
	return val
}

func TestStringBuiltins(t *testing.T) {
	cases := []struct {
		expr string
		want Value
	}{
		{`"hello".length()`, NewNumber(5)},
		{`"".isEmpty()`, NewBool(true)},
		{`"hello".toUpperCase()`, NewString("HELLO")},
		{`"HELLO".toLowerCase()`, NewString("hello")},
		{`"  hi  ".trim()`, NewString("hi")},
		{`"hello".includes("ell")`, NewBool(true)},
		{`"hello".startsWith("he")`, NewBool(true)},
		{`"hello".endsWith("lo")`, NewBool(true)},
		{`"hello".indexOf("l")`, NewNumber(2)},
		{`"hello".indexOf("z")`, NewNumber(-1)},
		{`"a,b,c".split(",").join("-")`, NewString("a-b-c")},
		{`"hello".replace("l", "L")`, NewString("heLLo")},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			got := evalExpr(t, c.expr)
			if !DeepEqual(got, c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestStringCodePointIndexing(t *testing.T) {
	// "café" has 4 code points but 5 UTF-8 bytes ('é' is 2 bytes).
	got := evalExpr(t, `"café".length()`)
	if got.Number() != 4 {
		t.Fatalf("expected code-point length 4, got %v", got.Number())
	}
}

func TestArrayBuiltins(t *testing.T) {
	cases := []struct {
		expr string
		want Value
	}{
		{`[1,2,3].length()`, NewNumber(3)},
		{`[].isEmpty()`, NewBool(true)},
		{`[1,2,3].first()`, NewNumber(1)},
		{`[1,2,3].last()`, NewNumber(3)},
		{`[1,2,3].includes(2)`, NewBool(true)},
		{`[1,2,3].includes(9)`, NewBool(false)},
		{`[1,2,3,4].slice(1,3).length()`, NewNumber(2)},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			got := evalExpr(t, c.expr)
			if !DeepEqual(got, c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestObjectBuiltins(t *testing.T) {
	val, err := run(t, `
		let o = {a: 1, b: 2};
		return o.keys();
	`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := val.Array()
	if len(arr) != 2 || arr[0].Str() != "a" || arr[1].Str() != "b" {
		t.Fatalf("expected [a b] in insertion order, got %v", arr)
	}

	got := evalExpr(t, `{}.isEmpty()`)
	if !got.Bool() {
		t.Fatalf("expected empty object isEmpty() == true")
	}
	got = evalExpr(t, `{a: 1}.has("a")`)
	if !got.Bool() {
		t.Fatalf("expected has(\"a\") == true")
	}
}

func TestObjectEntries(t *testing.T) {
	val, err := run(t, `return {a: 1}.entries();`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := val.Array()
	if len(arr) != 1 {
		t.Fatalf("expected one entry, got %d", len(arr))
	}
	pair := arr[0].Array()
	if pair[0].Str() != "a" || pair[1].Number() != 1 {
		t.Fatalf("expected [\"a\", 1], got %v", pair)
	}
}

func TestNumberBuiltins(t *testing.T) {
	cases := []struct {
		expr string
		want Value
	}{
		{`(3).isInteger()`, NewBool(true)},
		{`(3.5).isInteger()`, NewBool(false)},
		{`(-5).abs()`, NewNumber(5)},
		{`(3.14159).toFixed(2)`, NewString("3.14")},
		{`(2.5).toFixed(0)`, NewString("3")},
		{`(-2.5).toFixed(0)`, NewString("-3")},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			got := evalExpr(t, c.expr)
			if !DeepEqual(got, c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestBoolNullToString(t *testing.T) {
	if got := evalExpr(t, `true.toString()`); got.Str() != "true" {
		t.Fatalf("expected \"true\", got %q", got.Str())
	}
	if got := evalExpr(t, `null.toString()`); got.Str() != "null" {
		t.Fatalf("expected \"null\", got %q", got.Str())
	}
}

func TestBuiltinArityErrorIsTypeError(t *testing.T) {
	_, err := run(t, `return "hi".substring();`, 0, nil, NewNull())
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrTypeError {
		t.Fatalf("expected TypeError on missing required argument, got %v (%T)", err, err)
	}
}
