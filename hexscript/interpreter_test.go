package hexscript

import (
	"context"
	"testing"
)

func run(t *testing.T, src string, flags FeatureFlags, remote RemoteCaller, scopeContext Value) (Value, error) {
	t.Helper()
	prog, err := Parse(src, flags)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	engine := NewEngine(Config{RecursionLimit: 64})
	exec := engine.NewExecution(context.Background(), flags, remote, NewNull())
	scope := NewRootScope(scopeContext)
	return exec.Evaluate(prog, scope)
}

func TestEvaluateSimpleArithmeticReturn(t *testing.T) {
	val, err := run(t, "let x = 5 + 10; return x;", 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Kind() != KindNumber || val.Number() != 15 {
		t.Fatalf("expected 15, got %v", val)
	}
}

func TestEvaluateArrayJoin(t *testing.T) {
	val, err := run(t, `let xs=[1,2,3]; return xs.join("-");`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Kind() != KindString || val.Str() != "1-2-3" {
		t.Fatalf("expected \"1-2-3\", got %v", val)
	}
}

func TestEvaluateFeatureFlagBlocksLoop(t *testing.T) {
	// Parsed without flags so the rejection must come from the
	// interpreter's own check, not from Parse.
	prog, err := Parse(`loop k in xs { }`, 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	engine := NewEngine(Config{RecursionLimit: 64})
	exec := engine.NewExecution(context.Background(), NoLoops, nil, NewNull())
	_, err = exec.Evaluate(prog, NewRootScope(NewObject(map[string]Value{"xs": NewArray(nil)})))
	if err == nil {
		t.Fatalf("expected a FeatureDisabled error")
	}
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrFeatureDisabled {
		t.Fatalf("expected FeatureDisabled RuntimeError, got %v (%T)", err, err)
	}
}

func TestEvaluateSecretNotInScope(t *testing.T) {
	prog, err := Parse("return secret.apiKey;", 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	engine := NewEngine(Config{RecursionLimit: 64})
	exec := engine.NewExecution(context.Background(), 0, nil, NewObject(map[string]Value{"apiKey": NewString("K")}))
	scope := NewRootScope(NewObject(nil))

	_, err = exec.Evaluate(prog, scope)
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrNameError {
		t.Fatalf("expected NameError since secret_context is never injected into scope, got %v (%T)", err, err)
	}
}

func TestEvaluateRemoteFunctionNotFound(t *testing.T) {
	_, err := run(t, "return nope();", 0, nil, NewNull())
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrFunctionNotFound {
		t.Fatalf("expected FunctionNotFound, got %v (%T)", err, err)
	}
}

type fakeRemote struct {
	calls map[string]func(args []Value, secret Value) (Value, error)
}

func (f *fakeRemote) CallRemote(_ context.Context, name string, args []Value, secret Value) (Value, error) {
	fn, ok := f.calls[name]
	if !ok {
		return Value{}, &RemoteFunctionNotFoundError{Name: name}
	}
	return fn(args, secret)
}

func TestEvaluateRemoteCallSuccess(t *testing.T) {
	remote := &fakeRemote{calls: map[string]func(args []Value, secret Value) (Value, error){
		"calc": func(args []Value, secret Value) (Value, error) {
			return NewNumber(args[0].Number() * args[1].Number()), nil
		},
	}}
	val, err := run(t, "return calc(3, 4);", 0, remote, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Number() != 12 {
		t.Fatalf("expected 12, got %v", val.Number())
	}
}

func TestEvaluateRemoteCallReceivesSecretContext(t *testing.T) {
	var sawSecret Value
	remote := &fakeRemote{calls: map[string]func(args []Value, secret Value) (Value, error){
		"authed": func(args []Value, secret Value) (Value, error) {
			sawSecret = secret
			return NewBool(true), nil
		},
	}}
	prog, err := Parse("return authed();", 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	engine := NewEngine(Config{RecursionLimit: 64})
	secret := NewObject(map[string]Value{"apiKey": NewString("K")})
	exec := engine.NewExecution(context.Background(), 0, remote, secret)
	if _, err := exec.Evaluate(prog, NewRootScope(NewNull())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawSecret.Kind() != KindObject {
		t.Fatalf("expected the remote call to receive the secret context, got %v", sawSecret)
	}
}

func TestEvaluateRecursionLimit(t *testing.T) {
	src := `
		fn recurse(n) {
			return recurse(n + 1);
		}
		return recurse(0);
	`
	prog, err := Parse(src, 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	engine := NewEngine(Config{RecursionLimit: 8})
	exec := engine.NewExecution(context.Background(), 0, nil, NewNull())
	_, err = exec.Evaluate(prog, NewRootScope(NewNull()))
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrRecursionTooDeep {
		t.Fatalf("expected RecursionTooDeep, got %v (%T)", err, err)
	}
}

func TestEvaluateBreakAndContinue(t *testing.T) {
	val, err := run(t, `
		let total = 0;
		loop n in [1,2,3,4,5] {
			if n == 3 {
				continue;
			}
			if n == 5 {
				break;
			}
			total = total + n;
		}
		return total;
	`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1 + 2 + 4 = 7 (3 skipped via continue, loop stops before adding 5 via break)
	if val.Number() != 7 {
		t.Fatalf("expected 7, got %v", val.Number())
	}
}

func TestEvaluateShortCircuitReturnsOperandValue(t *testing.T) {
	val, err := run(t, `return 0 || "fallback";`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Kind() != KindString || val.Str() != "fallback" {
		t.Fatalf("expected || to yield the actual operand value \"fallback\", got %v", val)
	}
}

func TestEvaluateCallbackStoredInObjectIsCallable(t *testing.T) {
	val, err := run(t, `
		let obj = {};
		fn greet(name) { return "hi " + name; }
		obj.handler = greet;
		return obj.handler("ada");
	`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Str() != "hi ada" {
		t.Fatalf("expected \"hi ada\", got %v", val)
	}
}

func TestSubstringClamping(t *testing.T) {
	val, err := run(t, `return "abc".substring(-1, 10);`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Str() != "abc" {
		t.Fatalf("expected clamped substring \"abc\", got %q", val.Str())
	}

	val, err = run(t, `return "abc".substring(5, 2);`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Str() != "" {
		t.Fatalf("expected empty string when start > end, got %q", val.Str())
	}
}

func TestArrayNegativeIndexIsNull(t *testing.T) {
	val, err := run(t, `let xs = [1,2,3]; return xs[-1];`, 0, nil, NewNull())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !val.IsNull() {
		t.Fatalf("expected null for a negative array index, got %v", val)
	}
}
