package hexscript

import (
	"context"
	"fmt"
)

// Config controls interpreter execution bounds (§5 Resource Bounds).
type Config struct {
	RecursionLimit int
}

// Engine is the (stateless, re-entrant) entry point for running Hexput
// scripts. Mirrors the teacher's Engine/Execution split: the Engine
// holds process-wide defaults, Execution holds one request's state.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine with sane defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 256
	}
	return &Engine{config: cfg}
}

// Execution holds the per-request interpreter state: one Execution is
// bound to one `execute` request (§3 Lifecycle) and is never reused.
type Execution struct {
	engine *Engine
	ctx    context.Context

	flags  FeatureFlags
	remote RemoteCaller

	secretContext Value

	callStack []StackFrame
	loopDepth int
}

// control-flow sentinel errors, never surfaced to the client; they
// unwind exactly as far as their legal enclosing construct (§3 invariant d).
type breakSignal struct{}
type continueSignal struct{}
type returnSignal struct{ value Value }

func (breakSignal) Error() string    { return "break outside loop" }
func (continueSignal) Error() string { return "continue outside loop" }
func (returnSignal) Error() string   { return "return outside callback" }

// NewExecution constructs the per-request evaluator state.
func (e *Engine) NewExecution(ctx context.Context, flags FeatureFlags, remote RemoteCaller, secretContext Value) *Execution {
	if remote == nil {
		remote = noRemote{}
	}
	return &Execution{engine: e, ctx: ctx, flags: flags, remote: remote, secretContext: secretContext}
}

// Evaluate runs program against initialScope and returns its resulting
// value: either the value of a top-level `return`, or the value of the
// last top-level statement (§4.2 contract).
func (exec *Execution) Evaluate(program *Program, initialScope *Scope) (val Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = exec.newRuntimeError(ErrInternalError, fmt.Sprintf("%v", r), Position{})
		}
	}()
	exec.callStack = append(exec.callStack, StackFrame{Function: "<script>"})
	result, returned, err := exec.evalStatements(program.Statements, initialScope)
	if err != nil {
		if _, ok := err.(breakSignal); ok {
			return NewNull(), exec.newRuntimeError(ErrInternalError, "break escaped its loop", Position{})
		}
		if _, ok := err.(continueSignal); ok {
			return NewNull(), exec.newRuntimeError(ErrInternalError, "continue escaped its loop", Position{})
		}
		return NewNull(), err
	}
	if returned {
		return result, nil
	}
	return result, nil
}

func (exec *Execution) checkFeature(pos Position, bit FeatureFlags, name featureName) error {
	if exec.flags.has(bit) {
		return exec.newRuntimeError(ErrFeatureDisabled, string(name), pos)
	}
	return nil
}

func (exec *Execution) newRuntimeError(kind ErrorKind, message string, pos Position) *RuntimeError {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, exec.callStack[i])
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}
	return &RuntimeError{Kind: kind, Message: message, Frames: frames}
}

func (exec *Execution) errorAt(pos Position, kind ErrorKind, format string, args ...any) error {
	return exec.newRuntimeError(kind, fmt.Sprintf(format, args...), pos)
}
