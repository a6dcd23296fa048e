package hexscript

import "context"

// RemoteCaller is the interpreter's view of the remote-function bridge
// (§4.4): a call suspends the current evaluation until the bridge
// resolves a value, a negative/timed-out existence probe, a remote
// error, or a deadline. Implementations live in package rpcbridge;
// hexscript only depends on this narrow contract so the interpreter
// never needs to know about sessions, transports, or wire frames.
type RemoteCaller interface {
	CallRemote(ctx context.Context, name string, args []Value, secretContext Value) (Value, error)
}

// RemoteFunctionNotFoundError signals a negative or timed-out existence
// probe (§4.4 step 2).
type RemoteFunctionNotFoundError struct {
	Name string
}

func (e *RemoteFunctionNotFoundError) Error() string { return e.Name }

// RemoteCallError wraps an `error` field returned by the client's call
// reply (§4.4 step 4).
type RemoteCallError struct {
	Message string
}

func (e *RemoteCallError) Error() string { return e.Message }

// RemoteTimeoutError signals a call-phase deadline elapsing (§4.4 step 4).
type RemoteTimeoutError struct {
	Name string
}

func (e *RemoteTimeoutError) Error() string { return e.Name }

// noRemote is used when an Execution is constructed without a bridge
// (e.g. the local debug console, which has no client to call back to).
type noRemote struct{}

func (noRemote) CallRemote(_ context.Context, name string, _ []Value, _ Value) (Value, error) {
	return Value{}, &RemoteFunctionNotFoundError{Name: name}
}
