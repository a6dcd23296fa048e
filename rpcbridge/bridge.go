package rpcbridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hexput/runtime/hexscript"
)

// Sender is the session's single outbound frame writer (§5: "the
// outbound writer... [is] mutated only via a serialized interface").
// The transport package supplies the implementation backed by one
// goroutine draining a channel onto the WebSocket connection.
type Sender interface {
	Send(ctx context.Context, frame []byte) error
}

// Config carries the per-attempt deadlines of §4.4. Reference values:
// T_probe = 5s, T_call = 30s.
type Config struct {
	ProbeTimeout time.Duration
	CallTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	return c
}

// Bridge implements hexscript.RemoteCaller for one session: it
// allocates ids, writes request frames through Sender, and is fed
// reply frames by the transport router via Resolve.
type Bridge struct {
	cfg Config
	out Sender
	reg *registry
}

func New(out Sender, cfg Config) *Bridge {
	return &Bridge{cfg: cfg.withDefaults(), out: out, reg: newRegistry()}
}

// ReplyOutcome mirrors the registry's resolution result for the
// router's own diagnostic logging (§4.3, §7 "logged and ignored").
type ReplyOutcome int

const (
	ReplyResolved ReplyOutcome = iota
	ReplyUnknown
	ReplyKindMismatch
)

// Resolve hands a reply frame (already classified as a bridge reply by
// the router) to the matching pending entry. The reply's own kind is
// inferred from its shape: an `exists` field means a probe reply, a
// `result`/`error` field means a call reply (§6 Bridge replies). Unknown
// ids are dropped per §5's "final response is dropped" rule for races
// against cancellation; a kind mismatch against the registered entry is
// reported so the caller can log and drop without touching the entry
// (§4.3: "the pending entry remains until its deadline").
func (b *Bridge) Resolve(id string, exists *bool, result json.RawMessage, errMsg *string) ReplyOutcome {
	rep := reply{}
	kind := kindCall
	if exists != nil {
		kind = kindProbe
		rep.hasExist = true
		rep.exists = *exists
	}
	if errMsg != nil {
		rep.hasErr = true
		rep.errMsg = *errMsg
	}
	if result != nil {
		rep.result = result
	}
	switch b.reg.resolve(id, kind, rep) {
	case resolveOK:
		return ReplyResolved
	case resolveKindMismatch:
		return ReplyKindMismatch
	default:
		return ReplyUnknown
	}
}

// Close releases every pending entry by closing its sink, run when the
// transport tears the session down (§5 Cancellation). A waiting probe
// then returns RemoteFunctionNotFoundError and a waiting call returns
// RemoteTimeoutError; there is no separate session-closed error.
func (b *Bridge) Close() { b.reg.closeAll() }

type probeFrame struct {
	ID           string `json:"id"`
	Action       string `json:"action"`
	FunctionName string `json:"function_name"`
}

type callFrame struct {
	ID            string          `json:"id"`
	FunctionName  string          `json:"function_name"`
	Arguments     []json.RawMessage `json:"arguments"`
	SecretContext json.RawMessage `json:"secret_context,omitempty"`
}

// CallRemote implements the §4.4 probe-then-call algorithm.
func (b *Bridge) CallRemote(ctx context.Context, name string, args []hexscript.Value, secretContext hexscript.Value) (hexscript.Value, error) {
	if err := b.probe(ctx, name); err != nil {
		return hexscript.Value{}, err
	}
	return b.call(ctx, name, args, secretContext)
}

func (b *Bridge) probe(ctx context.Context, name string) error {
	id := uuid.NewString()
	deadline := time.Now().Add(b.cfg.ProbeTimeout)
	sink := b.reg.register(id, kindProbe, deadline)

	frame, err := json.Marshal(probeFrame{ID: id, Action: "is_function_exists", FunctionName: name})
	if err != nil {
		b.reg.remove(id)
		return &hexscript.RemoteFunctionNotFoundError{Name: name}
	}
	if err := b.out.Send(ctx, frame); err != nil {
		b.reg.remove(id)
		return &hexscript.RemoteFunctionNotFoundError{Name: name}
	}

	select {
	case rep, ok := <-sink:
		if !ok || !rep.hasExist || !rep.exists {
			return &hexscript.RemoteFunctionNotFoundError{Name: name}
		}
		return nil
	case <-time.After(time.Until(deadline)):
		b.reg.remove(id)
		return &hexscript.RemoteFunctionNotFoundError{Name: name}
	case <-ctx.Done():
		b.reg.remove(id)
		return &hexscript.RemoteFunctionNotFoundError{Name: name}
	}
}

func (b *Bridge) call(ctx context.Context, name string, args []hexscript.Value, secretContext hexscript.Value) (hexscript.Value, error) {
	id := uuid.NewString()
	deadline := time.Now().Add(b.cfg.CallTimeout)
	sink := b.reg.register(id, kindCall, deadline)

	argFrames := make([]json.RawMessage, len(args))
	for i, a := range args {
		raw, err := hexscript.ValueToJSON(a)
		if err != nil {
			b.reg.remove(id)
			return hexscript.Value{}, err
		}
		argFrames[i] = raw
	}

	cf := callFrame{ID: id, FunctionName: name, Arguments: argFrames}
	if !secretContext.IsNull() {
		raw, err := hexscript.ValueToJSON(secretContext)
		if err != nil {
			b.reg.remove(id)
			return hexscript.Value{}, err
		}
		cf.SecretContext = raw
	}

	frame, err := json.Marshal(cf)
	if err != nil {
		b.reg.remove(id)
		return hexscript.Value{}, &hexscript.RemoteTimeoutError{Name: name}
	}
	if err := b.out.Send(ctx, frame); err != nil {
		b.reg.remove(id)
		return hexscript.Value{}, &hexscript.RemoteTimeoutError{Name: name}
	}

	select {
	case rep, ok := <-sink:
		if !ok {
			return hexscript.Value{}, &hexscript.RemoteTimeoutError{Name: name}
		}
		if rep.hasErr {
			return hexscript.Value{}, &hexscript.RemoteCallError{Message: rep.errMsg}
		}
		if rep.result == nil {
			return hexscript.NewNull(), nil
		}
		val, err := hexscript.JSONToValue(rep.result)
		if err != nil {
			return hexscript.Value{}, &hexscript.RemoteCallError{Message: err.Error()}
		}
		return val, nil
	case <-time.After(time.Until(deadline)):
		b.reg.remove(id)
		return hexscript.Value{}, &hexscript.RemoteTimeoutError{Name: name}
	case <-ctx.Done():
		b.reg.remove(id)
		return hexscript.Value{}, &hexscript.RemoteTimeoutError{Name: name}
	}
}
