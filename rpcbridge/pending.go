// Package rpcbridge implements the remote-function bridge of the
// Hexput runtime: a probe-then-call protocol correlated by id over a
// single outbound frame writer, satisfying hexscript.RemoteCaller.
package rpcbridge

import (
	"sync"
	"time"
)

// entryKind distinguishes a pending existence probe from a pending call
// so a late or misrouted reply can be classified without guessing.
type entryKind int

const (
	kindProbe entryKind = iota
	kindCall
)

// reply is whatever arrived on the wire for one pending id: either an
// existence answer or a call result/error.
type reply struct {
	exists   bool
	hasExist bool
	result   []byte // raw JSON, decoded by the caller with hexscript.JSONToValue
	errMsg   string
	hasErr   bool
}

type pendingEntry struct {
	kind     entryKind
	sink     chan reply
	deadline time.Time
}

// registry is the session's single pending-id table (§5): mutated only
// under mu, with short critical sections, matching the spec's
// single-writer/mutex-guarded-table requirement.
type registry struct {
	mu      sync.Mutex
	entries map[string]*pendingEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*pendingEntry)}
}

func (r *registry) register(id string, kind entryKind, deadline time.Time) chan reply {
	sink := make(chan reply, 1)
	r.mu.Lock()
	r.entries[id] = &pendingEntry{kind: kind, sink: sink, deadline: deadline}
	r.mu.Unlock()
	return sink
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// resolveOutcome reports how a reply frame was handled against the
// pending registry (§4.3 frame classification rules).
type resolveOutcome int

const (
	// resolveOK: the id was pending with a matching kind; the sink was
	// delivered and the entry removed.
	resolveOK resolveOutcome = iota
	// resolveUnknown: no pending entry for this id (already settled,
	// timed out, or never issued).
	resolveUnknown
	// resolveKindMismatch: the id is pending but registered under a
	// different kind than the reply carries (§4.3: "If a reply's kind
	// does not match the registered entry's kind, the reply is logged
	// and dropped — the pending entry remains until its deadline").
	resolveKindMismatch
)

// resolve delivers a reply frame to its waiting sink if the pending
// entry for id exists and was registered under the same kind. A
// kind mismatch leaves the entry in place so its own deadline still
// governs it; only an id/kind match removes it.
func (r *registry) resolve(id string, kind entryKind, rep reply) resolveOutcome {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return resolveUnknown
	}
	if entry.kind != kind {
		r.mu.Unlock()
		return resolveKindMismatch
	}
	delete(r.entries, id)
	r.mu.Unlock()
	entry.sink <- rep
	return resolveOK
}

// closeAll releases every pending resolver (§5 Cancellation) by closing
// its sink, so each waiter receives a zero reply with ok == false. The
// bridge reports that the same way as an elapsed deadline.
func (r *registry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*pendingEntry)
	r.mu.Unlock()
	for _, entry := range entries {
		close(entry.sink)
	}
}
