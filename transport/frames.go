package transport

import (
	"encoding/json"

	"github.com/hexput/runtime/hexscript"
)

// errorMessage renders the response "error" field: the short
// "<Kind>: <Message>" form for a RuntimeError (§6, §8 scenario 3),
// falling back to Error() for anything else (e.g. ParseError, which
// already includes its location in that form).
func errorMessage(err error) string {
	if re, ok := err.(*hexscript.RuntimeError); ok {
		return re.Short()
	}
	return err.Error()
}

// inboundFrame is decoded just enough to classify the frame (§5
// Ordering, §6 Inbound request shapes) before the router dispatches it
// to a request handler or the bridge's pending registry.
type inboundFrame struct {
	ID            string          `json:"id"`
	Action        string          `json:"action"`
	Code          string          `json:"code"`
	Options       json.RawMessage `json:"options"`
	Context       json.RawMessage `json:"context"`
	SecretContext json.RawMessage `json:"secret_context"`

	// Bridge reply shapes share the envelope but carry none of the
	// request fields above.
	Exists *bool           `json:"exists"`
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// frameKind classifies one decoded inboundFrame per §6/§5: a request
// carries "action"; a probe reply carries "exists"; a call reply
// carries "result" and/or "error".
type frameKind int

const (
	frameUnknown frameKind = iota
	frameRequest
	frameBridgeReply
)

func classify(f *inboundFrame) frameKind {
	if f.Action != "" {
		return frameRequest
	}
	if f.Exists != nil {
		return frameBridgeReply
	}
	if f.Result != nil || f.Error != nil {
		return frameBridgeReply
	}
	return frameUnknown
}

type connectionFrame struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type parseResponse struct {
	ID      string  `json:"id"`
	Success bool    `json:"success"`
	Result  any     `json:"result,omitempty"`
	Error   *string `json:"error,omitempty"`
}

type executeResponse struct {
	ID      string  `json:"id"`
	Success bool    `json:"success"`
	Result  any     `json:"result,omitempty"`
	Error   *string `json:"error,omitempty"`
}

func errField(msg string) *string { return &msg }
