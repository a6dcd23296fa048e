package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	srv := NewServer(zerolog.Nop(), Config{ProbeTimeout: time.Second, CallTimeout: time.Second, RecursionLimit: 64})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return ts, conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message failed: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal failed: %v (%s)", err, data)
	}
}

func TestSessionSendsConnectionFrameOnConnect(t *testing.T) {
	_, conn := newTestServer(t)

	var frame connectionFrame
	readJSON(t, conn, &frame)
	if frame.Type != "connection" || frame.Status != "connected" {
		t.Fatalf("expected {connection connected}, got %+v", frame)
	}
}

func TestSessionParseRoundTrip(t *testing.T) {
	_, conn := newTestServer(t)
	var connFrame connectionFrame
	readJSON(t, conn, &connFrame)

	req := map[string]any{
		"id":     "p1",
		"action": "parse",
		"code":   "let x = 1; return x;",
	}
	b, _ := json.Marshal(req)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var resp parseResponse
	readJSON(t, conn, &resp)
	if resp.ID != "p1" || !resp.Success {
		t.Fatalf("expected success parse response, got %+v", resp)
	}
	if resp.Result == nil {
		t.Fatalf("expected a non-nil AST result")
	}
}

func TestSessionExecuteReturnsValue(t *testing.T) {
	_, conn := newTestServer(t)
	var connFrame connectionFrame
	readJSON(t, conn, &connFrame)

	req := map[string]any{
		"id":     "e1",
		"action": "execute",
		"code":   "return 2 + 3;",
	}
	b, _ := json.Marshal(req)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var resp executeResponse
	readJSON(t, conn, &resp)
	if resp.ID != "e1" || !resp.Success {
		t.Fatalf("expected success execute response, got %+v", resp)
	}
	if n, ok := resp.Result.(float64); !ok || n != 5 {
		t.Fatalf("expected result 5, got %v (%T)", resp.Result, resp.Result)
	}
}

func TestSessionExecuteSeedsContext(t *testing.T) {
	_, conn := newTestServer(t)
	var connFrame connectionFrame
	readJSON(t, conn, &connFrame)

	req := map[string]any{
		"id":      "e2",
		"action":  "execute",
		"code":    "return userId;",
		"context": map[string]any{"userId": 42},
	}
	b, _ := json.Marshal(req)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var resp executeResponse
	readJSON(t, conn, &resp)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if n, ok := resp.Result.(float64); !ok || n != 42 {
		t.Fatalf("expected result 42, got %v", resp.Result)
	}
}

func TestSessionExecuteErrorIsShortForm(t *testing.T) {
	_, conn := newTestServer(t)
	var connFrame connectionFrame
	readJSON(t, conn, &connFrame)

	req := map[string]any{
		"id":     "e3",
		"action": "execute",
		"code":   "return nope();",
	}
	b, _ := json.Marshal(req)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// The runtime probes the client for nope first; answer that it does
	// not exist.
	var probe map[string]any
	readJSON(t, conn, &probe)
	if probe["action"] != "is_function_exists" || probe["function_name"] != "nope" {
		t.Fatalf("expected an existence probe for nope, got %v", probe)
	}
	reply, _ := json.Marshal(map[string]any{"id": probe["id"], "exists": false})
	if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var resp executeResponse
	readJSON(t, conn, &resp)
	if resp.Success {
		t.Fatalf("expected failure, got %+v", resp)
	}
	if resp.Error == nil || strings.Contains(*resp.Error, "\n") {
		t.Fatalf("expected a single-line short-form error, got %v", resp.Error)
	}
	if !strings.HasPrefix(*resp.Error, "FunctionNotFound:") {
		t.Fatalf("expected FunctionNotFound prefix, got %q", *resp.Error)
	}
}

func TestSessionMalformedFrameIsDroppedNotFatal(t *testing.T) {
	_, conn := newTestServer(t)
	var connFrame connectionFrame
	readJSON(t, conn, &connFrame)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	req := map[string]any{"id": "after", "action": "execute", "code": "return 1;"}
	b, _ := json.Marshal(req)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var resp executeResponse
	readJSON(t, conn, &resp)
	if resp.ID != "after" || !resp.Success {
		t.Fatalf("expected the session to survive the malformed frame and answer the next request, got %+v", resp)
	}
}
