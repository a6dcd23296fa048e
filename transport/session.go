package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hexput/runtime/hexscript"
	"github.com/hexput/runtime/rpcbridge"
)

// Session owns one WebSocket connection: the router loop that reads
// and classifies inbound frames, the single outbound writer goroutine
// (§5 "shared resources... mutated only via a serialized interface"),
// and the bridge that correlates this connection's remote-function
// replies. One top-level request spawns one goroutine sharing the
// session's outbound channel and the bridge's registry.
type Session struct {
	conn   *websocket.Conn
	log    zerolog.Logger
	engine *hexscript.Engine
	bridge *rpcbridge.Bridge

	out    chan []byte
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Config carries the runtime's resource bounds into a session.
type Config struct {
	ProbeTimeout   time.Duration
	CallTimeout    time.Duration
	RecursionLimit int
}

func newSession(conn *websocket.Conn, log zerolog.Logger, cfg Config) *Session {
	s := &Session{
		conn:   conn,
		log:    log,
		engine: hexscript.NewEngine(hexscript.Config{RecursionLimit: cfg.RecursionLimit}),
		out:    make(chan []byte, 64),
	}
	s.bridge = rpcbridge.New(s, rpcbridge.Config{ProbeTimeout: cfg.ProbeTimeout, CallTimeout: cfg.CallTimeout})
	return s
}

// Send implements rpcbridge.Sender by queueing onto the single writer.
func (s *Session) Send(ctx context.Context, frame []byte) error {
	select {
	case s.out <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) sendJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal outbound frame")
		return
	}
	select {
	case s.out <- b:
	default:
		// Writer pump is the only consumer; a full buffer means the
		// connection is backed up. Block until it drains rather than drop.
		s.out <- b
	}
}

// Run drives the session until the connection closes (§5 Cancellation).
// It starts the writer pump, then loops reading frames and dispatching
// each to a freshly spawned task or the bridge's registry.
func (s *Session) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	defer cancel()

	var writerWG sync.WaitGroup
	writerWG.Add(1)
	go s.writePump(&writerWG)

	s.sendJSON(connectionFrame{Type: "connection", Status: "connected"})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Msg("session read loop ending")
			break
		}
		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed inbound frames are logged and ignored (§7 Policy).
			s.log.Warn().Err(err).Msg("dropping malformed inbound frame")
			continue
		}
		s.dispatch(ctx, &frame)
	}

	cancel()
	s.bridge.Close()
	s.wg.Wait()
	close(s.out)
	writerWG.Wait()
	_ = s.conn.Close()
}

func (s *Session) writePump(wg *sync.WaitGroup) {
	defer wg.Done()
	for frame := range s.out {
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			s.log.Debug().Err(err).Msg("write pump stopping")
			return
		}
	}
}

func (s *Session) dispatch(ctx context.Context, frame *inboundFrame) {
	switch classify(frame) {
	case frameBridgeReply:
		switch s.bridge.Resolve(frame.ID, frame.Exists, frame.Result, frame.Error) {
		case rpcbridge.ReplyKindMismatch:
			s.log.Warn().Str("id", frame.ID).Msg("dropping bridge reply: kind mismatch against pending entry")
		case rpcbridge.ReplyUnknown:
			s.log.Warn().Str("id", frame.ID).Msg("dropping bridge reply: no pending entry for id")
		}
	case frameRequest:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleRequest(ctx, frame)
		}()
	default:
		s.log.Warn().Str("action", frame.Action).Msg("dropping unrecognized inbound frame")
	}
}

func (s *Session) handleRequest(ctx context.Context, frame *inboundFrame) {
	switch frame.Action {
	case "parse":
		s.handleParse(frame)
	case "execute":
		s.handleExecute(ctx, frame)
	default:
		s.log.Warn().Str("action", frame.Action).Msg("unknown request action")
	}
}

func decodeOptions(raw json.RawMessage) (hexscript.Options, error) {
	opts := hexscript.DefaultOptions()
	if len(raw) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return hexscript.Options{}, err
	}
	return opts, nil
}

func (s *Session) handleParse(frame *inboundFrame) {
	opts, err := decodeOptions(frame.Options)
	if err != nil {
		s.sendJSON(parseResponse{ID: frame.ID, Success: false, Error: errField("TypeError: malformed options")})
		return
	}
	program, err := hexscript.Parse(frame.Code, opts.Flags())
	if err != nil {
		s.sendJSON(parseResponse{ID: frame.ID, Success: false, Error: errField(errorMessage(err))})
		return
	}
	s.sendJSON(parseResponse{ID: frame.ID, Success: true, Result: hexscript.ProgramJSON(program)})
}

func (s *Session) handleExecute(ctx context.Context, frame *inboundFrame) {
	opts, err := decodeOptions(frame.Options)
	if err != nil {
		s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField("TypeError: malformed options")})
		return
	}
	program, err := hexscript.Parse(frame.Code, opts.Flags())
	if err != nil {
		s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField(errorMessage(err))})
		return
	}

	contextVal := hexscript.NewObject(nil)
	if len(frame.Context) > 0 {
		contextVal, err = hexscript.JSONToValue(frame.Context)
		if err != nil {
			s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField("TypeError: malformed context")})
			return
		}
	}
	secretVal := hexscript.NewNull()
	if len(frame.SecretContext) > 0 {
		secretVal, err = hexscript.JSONToValue(frame.SecretContext)
		if err != nil {
			s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField("TypeError: malformed secret_context")})
			return
		}
	}

	exec := s.engine.NewExecution(ctx, opts.Flags(), s.bridge, secretVal)
	scope := hexscript.NewRootScope(contextVal)

	result, err := exec.Evaluate(program, scope)
	if err != nil {
		s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField(errorMessage(err))})
		return
	}

	resultJSON, err := hexscript.ValueToJSON(result)
	if err != nil {
		s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField("InternalError: " + err.Error())})
		return
	}
	var raw any
	if err := json.Unmarshal(resultJSON, &raw); err != nil {
		s.sendJSON(executeResponse{ID: frame.ID, Success: false, Error: errField("InternalError: " + err.Error())})
		return
	}
	s.sendJSON(executeResponse{ID: frame.ID, Success: true, Result: raw})
}
