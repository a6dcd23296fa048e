package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Server is the one WebSocket endpoint of §6: every successful upgrade
// becomes a Session running on its own goroutine, with no state shared
// across sessions.
type Server struct {
	log      zerolog.Logger
	cfg      Config
	upgrader websocket.Upgrader
	http     *http.Server
}

func NewServer(log zerolog.Logger, cfg Config) *Server {
	s := &Server{
		log: log,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleUpgrade)
	s.http = &http.Server{Handler: mux}
	return s
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	session := newSession(conn, s.log.With().Str("component", "session").Logger(), s.cfg)
	s.log.Info().Str("remote", r.RemoteAddr).Msg("session connected")
	session.Run()
	s.log.Info().Str("remote", r.RemoteAddr).Msg("session closed")
}

// Handler exposes the upgrade endpoint for tests that want to drive a
// Server through httptest.Server instead of a bound TCP port.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe binds address:port and blocks until the listener
// fails or ctx is cancelled; a bind failure is the caller's signal to
// exit with code 2 (§6).
func (s *Server) ListenAndServe(ctx context.Context, address string, port int) error {
	s.http.Addr = fmt.Sprintf("%s:%d", address, port)

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
