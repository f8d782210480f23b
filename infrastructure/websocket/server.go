// Package websocket exposes the chat runtime over WebSocket connections.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"synaptik/auth"
	"synaptik/contract"
	"synaptik/domain"
	"time"

	"github.com/gorilla/websocket"
)

type Metrics interface {
	IncrFramesReceived()
	IncrFramesDropped()
	IncrMessages(accepted bool)
}

type Timeouts struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
}

// DefaultTimeouts pings at 9/10 of the pong deadline.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
	}
}

type Config struct {
	SendBufferSize int
	MaxFrameSize   int64
	AllowedOrigins []string
	Timeouts       Timeouts
}

// Server upgrades HTTP requests and runs one read pump and one write pump per connection.
type Server struct {
	log        *slog.Logger
	tokens     *auth.TokenManager
	lifecycle  contract.IConnectionLifecycle
	dispatcher contract.IDispatcher
	metrics    Metrics
	config     Config
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[domain.ConnID]*client
	wg      sync.WaitGroup
}

func NewServer(log *slog.Logger, tokens *auth.TokenManager, lifecycle contract.IConnectionLifecycle,
	dispatcher contract.IDispatcher, metrics Metrics, config Config) *Server {
	s := &Server{
		log:        log,
		tokens:     tokens,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		metrics:    metrics,
		config:     config,
		clients:    make(map[domain.ConnID]*client),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// ServeHTTP binds an identity from the token, if any, then serves the connection until it closes.
// A bad token, or a userId parameter the token does not prove, is refused with 401.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identify(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("WebSocket upgrade failed", "error", err)
		return
	}

	// The request context is not reliable once the connection is hijacked
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	session := domain.Session{ConnID: domain.ConnID(domain.NewID()), UserID: userID}
	c := newClient(s.log, conn, session, s.dispatcher, s.metrics, s.config.Timeouts, s.config.SendBufferSize)
	s.track(c)
	defer s.untrack(c)

	s.lifecycle.OnConnect(ctx, session, c)
	go c.writePump()

	c.readPump(ctx, s.config.MaxFrameSize)

	c.close()
	s.lifecycle.OnDisconnect(ctx, session.ConnID)
}

// Shutdown closes every live connection and waits for their handlers to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, c := range s.clients {
		c.close()
		// Unblocks the read pump
		_ = c.conn.SetReadDeadline(time.Now())
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) identify(r *http.Request) (domain.UserID, bool) {
	claimed := domain.UserID(r.URL.Query().Get("userId"))
	raw := auth.TokenFromRequest(r)
	if raw == "" {
		return "", claimed == ""
	}
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.log.Debug("WebSocket handshake rejected", "error", err)
		return "", false
	}
	if claimed != "" && claimed != claims.UserID {
		s.log.Debug("WebSocket handshake rejected", "claimed", claimed, "token_user", claims.UserID)
		return "", false
	}
	return claims.UserID, true
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.config.AllowedOrigins) == 0 || slices.Contains(s.config.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.config.AllowedOrigins, origin)
}

func (s *Server) track(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.session.ConnID] = c
	s.wg.Add(1)
}

func (s *Server) untrack(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.session.ConnID)
	s.wg.Done()
}
