// Package server exposes a running game to spectators: a WebSocket stream
// of state updates plus small JSON endpoints for standings, state and the
// narration log. It is an observer only and never feeds input back into
// the game.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kurodenjiro/poker-x402-sub000/arena"
	"github.com/kurodenjiro/poker-x402-sub000/server/connection"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // spectator-only stream, no credentials involved
	},
}

// Server broadcasts arena updates over WebSocket and serves read-only
// JSON endpoints. It implements arena.StateSink.
type Server struct {
	connMgr *connection.Manager
	logger  zerolog.Logger

	mutex  sync.RWMutex
	latest *arena.Update

	httpServer *http.Server
}

// New creates a spectator server.
func New(logger zerolog.Logger) *Server {
	return &Server{
		connMgr: connection.NewManager(),
		logger:  logger.With().Str("component", "server").Logger(),
	}
}

// Publish implements arena.StateSink: it retains the update for the JSON
// endpoints and fans it out to every connected spectator. Slow spectators
// drop frames instead of blocking the game loop.
func (s *Server) Publish(update arena.Update) {
	s.mutex.Lock()
	s.latest = &update
	s.mutex.Unlock()

	payload, err := json.Marshal(update)
	if err != nil {
		s.logger.Error().Err(err).Msg("marshal update")
		return
	}
	s.connMgr.Broadcast(payload)
}

// Start serves HTTP on addr until ctx is cancelled. It blocks.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.connMgr.Start(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/standings", corsMiddleware(s.handleStandings))
	mux.HandleFunc("/api/state", corsMiddleware(s.handleState))
	mux.HandleFunc("/api/chat", corsMiddleware(s.handleChat))

	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("spectator server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// corsMiddleware adds permissive CORS headers for browser dashboards.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// handleWebSocket upgrades a spectator connection and starts its pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &connection.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	s.logger.Info().Str("client_id", client.ID).Str("remote", r.RemoteAddr).Msg("spectator connected")

	s.connMgr.Register <- client

	// A late joiner immediately receives the current state.
	s.mutex.RLock()
	if s.latest != nil {
		if payload, err := json.Marshal(*s.latest); err == nil {
			client.Send <- payload
		}
	}
	s.mutex.RUnlock()

	go s.readPump(client)
	go s.writePump(client)
}

// readPump drains incoming messages. Spectators have nothing to say; the
// read loop only exists to detect disconnects.
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister <- client
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug().Err(err).Str("client_id", client.ID).Msg("read error")
			}
			return
		}
	}
}

// writePump sends queued messages to the spectator.
func (s *Server) writePump(client *connection.Client) {
	defer client.Conn.Close()

	for {
		message, ok := <-client.Send
		if !ok {
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			s.logger.Debug().Err(err).Str("client_id", client.ID).Msg("write error")
			return
		}
	}
}

// handleStandings returns the current ranking order.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.latest == nil {
		http.Error(w, "no game yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.latest.Rankings)
}

// handleState returns the latest game snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.latest == nil {
		http.Error(w, "no game yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.latest.State)
}

// handleChat returns the narration log.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.latest == nil {
		http.Error(w, "no game yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.latest.Chat)
}
