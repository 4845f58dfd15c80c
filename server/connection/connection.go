// Package connection tracks connected spectators and fans broadcast
// messages out to them.
package connection

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one connected spectator.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Manager handles all spectator connections.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager.
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start processes connection events until ctx is cancelled. Run it in its
// own goroutine.
func (m *Manager) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		}
	}
}

// Broadcast queues a message for every connected spectator. Clients whose
// send buffer is full miss this message rather than stall the caller.
func (m *Manager) Broadcast(message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

// Count returns the number of connected spectators.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}
