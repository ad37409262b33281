package server

import (
	"sync"

	"wordduel/internal/model"
)

// ClientManager tracks live connections and hands out connection IDs.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*Client
	nextID  model.ConnID
}

// NewClientManager creates an empty manager. IDs start at 1; zero is
// reserved for "no connection".
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[model.ConnID]*Client),
		nextID:  1,
	}
}

// NextID reserves a fresh connection ID.
func (m *ClientManager) NextID() model.ConnID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return id
}

// Register adds a client under its ID.
func (m *ClientManager) Register(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
}

// Unregister removes the client. Idempotent.
func (m *ClientManager) Unregister(id model.ConnID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
}

// Get returns the client for a connection ID.
func (m *ClientManager) Get(id model.ConnID) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	return c, ok
}

// Send delivers a frame to a connection if it is still registered.
// A missing or slow client is not an error for the caller.
func (m *ClientManager) Send(id model.ConnID, frame []byte) {
	if c, ok := m.Get(id); ok {
		_ = c.Send(frame)
	}
}

// IsLive reports whether a connection ID is still registered.
func (m *ClientManager) IsLive(id model.ConnID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[id]
	return ok
}

// Count returns the number of live connections.
func (m *ClientManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// ForEach calls fn for every live client. fn must not call back into
// the manager.
func (m *ClientManager) ForEach(fn func(*Client)) {
	m.mu.RLock()
	snapshot := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		snapshot = append(snapshot, c)
	}
	m.mu.RUnlock()
	for _, c := range snapshot {
		fn(c)
	}
}
