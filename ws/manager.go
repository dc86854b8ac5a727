package ws

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"starwars-api/metrics"
)

// ErrNotConnected is returned by Publish when the user has no open feed.
var ErrNotConnected = errors.New("user not connected")

const writeWait = 10 * time.Second

// conn serializes writes; gorilla connections allow one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(messageType, payload)
}

// Manager keeps track of the favourites feed connection of each user.
type Manager struct {
	mu          sync.RWMutex
	connections map[uint]*conn // userID -> conn
}

func NewManager() *Manager {
	return &Manager{connections: make(map[uint]*conn)}
}

// Register registers a user connection, replacing any existing one.
func (m *Manager) Register(userID uint, ws *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.connections[userID]; ok {
		if old.ws == ws {
			return
		}
		// close old connection to avoid leaks
		_ = old.ws.Close()
	} else {
		metrics.WSConnectionsActive.Inc()
	}
	m.connections[userID] = &conn{ws: ws}
}

// Unregister removes the user's connection if it is still ws. A connection
// that was already replaced by a newer one is left alone.
func (m *Manager) Unregister(userID uint, ws *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.connections[userID]; ok && c.ws == ws {
		_ = c.ws.Close()
		delete(m.connections, userID)
		metrics.WSConnectionsActive.Dec()
	}
}

// Publish sends a text message to a user if connected.
func (m *Manager) Publish(userID uint, payload []byte) error {
	m.mu.RLock()
	c, ok := m.connections[userID]
	m.mu.RUnlock()
	if !ok {
		return ErrNotConnected
	}
	if err := c.write(websocket.TextMessage, payload); err != nil {
		return err
	}
	metrics.WSMessagesSent.Inc()
	return nil
}

// IsConnected returns whether a user currently has an open feed.
func (m *Manager) IsConnected(userID uint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.connections[userID]
	return ok
}

// List returns the connected user IDs in ascending order.
func (m *Manager) List() []uint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uint, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CloseAll closes every connection, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.connections {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = c.ws.Close()
		delete(m.connections, id)
		metrics.WSConnectionsActive.Dec()
	}
}
