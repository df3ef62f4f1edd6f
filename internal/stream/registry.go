// Package stream provides the WebSocket chat transport.
package stream

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Registry tracks active WebSocket connections per user and session.
// A session has at most one active connection; a new connection for the
// same session replaces the old one.
type Registry struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// Register records conn as the active connection for the given user and
// session, closing any previous connection for the same session.
func (r *Registry) Register(userID, sessionID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, ok := r.active[userID]
	if !ok {
		byUser = make(map[string]*websocket.Conn)
		r.active[userID] = byUser
	}

	if old, ok := byUser[sessionID]; ok && old != conn {
		old.Close(websocket.StatusPolicyViolation, "replaced by new connection")
		slog.Info("replaced chat connection", "user_id", userID, "session_id", sessionID)
	}
	byUser[sessionID] = conn
}

// Unregister removes conn if it is still the active connection for the
// given user and session.
func (r *Registry) Unregister(userID, sessionID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, ok := r.active[userID]
	if !ok {
		return
	}
	if byUser[sessionID] != conn {
		return
	}
	delete(byUser, sessionID)
	if len(byUser) == 0 {
		delete(r.active, userID)
	}
}

// Get returns the active connection for the given user and session.
func (r *Registry) Get(userID, sessionID string) (*websocket.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.active[userID][sessionID]
	return conn, ok
}

// Count returns the number of active connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, byUser := range r.active {
		n += len(byUser)
	}
	return n
}

// CloseAll closes every active connection, used during shutdown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, byUser := range r.active {
		for sessionID, conn := range byUser {
			conn.Close(websocket.StatusGoingAway, reason)
			delete(byUser, sessionID)
		}
		delete(r.active, userID)
	}
}
