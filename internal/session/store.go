// Package session keeps all live sessions in memory and reaps the ones
// that go idle. Nothing here is persisted.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sanjit-mathur/mindmate/internal/domain"
)

// Store is a mutex-guarded registry of live sessions keyed by
// userID:sessionID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	ttl      time.Duration
}

// NewStore creates a store. Sessions idle longer than ttl are removed by
// the sweeper.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
	}
}

func sessionKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

// GetOrCreate returns the session for a user/tab pair, creating it on
// first use.
func (s *Store) GetOrCreate(userID, sessionID string) *domain.Session {
	key := sessionKey(userID, sessionID)

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		sess.Touch()
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		sess.Touch()
		return sess
	}
	sess = domain.NewSession(userID, sessionID)
	s.sessions[key] = sess
	slog.Info("Session created", "user_id", userID, "session_id", sessionID)
	return sess
}

// Get returns the session if it exists.
func (s *Store) Get(userID, sessionID string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey(userID, sessionID)]
	return sess, ok
}

// Delete removes a session.
func (s *Store) Delete(userID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(userID, sessionID))
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepExpired removes sessions idle longer than the TTL and returns how
// many were removed.
func (s *Store) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, sess := range s.sessions {
		if now.Sub(sess.LastActive()) > s.ttl {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs the TTL sweep until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := s.SweepExpired(now); removed > 0 {
					slog.Info("Expired sessions removed", "count", removed)
				}
			}
		}
	}()
}
