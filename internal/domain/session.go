// Package domain contains the core session and safety types.
package domain

import (
	"sync"
	"time"

	"github.com/sanjit-mathur/mindmate/internal/wellness"
)

// Message roles as they appear on the wire to the model API.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// JournalSeed is the initial content of every session journal.
const JournalSeed = "Journal started."

// Named API keys held by a session.
const (
	KeyPrimary   = "primary"
	KeyDashboard = "dashboard"
)

// Message is a single transcript entry.
type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session holds all conversation state for one user tab. Everything lives
// in memory for the lifetime of the session and is discarded when the
// session expires.
type Session struct {
	UserID    string
	SessionID string
	CreatedAt time.Time

	Wellness *wellness.Tracker

	mu             sync.Mutex
	transcript     []Message
	journal        string
	directive      string
	severityWarned bool
	apiKeys        map[string]string
	lastDashboard  *DashboardInsight
	lastActive     time.Time
}

// NewSession creates an empty session for the given user/tab pair.
func NewSession(userID, sessionID string) *Session {
	now := time.Now()
	return &Session{
		UserID:     userID,
		SessionID:  sessionID,
		CreatedAt:  now,
		Wellness:   wellness.NewTracker(),
		journal:    JournalSeed,
		apiKeys:    make(map[string]string),
		lastActive: now,
	}
}

// Touch updates the last-active timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

// LastActive returns the last-active timestamp.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// AppendMessage appends a transcript entry. Transcript order is append
// order and reflects wall-clock turn order.
func (s *Session) AppendMessage(role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, Message{Role: role, Text: text, At: time.Now()})
	s.lastActive = time.Now()
}

// Transcript returns a copy of the full transcript.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// RecentMessages returns a copy of the last n transcript entries.
func (s *Session) RecentMessages(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= len(s.transcript) {
		out := make([]Message, len(s.transcript))
		copy(out, s.transcript)
		return out
	}
	out := make([]Message, n)
	copy(out, s.transcript[len(s.transcript)-n:])
	return out
}

// MessageCount returns the transcript length.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcript)
}

// Journal returns the running session journal.
func (s *Session) Journal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal
}

// AppendJournal appends a summarized exchange to the session journal.
func (s *Session) AppendJournal(userMessage, advisorSummary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal += "\n\nUser: " + userMessage + "\nAdvisor: " + advisorSummary
}

// Directive returns the active adaptive directive, if any.
func (s *Session) Directive() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directive
}

// SetDirective replaces the adaptive directive. At most one directive is
// active at a time; each new one displaces the previous.
func (s *Session) SetDirective(d string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directive = d
}

// MarkSeverityWarned latches the once-per-session support notice.
// It returns true the first time it is called on a session.
func (s *Session) MarkSeverityWarned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.severityWarned {
		return false
	}
	s.severityWarned = true
	return true
}

// SetAPIKeys stores the per-session model API keys. Empty values clear
// the corresponding key.
func (s *Session) SetAPIKeys(primary, dashboard string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKeys[KeyPrimary] = primary
	s.apiKeys[KeyDashboard] = dashboard
}

// PrimaryKey returns the session primary API key, or "" when unset.
func (s *Session) PrimaryKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[KeyPrimary]
}

// DashboardKey returns the session dashboard API key, falling back to
// the session primary key.
func (s *Session) DashboardKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k := s.apiKeys[KeyDashboard]; k != "" {
		return k
	}
	return s.apiKeys[KeyPrimary]
}

// SetLastDashboard stores the most recent dashboard insight.
func (s *Session) SetLastDashboard(d *DashboardInsight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDashboard = d
}

// LastDashboard returns the most recent dashboard insight, or nil.
func (s *Session) LastDashboard() *DashboardInsight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDashboard
}

// ResetConversation clears the transcript, journal, directive, severity
// latch, and dashboard. API keys and wellness progress survive a reset.
func (s *Session) ResetConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.journal = JournalSeed
	s.directive = ""
	s.severityWarned = false
	s.lastDashboard = nil
	s.lastActive = time.Now()
}
