package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanjit-mathur/mindmate/internal/identity"
	"github.com/sanjit-mathur/mindmate/internal/transcript"
)

// SessionHandler handles session state endpoints.
type SessionHandler struct {
	*Handler
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(base *Handler) *SessionHandler {
	return &SessionHandler{Handler: base}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/keys", h.SetKeys)
		r.Post("/reset", h.Reset)
	})
}

// Get returns the caller's session state. Keys are reported as booleans
// only, never echoed back.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	sess := h.store.GetOrCreate(userID, sessionID)
	JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":           sess.UserID,
		"session_id":        sess.SessionID,
		"created_at":        sess.CreatedAt,
		"message_count":     sess.MessageCount(),
		"transcript":        sess.Transcript(),
		"directive":         sess.Directive(),
		"has_api_key":       sess.PrimaryKey() != "",
		"has_dashboard_key": sess.DashboardKey() != "",
	})
}

type keysRequest struct {
	APIKey          string `json:"api_key"`
	DashboardAPIKey string `json:"dashboard_api_key"`
}

// SetKeys stores per-session API keys for the hosted models.
func (h *SessionHandler) SetKeys(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var req keysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := h.store.GetOrCreate(userID, sessionID)
	sess.SetAPIKeys(strings.TrimSpace(req.APIKey), strings.TrimSpace(req.DashboardAPIKey))

	JSON(w, http.StatusOK, map[string]interface{}{
		"has_api_key":       sess.PrimaryKey() != "",
		"has_dashboard_key": sess.DashboardKey() != "",
	})
}

// Reset clears the conversation state of the caller's session. API keys
// and wellness progress survive a reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	if sess, ok := h.store.Get(userID, sessionID); ok {
		sess.ResetConversation()
		h.log.Log(transcript.Event{
			Time:      time.Now(),
			UserID:    userID,
			SessionID: sessionID,
			EventType: transcript.EventSessionReset,
		})
	}
	JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
