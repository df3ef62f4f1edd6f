// Package api provides HTTP handlers for the Mindmate API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanjit-mathur/mindmate/internal/chat"
	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/session"
	"github.com/sanjit-mathur/mindmate/internal/transcript"
)

// TurnRunner runs one conversation turn. Implemented by *chat.Engine.
type TurnRunner interface {
	Turn(ctx context.Context, sess *domain.Session, message string) (chat.Result, error)
}

// InsightGenerator produces dashboard insights from a session journal.
// Implemented by *insights.Generator.
type InsightGenerator interface {
	Generate(ctx context.Context, apiKey, journal string) (domain.DashboardInsight, error)
}

// Handler provides common handler utilities.
type Handler struct {
	store  *session.Store
	engine TurnRunner
	log    transcript.Logger
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(store *session.Store, engine TurnRunner, log transcript.Logger) *Handler {
	if log == nil {
		log = transcript.NewNoop()
	}
	return &Handler{store: store, engine: engine, log: log}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store *session.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *session.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health returns the health status of the API.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"sessions": h.store.Len(),
	})
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
