package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanjit-mathur/mindmate/internal/identity"
	"github.com/sanjit-mathur/mindmate/internal/insights"
	"github.com/sanjit-mathur/mindmate/internal/llm"
	"github.com/sanjit-mathur/mindmate/internal/transcript"
)

// DashboardHandler handles dashboard insight endpoints.
type DashboardHandler struct {
	*Handler
	generator InsightGenerator
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *Handler, generator InsightGenerator) *DashboardHandler {
	return &DashboardHandler{Handler: base, generator: generator}
}

// RegisterRoutes registers dashboard routes.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Post("/", h.Generate)
		r.Get("/", h.Last)
	})
}

// Generate runs the dashboard model over the session journal and caches
// the result on the session.
func (h *DashboardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	sess := h.store.GetOrCreate(userID, sessionID)
	insight, err := h.generator.Generate(r.Context(), sess.DashboardKey(), sess.Journal())
	if err != nil {
		switch {
		case errors.Is(err, insights.ErrJournalTooShort):
			Error(w, http.StatusUnprocessableEntity, "chat a bit more before generating insights")
		case errors.Is(err, llm.ErrNoAPIKey):
			Error(w, http.StatusServiceUnavailable, "no API key configured for this session")
		default:
			slog.Error("Dashboard generation failed", "error", err, "user_id", userID)
			Error(w, http.StatusBadGateway, "could not generate insights, please try again")
		}
		return
	}

	sess.SetLastDashboard(&insight)
	h.log.Log(transcript.Event{
		Time:      time.Now(),
		UserID:    userID,
		SessionID: sessionID,
		EventType: transcript.EventDashboardDone,
	})
	JSON(w, http.StatusOK, insight)
}

// Last returns the most recently generated insight for the session.
func (h *DashboardHandler) Last(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	sess, ok := h.store.Get(userID, sessionID)
	if !ok || sess.LastDashboard() == nil {
		Error(w, http.StatusNotFound, "no insights generated yet")
		return
	}
	JSON(w, http.StatusOK, sess.LastDashboard())
}
