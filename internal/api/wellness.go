package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanjit-mathur/mindmate/internal/identity"
	"github.com/sanjit-mathur/mindmate/internal/wellness"
)

// WellnessHandler handles wellness tracking endpoints.
type WellnessHandler struct {
	*Handler
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(base *Handler) *WellnessHandler {
	return &WellnessHandler{Handler: base}
}

// RegisterRoutes registers wellness routes.
func (h *WellnessHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/wellness", func(r chi.Router) {
		r.Get("/", h.Snapshot)
		r.Get("/daily", h.Daily)
		r.Get("/challenges", h.Challenges)
		r.Post("/checkin", h.CheckIn)
		r.Post("/activity", h.Activity)
		r.Post("/challenge", h.CompleteChallenge)
	})
}

type checkInRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

// CheckIn logs a daily mood check-in and updates the streak.
func (h *WellnessHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mood == "" {
		Error(w, http.StatusBadRequest, "mood cannot be empty")
		return
	}

	sess := h.store.GetOrCreate(userID, sessionID)
	result := sess.Wellness.CheckIn(time.Now(), req.Mood, req.Note)
	JSON(w, http.StatusOK, result)
}

type activityRequest struct {
	Activity string `json:"activity"`
	Amount   int    `json:"amount"`
}

var activityStats = map[string]string{
	"meditation": wellness.StatMeditationMinutes,
	"journal":    wellness.StatJournalEntries,
	"breathing":  wellness.StatBreathingSessions,
	"mood":       wellness.StatMoodLogs,
	"gratitude":  wellness.StatGratitudeEntries,
}

// Activity records a completed wellness activity and awards any badges
// it unlocks.
func (h *WellnessHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stat, ok := activityStats[req.Activity]
	if !ok {
		Error(w, http.StatusBadRequest, "unknown activity")
		return
	}
	if req.Amount <= 0 {
		req.Amount = 1
	}

	sess := h.store.GetOrCreate(userID, sessionID)
	badges := sess.Wellness.RecordActivity(time.Now(), stat, req.Amount)
	JSON(w, http.StatusOK, map[string]interface{}{
		"recorded":   req.Activity,
		"new_badges": badges,
	})
}

// Challenges lists the challenge table with the caller's completions.
func (h *WellnessHandler) Challenges(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	sess := h.store.GetOrCreate(userID, sessionID)
	JSON(w, http.StatusOK, map[string]interface{}{
		"challenges": wellness.Challenges,
		"completed":  sess.Wellness.Snapshot().Challenges,
	})
}

type challengeRequest struct {
	ID string `json:"id"`
}

// CompleteChallenge marks a challenge done and awards its points.
func (h *WellnessHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := h.store.GetOrCreate(userID, sessionID)
	result, err := sess.Wellness.CompleteChallenge(time.Now(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, wellness.ErrUnknownChallenge):
			Error(w, http.StatusBadRequest, "unknown challenge")
		case errors.Is(err, wellness.ErrChallengeCompleted):
			Error(w, http.StatusConflict, "challenge already completed")
		default:
			Error(w, http.StatusInternalServerError, "could not complete challenge")
		}
		return
	}
	JSON(w, http.StatusOK, result)
}

// Snapshot returns the caller's wellness progress.
func (h *WellnessHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	sess := h.store.GetOrCreate(userID, sessionID)
	JSON(w, http.StatusOK, sess.Wellness.Snapshot())
}

// Daily returns the affirmation and wisdom quote for the current day.
func (h *WellnessHandler) Daily(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	JSON(w, http.StatusOK, map[string]interface{}{
		"affirmation": wellness.DailyAffirmation(now),
		"quote":       wellness.DailyQuote(now),
	})
}
