package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanjit-mathur/mindmate/internal/chat"
	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/identity"
	"github.com/sanjit-mathur/mindmate/internal/llm"
)

// ChatHandler handles the REST chat endpoint.
type ChatHandler struct {
	*Handler
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(base *Handler) *ChatHandler {
	return &ChatHandler{Handler: base}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat/message", h.Message)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply  string            `json:"reply"`
	Flag   domain.FlagResult `json:"flag"`
	Notice string            `json:"notice,omitempty"`
}

// Message runs one conversation turn for the caller's session.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := h.store.GetOrCreate(userID, sessionID)
	result, err := h.engine.Turn(r.Context(), sess, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			Error(w, http.StatusBadRequest, "message cannot be empty")
		case errors.Is(err, llm.ErrNoAPIKey):
			Error(w, http.StatusServiceUnavailable, "no API key configured for this session")
		default:
			slog.Error("Chat turn failed", "error", err, "user_id", userID)
			Error(w, http.StatusBadGateway, "the advisor is unavailable right now, please try again")
		}
		return
	}

	JSON(w, http.StatusOK, chatResponse{
		Reply:  result.Reply,
		Flag:   result.Flag,
		Notice: result.Notice,
	})
}
