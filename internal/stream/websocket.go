package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/sanjit-mathur/mindmate/internal/chat"
	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/identity"
	"github.com/sanjit-mathur/mindmate/internal/session"
)

// turnTimeout bounds a single chat turn; the free hosted models can be
// slow under load.
const turnTimeout = 3 * time.Minute

// TurnRunner runs one conversation turn. Implemented by *chat.Engine.
type TurnRunner interface {
	Turn(ctx context.Context, sess *domain.Session, message string) (chat.Result, error)
}

// WebSocketHandler handles WebSocket-based chat sessions.
type WebSocketHandler struct {
	store         *session.Store
	engine        TurnRunner
	registry      *Registry
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(store *session.Store, engine TurnRunner, registry *Registry, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		store:         store,
		engine:        engine,
		registry:      registry,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsMessage represents the WebSocket message structure for both
// directions. Client sends {type: "message", content: ...}; the server
// replies with {type: "reply", ...} or {type: "error", ...}.
type wsMessage struct {
	Type    string             `json:"type"`
	Content string             `json:"content,omitempty"`
	Flag    *domain.FlagResult `json:"flag,omitempty"`
	Notice  string             `json:"notice,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("WebSocket connection request", "user_id", userID, "session_id", sessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.registry.Register(userID, sessionID, ws)
	defer h.registry.Unregister(userID, sessionID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := h.store.GetOrCreate(userID, sessionID)
	h.readLoop(ctx, ws, sess, userID)
	slog.Info("Chat session ended", "user_id", userID, "session_id", sessionID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, sess *domain.Session, userID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Treat raw text frames as chat messages.
			msg = wsMessage{Type: "message", Content: string(data)}
		}

		switch msg.Type {
		case "message":
			h.runTurn(ctx, ws, sess, msg.Content, userID)
		case "ping":
			if err := h.writeJSON(ws, wsMessage{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		default:
			if err := h.writeJSON(ws, wsMessage{Type: "error", Content: "unknown message type"}); err != nil {
				slog.Debug("Failed to send error", "error", err)
			}
		}
	}
}

func (h *WebSocketHandler) runTurn(ctx context.Context, ws *websocket.Conn, sess *domain.Session, content, userID string) {
	turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	result, err := h.engine.Turn(turnCtx, sess, content)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			if werr := h.writeJSON(ws, wsMessage{Type: "error", Content: "message cannot be empty"}); werr != nil {
				slog.Debug("Failed to send error", "error", werr)
			}
			return
		}
		slog.Error("Chat turn failed", "error", err, "user_id", userID)
		reply := wsMessage{Type: "error", Content: "the advisor is unavailable right now, please try again"}
		if result.Flag.Flagged {
			reply.Flag = &result.Flag
			reply.Notice = result.Notice
		}
		if werr := h.writeJSON(ws, reply); werr != nil {
			slog.Debug("Failed to send error", "error", werr)
		}
		return
	}

	reply := wsMessage{Type: "reply", Content: result.Reply, Notice: result.Notice}
	if result.Flag.Flagged || result.Flag.Severity != domain.SeverityNone {
		reply.Flag = &result.Flag
	}
	if err := h.writeJSON(ws, reply); err != nil {
		slog.Debug("Failed to send reply", "error", err, "user_id", userID)
	}
}

func (h *WebSocketHandler) writeJSON(ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(context.Background(), websocket.MessageText, data)
}
