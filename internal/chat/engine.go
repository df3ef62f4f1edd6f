// Package chat runs the synchronous turn loop: safety checks, retrieval,
// the main model call, and the post-turn journal and directive updates.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/llm"
	"github.com/sanjit-mathur/mindmate/internal/prompt"
	"github.com/sanjit-mathur/mindmate/internal/safety"
	"github.com/sanjit-mathur/mindmate/internal/transcript"
)

// ErrEmptyMessage is returned for blank user input.
var ErrEmptyMessage = errors.New("chat: message is empty")

// SupportNotice is shown once per session the first time the classifier
// scores a message as high severity.
const SupportNotice = "It seems like you are going through a significant challenge. Please remember that professional resources are available for immediate, confidential support."

// metaAnalysisMinMessages is the transcript size below which no adaptive
// directive is produced.
const metaAnalysisMinMessages = 4

// SnippetRetriever answers nearest-neighbor queries over the knowledge base.
type SnippetRetriever interface {
	TopK(ctx context.Context, query string, k int) ([]domain.Snippet, error)
}

// Config holds the models and retrieval width used per turn.
type Config struct {
	ChatModel     string
	ClassifyModel string
	TopK          int
}

// Engine orchestrates one chat turn at a time.
type Engine struct {
	completer  llm.Completer
	classifier *safety.Classifier
	retriever  SnippetRetriever
	log        transcript.Logger
	cfg        Config
}

// New builds an engine. retriever may be nil when no knowledge base is
// configured; log may be nil to disable transcript logging.
func New(completer llm.Completer, classifier *safety.Classifier, retriever SnippetRetriever, log transcript.Logger, cfg Config) *Engine {
	if log == nil {
		log = noopLog{}
	}
	return &Engine{
		completer:  completer,
		classifier: classifier,
		retriever:  retriever,
		log:        log,
		cfg:        cfg,
	}
}

type noopLog struct{}

func (noopLog) Log(transcript.Event) {}
func (noopLog) Close() error         { return nil }

// Result is the outcome of one turn.
type Result struct {
	Reply  string            `json:"reply"`
	Flag   domain.FlagResult `json:"flag"`
	Notice string            `json:"notice,omitempty"`
}

// Turn processes one user message synchronously. A crisis keyword match
// short-circuits before any model call; otherwise the message is scored,
// context is retrieved, and the chat model produces the reply. Journal
// and directive updates are best-effort and never fail the turn.
func (e *Engine) Turn(ctx context.Context, sess *domain.Session, message string) (Result, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return Result{}, ErrEmptyMessage
	}

	sess.AppendMessage(domain.RoleUser, msg)
	e.logEvent(sess, transcript.EventUserMessage, domain.RoleUser, msg, domain.FlagResult{})

	if flag, matched := safety.CheckKeywords(msg); matched {
		sess.AppendMessage(domain.RoleAssistant, safety.CrisisResponse)
		e.logEvent(sess, transcript.EventCrisisReply, domain.RoleAssistant, safety.CrisisResponse, flag)
		return Result{Reply: safety.CrisisResponse, Flag: flag}, nil
	}

	apiKey := sess.PrimaryKey()
	flag := e.classifier.Classify(ctx, apiKey, msg, sess.RecentMessages(5))

	notice := ""
	if flag.Severity == domain.SeverityHigh && sess.MarkSeverityWarned() {
		notice = SupportNotice
	}

	var snippets []domain.Snippet
	if e.retriever != nil {
		var err error
		snippets, err = e.retriever.TopK(ctx, msg, e.cfg.TopK)
		if err != nil {
			slog.Warn("Knowledge retrieval failed, continuing without context", "error", err)
			snippets = nil
		}
	}

	msgs := prompt.Messages(sess.Transcript(), sess.Journal(), sess.Directive(), snippets)
	reply, err := e.completer.Complete(ctx, llm.Request{
		Model:    e.cfg.ChatModel,
		APIKey:   apiKey,
		Messages: msgs,
	})
	if err != nil {
		return Result{Flag: flag, Notice: notice}, fmt.Errorf("chat completion: %w", err)
	}

	sess.AppendMessage(domain.RoleAssistant, reply)
	e.logEvent(sess, transcript.EventAssistantMessage, domain.RoleAssistant, reply, flag)

	e.updateJournal(ctx, sess, apiKey, msg, reply)
	e.refreshDirective(ctx, sess, apiKey)

	return Result{Reply: reply, Flag: flag, Notice: notice}, nil
}

// updateJournal summarizes the exchange with the classifier model and
// appends it to the running session journal.
func (e *Engine) updateJournal(ctx context.Context, sess *domain.Session, apiKey, userMsg, reply string) {
	instruction := fmt.Sprintf("Concisely summarize the key points from this exchange for a journal. User: '%s'. Advisor: '%s'", userMsg, reply)
	summary, err := e.completer.Complete(ctx, llm.Request{
		Model:  e.cfg.ClassifyModel,
		APIKey: apiKey,
		Messages: []llm.Message{
			{Role: domain.RoleSystem, Content: instruction},
		},
	})
	if err != nil {
		slog.Warn("Journal update failed", "error", err)
		return
	}
	sess.AppendJournal(userMsg, summary)
}

// refreshDirective asks the meta-analysis model for the next turn's
// adaptive directive once the conversation is long enough. The new
// directive displaces any previous one.
func (e *Engine) refreshDirective(ctx context.Context, sess *domain.Session, apiKey string) {
	if sess.MessageCount() < metaAnalysisMinMessages {
		return
	}

	recent := sess.RecentMessages(metaAnalysisMinMessages)
	var b strings.Builder
	for _, m := range recent {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
	}
	instruction := fmt.Sprintf("Meta-analyst AI: Based on the recent conversation, suggest ONE concise, actionable directive for the main AI to improve its next response (e.g., 'Focus on validation', 'Introduce a CBT technique'). Conversation:\n%s\nReturn ONLY the single directive.", b.String())

	directive, err := e.completer.Complete(ctx, llm.Request{
		Model:  e.cfg.ClassifyModel,
		APIKey: apiKey,
		Messages: []llm.Message{
			{Role: domain.RoleSystem, Content: instruction},
		},
	})
	if err != nil {
		slog.Warn("Meta-analysis failed, keeping previous directive", "error", err)
		return
	}
	sess.SetDirective(strings.TrimSpace(directive))
}

func (e *Engine) logEvent(sess *domain.Session, eventType, role, text string, flag domain.FlagResult) {
	e.log.Log(transcript.Event{
		UserID:    sess.UserID,
		SessionID: sess.SessionID,
		EventType: eventType,
		Role:      role,
		Text:      text,
		Flag:      flag,
	})
}
