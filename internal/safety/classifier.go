package safety

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/llm"
)

// contextWindow is how many recent transcript entries accompany the
// message being scored.
const contextWindow = 4

var firstInt = regexp.MustCompile(`\d+`)

// Classifier scores message severity with a secondary model when the
// keyword scan did not match.
type Classifier struct {
	completer llm.Completer
	model     string
}

// NewClassifier builds a classifier using the given model.
func NewClassifier(completer llm.Completer, model string) *Classifier {
	return &Classifier{completer: completer, model: model}
}

// Classify scores one message from 1 (neutral) to 10 (crisis) and maps
// the score onto a severity grade. Malformed or failed model output falls
// back to severity none; there is no retry beyond the client's own.
func (c *Classifier) Classify(ctx context.Context, apiKey, message string, recent []domain.Message) domain.FlagResult {
	instruction := buildTriagePrompt(message, recent)

	reply, err := c.completer.Complete(ctx, llm.Request{
		Model:  c.model,
		APIKey: apiKey,
		Messages: []llm.Message{
			{Role: domain.RoleSystem, Content: instruction},
		},
	})
	if err != nil {
		slog.Warn("Severity classification failed, defaulting to none", "error", err)
		return domain.FlagResult{Severity: domain.SeverityNone, Source: domain.FlagSourceModel}
	}

	score, ok := extractScore(reply)
	if !ok {
		slog.Warn("Severity classifier returned unparseable output", "reply_len", len(reply))
		return domain.FlagResult{Severity: domain.SeverityNone, Source: domain.FlagSourceModel}
	}

	sev := SeverityFromScore(score)
	return domain.FlagResult{
		Flagged:  sev == domain.SeverityHigh,
		Severity: sev,
		Source:   domain.FlagSourceModel,
	}
}

func buildTriagePrompt(message string, recent []domain.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Triage bot: Analyze the user's message for mental health severity. Return ONLY a single integer from 1 to 10 (1=neutral, 10=crisis). Message: %q", message)
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}
	if len(recent) > 0 {
		b.WriteString("\nRecent context:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
		}
	}
	return b.String()
}

func extractScore(reply string) (int, bool) {
	m := firstInt.FindString(reply)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SeverityFromScore maps a 1-10 triage score onto a severity grade.
func SeverityFromScore(score int) domain.Severity {
	switch {
	case score >= 8:
		return domain.SeverityHigh
	case score >= 6:
		return domain.SeverityModerate
	case score >= 4:
		return domain.SeverityLow
	default:
		return domain.SeverityNone
	}
}
