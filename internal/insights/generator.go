// Package insights generates the structured session dashboard from the
// running journal.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/llm"
)

// minJournalChars guards against generating insights from a journal too
// short to say anything meaningful.
const minJournalChars = 100

// ErrJournalTooShort is returned when the journal has not accumulated
// enough material for insights.
var ErrJournalTooShort = errors.New("insights: journal is too short for meaningful insights")

// insightPayload is the shape requested from the dashboard model.
type insightPayload struct {
	Sentiment       string   `json:"sentiment"`
	Themes          []string `json:"themes"`
	Recommendations []struct {
		Suggestion string `json:"suggestion"`
		Reason     string `json:"reason"`
	} `json:"recommendations"`
}

var insightSchema = llm.GenerateSchema[insightPayload]()

// Generator produces dashboard insights with the dashboard model.
type Generator struct {
	completer llm.Completer
	model     string
}

// New builds a generator using the given model.
func New(completer llm.Completer, model string) *Generator {
	return &Generator{completer: completer, model: model}
}

// Generate asks the dashboard model for a structured summary of the
// journal. The response is requested as strict JSON; parsing tolerates
// prose-wrapped output, but a reply with no usable JSON is an error.
func (g *Generator) Generate(ctx context.Context, apiKey, journal string) (domain.DashboardInsight, error) {
	if len(strings.TrimSpace(journal)) < minJournalChars {
		return domain.DashboardInsight{}, ErrJournalTooShort
	}

	instruction := fmt.Sprintf(`Analyze the following journal text. Provide a privacy-respecting summary as a JSON object with three keys:
1. "sentiment": A single string describing the overall mood (e.g., "Anxious but hopeful").
2. "themes": A list of 3-4 main string topics (e.g., "Work-Life Balance").
3. "recommendations": A list of 2-3 JSON objects. Each object must have two keys: "suggestion" (an actionable idea) and "reason" (why it might help).
Journal: %q
Respond with ONLY the raw JSON object.`, journal)

	reply, err := g.completer.Complete(ctx, llm.Request{
		Model:  g.model,
		APIKey: apiKey,
		Messages: []llm.Message{
			{Role: domain.RoleSystem, Content: instruction},
		},
		Format: &llm.JSONSchemaFormat{
			Name:        "DashboardInsight",
			Description: "Session dashboard insight JSON",
			Schema:      insightSchema,
		},
	})
	if err != nil {
		return domain.DashboardInsight{}, fmt.Errorf("dashboard completion: %w", err)
	}

	var payload insightPayload
	if err := llm.DecodeJSON(reply, &payload); err != nil {
		return domain.DashboardInsight{}, fmt.Errorf("parse dashboard insight: %w", err)
	}

	insight := domain.DashboardInsight{
		Sentiment:   strings.TrimSpace(payload.Sentiment),
		Themes:      payload.Themes,
		GeneratedAt: time.Now(),
	}
	for _, r := range payload.Recommendations {
		insight.Recommendations = append(insight.Recommendations, domain.Recommendation{
			Suggestion: r.Suggestion,
			Reason:     r.Reason,
		})
	}
	return insight, nil
}
