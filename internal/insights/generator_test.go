package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sanjit-mathur/mindmate/internal/llm"
)

type fakeCompleter struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

const testJournal = `Journal started.

User: I have been struggling to sleep because of work deadlines.
Advisor: Validated the stress and suggested a wind-down routine before bed.`

const insightJSON = `{
	"sentiment": "Stressed but coping",
	"themes": ["Sleep", "Work Pressure", "Routines"],
	"recommendations": [
		{"suggestion": "Set a fixed wind-down hour", "reason": "Predictability lowers bedtime anxiety"},
		{"suggestion": "Write tomorrow's task list before dinner", "reason": "Externalizing tasks reduces rumination"}
	]
}`

func TestGenerate_JournalTooShort(t *testing.T) {
	fc := &fakeCompleter{}
	g := New(fc, "dash-model")

	_, err := g.Generate(context.Background(), "key", "Journal started.")
	if !errors.Is(err, ErrJournalTooShort) {
		t.Fatalf("Expected ErrJournalTooShort, got %v", err)
	}
	if len(fc.requests) != 0 {
		t.Error("Expected no model call for a short journal")
	}
}

func TestGenerate_CleanJSON(t *testing.T) {
	fc := &fakeCompleter{reply: insightJSON}
	g := New(fc, "dash-model")

	insight, err := g.Generate(context.Background(), "key", testJournal)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if insight.Sentiment != "Stressed but coping" {
		t.Errorf("Unexpected sentiment %q", insight.Sentiment)
	}
	if len(insight.Themes) != 3 {
		t.Errorf("Expected 3 themes, got %d", len(insight.Themes))
	}
	if len(insight.Recommendations) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(insight.Recommendations))
	}
	if insight.Recommendations[0].Suggestion == "" || insight.Recommendations[0].Reason == "" {
		t.Error("Expected populated recommendation fields")
	}
	if insight.GeneratedAt.IsZero() {
		t.Error("Expected GeneratedAt to be set")
	}
}

func TestGenerate_ProseWrappedJSON(t *testing.T) {
	fc := &fakeCompleter{reply: "Here is the summary you asked for:\n" + insightJSON + "\nHope this helps!"}
	g := New(fc, "dash-model")

	insight, err := g.Generate(context.Background(), "key", testJournal)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if insight.Sentiment != "Stressed but coping" {
		t.Errorf("Unexpected sentiment %q", insight.Sentiment)
	}
}

func TestGenerate_GarbageOutput(t *testing.T) {
	fc := &fakeCompleter{reply: "I am unable to summarize this journal."}
	g := New(fc, "dash-model")

	if _, err := g.Generate(context.Background(), "key", testJournal); err == nil {
		t.Fatal("Expected error for non-JSON output")
	}
}

func TestGenerate_ModelFailure(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("upstream down")}
	g := New(fc, "dash-model")

	if _, err := g.Generate(context.Background(), "key", testJournal); err == nil {
		t.Fatal("Expected error when model call fails")
	}
}

func TestGenerate_RequestsStrictSchema(t *testing.T) {
	fc := &fakeCompleter{reply: insightJSON}
	g := New(fc, "dash-model")

	if _, err := g.Generate(context.Background(), "key", testJournal); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	req := fc.requests[0]
	if req.Format == nil || req.Format.Name != "DashboardInsight" {
		t.Error("Expected a JSON schema response format")
	}
	if !strings.Contains(req.Messages[0].Content, "privacy-respecting") {
		t.Error("Expected the dashboard instruction in the prompt")
	}
}
