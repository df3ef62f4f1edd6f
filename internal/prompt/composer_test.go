package prompt

import (
	"strings"
	"testing"

	"github.com/sanjit-mathur/mindmate/internal/domain"
)

func TestSystemPrompt_ContainsPersonaVerbatim(t *testing.T) {
	got := SystemPrompt("")
	if got != PersonaTemplate {
		t.Error("Expected bare persona when no directive is set")
	}

	withDirective := SystemPrompt("Focus on validation")
	if !strings.Contains(withDirective, PersonaTemplate) {
		t.Error("Expected persona verbatim in directive prompt")
	}
	if !strings.Contains(withDirective, "Dynamic Directive for This Turn: Focus on validation") {
		t.Error("Expected directive line")
	}
}

func TestUserTurn_Sections(t *testing.T) {
	snippets := []domain.Snippet{
		{Text: "Name the emotion to tame it.", Topic: "cbt"},
		{Text: "Breathing slows the stress response.", Topic: "breathing"},
	}
	got := UserTurn("I feel anxious", "Journal started.", snippets)

	conceptsIdx := strings.Index(got, conceptsHeader)
	journalIdx := strings.Index(got, journalHeader)
	messageIdx := strings.Index(got, "User's latest message: I feel anxious")
	if conceptsIdx < 0 || journalIdx < 0 || messageIdx < 0 {
		t.Fatalf("Missing section in composed turn:\n%s", got)
	}
	if !(conceptsIdx < journalIdx && journalIdx < messageIdx) {
		t.Error("Expected concepts, then journal, then message")
	}
	if !strings.Contains(got, "\n---\n") {
		t.Error("Expected snippet separator")
	}
}

func TestUserTurn_NoSnippetsNoJournal(t *testing.T) {
	got := UserTurn("hello", "", nil)
	if strings.Contains(got, conceptsHeader) || strings.Contains(got, journalHeader) {
		t.Error("Expected no section headers")
	}
	if !strings.HasSuffix(got, "User's latest message: hello") {
		t.Errorf("Unexpected composed turn: %q", got)
	}
}

func TestMessages_HistoryWindow(t *testing.T) {
	var transcript []domain.Message
	for i := 0; i < 10; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		transcript = append(transcript, domain.Message{Role: role, Text: "msg" + string(rune('0'+i))})
	}

	msgs := Messages(transcript, "journal text", "", nil)

	// system + 5 prior + wrapped latest
	if len(msgs) != 7 {
		t.Fatalf("Expected 7 messages, got %d", len(msgs))
	}
	if msgs[0].Role != domain.RoleSystem {
		t.Error("Expected system message first")
	}
	if msgs[1].Content != "msg4" {
		t.Errorf("Expected window to start at msg4, got %q", msgs[1].Content)
	}
	last := msgs[len(msgs)-1]
	if last.Role != domain.RoleUser {
		t.Error("Expected latest message to use the user role")
	}
	if !strings.Contains(last.Content, "msg9") {
		t.Error("Expected latest transcript text in final message")
	}
	if !strings.Contains(last.Content, "journal text") {
		t.Error("Expected journal in final message")
	}
}

func TestMessages_EmptyTranscript(t *testing.T) {
	msgs := Messages(nil, "", "", nil)
	if len(msgs) != 1 {
		t.Fatalf("Expected only the system message, got %d", len(msgs))
	}
}
