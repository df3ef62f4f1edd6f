// Package prompt composes the system prompt and per-turn context sent to
// the conversational model.
package prompt

import (
	"strings"

	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/llm"
)

// PersonaTemplate is the static system prompt. Every composed prompt
// contains it verbatim.
const PersonaTemplate = `You are a compassionate and thoughtful companion. Your purpose is to provide a supportive, non-judgmental space. Your persona is warm, empathetic, and consistently human-like.
Core Directives:
1. Embody Empathy: Always start by validating the user's feelings.
2. Listen More, Advise Less: Guide with gentle, open-ended questions.
3. Introduce Concepts Naturally: Frame ideas from your knowledge base as shared wisdom.
4. Maintain a Safe Space: If a user expresses thoughts of self-harm, become clear and direct, guiding them to professional help.
5. Uphold Boundaries Gracefully: Never claim to be a human or a licensed therapist.`

const (
	conceptsHeader = "--- RELEVANT THERAPEUTIC CONCEPTS ---"
	journalHeader  = "--- CURRENT SESSION JOURNAL ---"
)

// historyWindow is how many prior transcript messages accompany each turn.
const historyWindow = 5

// SystemPrompt returns the persona template, extended with the adaptive
// directive when one is active.
func SystemPrompt(directive string) string {
	if strings.TrimSpace(directive) == "" {
		return PersonaTemplate
	}
	return PersonaTemplate + "\nDynamic Directive for This Turn: " + directive
}

// UserTurn builds the final user message: retrieved snippets, the session
// journal, then the latest message.
func UserTurn(message, journal string, snippets []domain.Snippet) string {
	var b strings.Builder
	if len(snippets) > 0 {
		b.WriteString(conceptsHeader)
		b.WriteString("\n")
		for i, s := range snippets {
			if i > 0 {
				b.WriteString("\n---\n")
			}
			b.WriteString(s.Text)
		}
		b.WriteString("\n")
	}
	if journal != "" {
		b.WriteString(journalHeader)
		b.WriteString("\n")
		b.WriteString(journal)
		b.WriteString("\n")
	}
	b.WriteString("\nUser's latest message: ")
	b.WriteString(message)
	return b.String()
}

// Messages assembles the full request: system prompt, the last few prior
// transcript messages, and the context-wrapped latest message. The
// transcript is expected to end with the user message being answered.
func Messages(transcript []domain.Message, journal, directive string, snippets []domain.Snippet) []llm.Message {
	out := []llm.Message{{Role: domain.RoleSystem, Content: SystemPrompt(directive)}}

	if len(transcript) == 0 {
		return out
	}

	latest := transcript[len(transcript)-1]
	prior := transcript[:len(transcript)-1]
	if len(prior) > historyWindow {
		prior = prior[len(prior)-historyWindow:]
	}
	for _, m := range prior {
		out = append(out, llm.Message{Role: m.Role, Content: m.Text})
	}

	out = append(out, llm.Message{
		Role:    domain.RoleUser,
		Content: UserTurn(latest.Text, journal, snippets),
	})
	return out
}
