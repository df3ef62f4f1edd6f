// Package safety implements the two-tier crisis check: a static keyword
// scan first, then a model-scored severity classification.
package safety

import (
	"strings"

	"github.com/sanjit-mathur/mindmate/internal/domain"
)

// CrisisKeywords is the fixed list checked against every user message.
var CrisisKeywords = []string{
	"suicide",
	"kill myself",
	"harm myself",
	"hurt myself",
	"want to die",
	"end my life",
}

// CrisisResponse is the static reply shown when a crisis keyword matches.
// No model is consulted for this turn.
const CrisisResponse = `It sounds like you are going through a very difficult time. Your safety is the most important thing, and there are people who want to support you right now.

Please reach out for immediate help. Here are some resources in India:
- Vandrevala Foundation Helpline: 9999666555 (24/7)
- KIRAN Mental Health Helpline: 1800-599-0019
- AASRA (Suicide Prevention): 9820466726 (24/7)`

// CheckKeywords scans a message for crisis keywords, case-insensitively.
// On a match it returns a high-severity keyword-sourced flag and true;
// otherwise it defers to the classifier and returns false.
func CheckKeywords(message string) (domain.FlagResult, bool) {
	lower := strings.ToLower(message)
	for _, kw := range CrisisKeywords {
		if strings.Contains(lower, kw) {
			return domain.FlagResult{
				Flagged:  true,
				Severity: domain.SeverityHigh,
				Source:   domain.FlagSourceKeyword,
			}, true
		}
	}
	return domain.FlagResult{Severity: domain.SeverityNone, Source: domain.FlagSourceKeyword}, false
}
