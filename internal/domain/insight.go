package domain

import "time"

// Recommendation is one actionable suggestion on the dashboard.
type Recommendation struct {
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// DashboardInsight is the structured summary of a session, produced on
// demand by the dashboard model from the session journal.
type DashboardInsight struct {
	Sentiment       string           `json:"sentiment"`
	Themes          []string         `json:"themes"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
