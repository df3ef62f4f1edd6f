package domain

// Snippet is one knowledge-base entry. Snippets are loaded once at
// process start and never mutated.
type Snippet struct {
	Text      string    `json:"text"`
	Topic     string    `json:"topic"`
	Embedding []float64 `json:"embedding,omitempty"`
}
