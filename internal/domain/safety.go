package domain

// Severity grades the risk level of a user message.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// FlagSource identifies which check produced a flag result.
type FlagSource string

const (
	FlagSourceKeyword FlagSource = "keyword"
	FlagSourceModel   FlagSource = "model"
)

// FlagResult is the outcome of the two-tier safety check for one message.
type FlagResult struct {
	Flagged  bool       `json:"flagged"`
	Severity Severity   `json:"severity"`
	Source   FlagSource `json:"source"`
}
