// Package extraction defines the pluggable task-extraction strategy:
// a provider maps raw meeting text to candidate action items. The
// worker consumes whichever provider it is configured with and treats
// any provider error as a job failure.
package extraction

import "context"

// ExtractedTask is one candidate action item pulled from raw text.
// Owner and DueDate are empty when the text did not yield them.
type ExtractedTask struct {
	Title      string  `json:"title"`
	Owner      string  `json:"owner,omitempty"`
	DueDate    string  `json:"dueDate,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Provider extracts candidate tasks from raw meeting text.
type Provider interface {
	// ExtractTasks maps raw text to candidate tasks. An empty result
	// with a nil error is a valid outcome (nothing actionable found).
	ExtractTasks(ctx context.Context, rawText string) ([]ExtractedTask, error)
}

// Provider name constants, used for configuration and flag values.
const (
	ProviderRules  = "rules"
	ProviderGemini = "gemini"
)
