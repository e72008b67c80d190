package ai

import "context"

// Prompt is a single completion request. Model overrides the client default
// when non-empty.
type Prompt struct {
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Completion is the raw text answer of a provider. The text is free-form;
// callers that need structure parse it themselves.
type Completion struct {
	Text  string
	Model string
}

type Client interface {
	Complete(ctx context.Context, p Prompt) (*Completion, error)
}
