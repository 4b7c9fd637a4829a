package advisor

import "context"

// LLMClient abstracts the language model that narrates canned answers,
// so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration of a concrete client.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
