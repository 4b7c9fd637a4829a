package advisor

import "context"

// MockLLM returns the reference answer unchanged. It is handy for local
// debugging of the narration path without calling an external model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	return prompt.Reference, nil
}
