package advisor

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM narrates answers through an OpenAI compatible chat completions
// endpoint. DeepSeek and other gateways are reached with a custom base URL.
type OpenAILLM struct {
	Provider string
	// Model is used unless a prompt names its own model.
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set TOWER_LLM_API_KEY")
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{Provider: provider, Model: model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.modelFor(prompt)),
		Messages: chatMessages(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", o.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", o.Provider)
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAILLM) modelFor(prompt Prompt) string {
	if prompt.Model != "" {
		return prompt.Model
	}
	return o.Model
}

// chatMessages lays out system instructions, prior turns and the operator
// prompt in that order.
func chatMessages(prompt Prompt) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.History)+2)
	msgs = append(msgs, openai.SystemMessage(prompt.System))
	for _, h := range prompt.History {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		case "system":
			msgs = append(msgs, openai.SystemMessage(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	return append(msgs, openai.UserMessage(prompt.User))
}
