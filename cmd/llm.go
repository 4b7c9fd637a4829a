package cmd

import (
	"fmt"

	"logistics_control_tower/advisor"
	"logistics_control_tower/config"
)

// buildLLM returns the narrator for cfg, nil when narration is off.
func buildLLM(cfg config.Config) (advisor.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "":
		return nil, nil
	case "mock":
		return advisor.MockLLM{}, nil
	case "openai", "deepseek":
		// DeepSeek is reached through its OpenAI compatible endpoint.
		return advisor.NewOpenAILLMFromConfig(&advisor.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

// newResponder wires the assistant responder from cfg.
func newResponder(cfg config.Config) (*advisor.Responder, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	opts := []advisor.Option{advisor.WithDefaultModel(cfg.DefaultModel)}
	if llm != nil {
		opts = append(opts, advisor.WithLLM(llm))
	}
	return advisor.NewResponder(opts...), nil
}
