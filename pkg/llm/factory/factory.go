package factory

import (
	"fmt"

	"ai-voicebot-be/pkg/llm"
	"ai-voicebot-be/pkg/llm/ollama"
	"ai-voicebot-be/pkg/llm/openrouter"
)

type SecondaryConfig struct {
	Provider  string // "openrouter" or "ollama"
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// NewSecondaryProvider builds the independent provider used when the primary tier fails.
func NewSecondaryProvider(cfg SecondaryConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "openrouter", "":
		return openrouter.NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.MaxTokens), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
