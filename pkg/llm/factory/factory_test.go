package factory

import (
	"testing"

	"ai-voicebot-be/pkg/llm/ollama"
	"ai-voicebot-be/pkg/llm/openrouter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecondaryProvider(t *testing.T) {
	p, err := NewSecondaryProvider(SecondaryConfig{Provider: "", APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &openrouter.OpenRouterProvider{}, p)

	p, err = NewSecondaryProvider(SecondaryConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	_, err = NewSecondaryProvider(SecondaryConfig{Provider: "anthropic"})
	assert.EqualError(t, err, "unsupported LLM provider: anthropic")
}
