package intent

import (
	"context"
	"errors"
	"strings"

	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/pkg/dialog/response"
	"ai-voicebot-be/pkg/llm"
)

var ErrEmptyAnswer = errors.New("completion returned empty text")

// Answerer runs plain-text prompts through the provider fallback chain.
type Answerer struct {
	chain  llm.LLMProvider
	logger logger.ILogger
}

func NewAnswerer(chain llm.LLMProvider, log logger.ILogger) *Answerer {
	return &Answerer{chain: chain, logger: log}
}

// Ask returns the completion text. When every provider fails it returns the
// fixed apology together with the error, so callers can always show text.
func (a *Answerer) Ask(ctx context.Context, prompt string) (string, error) {
	out, err := a.chain.Generate(ctx, prompt)
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = ErrEmptyAnswer
		}
	}
	if err != nil {
		a.logger.Error("LLM", "All completion tiers failed", map[string]interface{}{
			"error": err.Error(),
		})
		return response.AIApology, err
	}
	return out, nil
}
