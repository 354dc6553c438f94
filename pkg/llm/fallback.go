package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-voicebot-be/internal/pkg/logger"
)

type Tier struct {
	Name     string
	Provider LLMProvider
	Options  []Option
}

var ErrEmptyCompletion = errors.New("completion returned empty text")

// FallbackChain asks each tier in order and returns the first non-blank answer.
// Provider errors and blank answers move the chain forward; there are no retries.
type FallbackChain struct {
	tiers  []Tier
	logger logger.ILogger
}

var _ LLMProvider = &FallbackChain{}

func NewFallbackChain(log logger.ILogger, tiers ...Tier) *FallbackChain {
	return &FallbackChain{tiers: tiers, logger: log}
}

func (c *FallbackChain) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	var errs []error
	for _, tier := range c.tiers {
		if tier.Provider == nil {
			continue
		}
		tierOpts := append(append([]Option{}, tier.Options...), opts...)
		out, err := tier.Provider.Chat(ctx, history, tierOpts...)
		if err == nil && strings.TrimSpace(out) != "" {
			return out, nil
		}
		if err == nil {
			err = ErrEmptyCompletion
		}
		c.logger.Warn("LLM", "Completion tier failed", map[string]interface{}{
			"tier":  tier.Name,
			"error": err.Error(),
		})
		errs = append(errs, fmt.Errorf("%s: %w", tier.Name, err))
	}
	if len(errs) == 0 {
		return "", errors.New("no completion provider configured")
	}
	return "", errors.Join(errs...)
}

func (c *FallbackChain) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return c.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}
