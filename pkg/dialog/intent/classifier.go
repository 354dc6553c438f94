package intent

import (
	"context"

	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/pkg/llm"
)

// Outcome is a classified turn. Fallback marks answers produced by the
// plain-text path after the reasoning call failed.
type Outcome struct {
	Verdict  Verdict
	Fallback bool
}

type Classifier struct {
	reasoner llm.LLMProvider
	answerer *Answerer
	logger   logger.ILogger
}

func NewClassifier(reasoner llm.LLMProvider, answerer *Answerer, log logger.ILogger) *Classifier {
	return &Classifier{reasoner: reasoner, answerer: answerer, logger: log}
}

// Classify decides between a text answer and an image request.
//
// A provider failure on the reasoning call switches to the fallback chain and
// always yields an Answer. A response that cannot be decoded is returned as an
// ErrClassificationParse and is never retried.
func (c *Classifier) Classify(ctx context.Context, sessionContext, conversation string) (*Outcome, error) {
	raw, err := c.reasoner.Generate(ctx, BuildReasoningPrompt(conversation), llm.WithTemperature(0))
	if err != nil {
		c.logger.Warn("LLM", "Reasoning call failed, using fallback chain", map[string]interface{}{
			"error": err.Error(),
		})
		text, _ := c.answerer.Ask(ctx, BuildFallbackPrompt(sessionContext, conversation))
		return &Outcome{Verdict: Answer{Text: Truncate(text)}, Fallback: true}, nil
	}

	verdict, err := Decode(raw)
	if err != nil {
		c.logger.Warn("LLM", "Reasoning response rejected", map[string]interface{}{
			"error": err.Error(),
			"raw":   raw,
		})
		return nil, err
	}
	return &Outcome{Verdict: verdict}, nil
}
