package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-voicebot-be/pkg/llm"
)

const (
	MaxAudioBytes = 4 * 1024 * 1024

	transcriptionPrompt = "لطفاً این فایل صوتی را به متن پارسی دقیق رونویسی کنید. فقط متن رونویسی شده را خروجی دهید بدون هیچ توضیح اضافی."
)

var (
	ErrEmptyAudio    = errors.New("speech: audio is empty")
	ErrAudioTooLarge = errors.New("speech: audio exceeds size limit")
)

// Transcriber turns audio bytes into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// GeminiTranscriber reuses a multimodal completion model by sending the audio
// inline next to a fixed instruction.
type GeminiTranscriber struct {
	provider llm.MultimodalProvider
	maxBytes int
}

var _ Transcriber = &GeminiTranscriber{}

func NewGeminiTranscriber(provider llm.MultimodalProvider) *GeminiTranscriber {
	return &GeminiTranscriber{provider: provider, maxBytes: MaxAudioBytes}
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if len(audio) > t.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrAudioTooLarge, len(audio))
	}

	text, err := t.provider.GenerateParts(ctx, []llm.Part{
		llm.TextPart(transcriptionPrompt),
		llm.InlinePart(audio, mimeType),
	}, llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return strings.TrimSpace(text), nil
}
