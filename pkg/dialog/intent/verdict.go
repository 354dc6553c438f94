package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/dto"
)

// Verdict is the decoded classifier decision.
type Verdict interface {
	isVerdict()
}

// Answer is a text reply, already capped at the answer length.
type Answer struct {
	Text string
}

// ImageRequest carries an English prompt for the image generator.
type ImageRequest struct {
	Prompt string
}

func (Answer) isVerdict()       {}
func (ImageRequest) isVerdict() {}

type verdictPayload struct {
	NeedsImage *bool  `json:"needs_image"`
	Prompt     string `json:"prompt"`
	Response   string `json:"response"`
}

// Decode parses the reasoning output. Any shape other than the two agreed
// objects is an ErrClassificationParse.
func Decode(raw string) (Verdict, error) {
	cleaned := StripFences(raw)
	var p verdictPayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrClassificationParse, err)
	}
	if p.NeedsImage == nil {
		return nil, fmt.Errorf("%w: needs_image missing", dto.ErrClassificationParse)
	}
	if *p.NeedsImage {
		prompt := strings.TrimSpace(p.Prompt)
		if prompt == "" {
			return nil, fmt.Errorf("%w: empty prompt", dto.ErrClassificationParse)
		}
		return ImageRequest{Prompt: prompt}, nil
	}
	text := strings.TrimSpace(p.Response)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", dto.ErrClassificationParse)
	}
	return Answer{Text: Truncate(text)}, nil
}

// Truncate caps text at the maximum answer length in runes.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= constant.MaxAnswerLength {
		return text
	}
	return string(runes[:constant.MaxAnswerLength])
}
