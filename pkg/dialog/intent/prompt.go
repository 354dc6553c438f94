package intent

import (
	"fmt"
	"strings"

	"ai-voicebot-be/pkg/dialog/response"
)

// BuildReasoningPrompt asks for a single JSON verdict on the conversation.
func BuildReasoningPrompt(conversation string) string {
	return reasoningPromptHead + conversation + reasoningPromptTail
}

// BuildFallbackPrompt is the plain-text prompt used when the reasoning call
// itself failed.
func BuildFallbackPrompt(sessionContext, conversation string) string {
	if strings.TrimSpace(sessionContext) == "" {
		sessionContext = response.NoContextMarker
	}
	return fmt.Sprintf("سابقه:\n%s\n\n%s\nپاسخ به فارسی (حداکثر ۱۵۰۰ کاراکتر). اگر کاربر درباره ربات یا مشاوره حقوقی سوال کرد، توضیح دهید که این ربات می‌تواند پاسخ دهد، تصویر تولید کند، یادداشت بسازد و کاربران را برای مشاوره حقوقی رایگان به دکمه مربوطه هدایت کند.", sessionContext, conversation)
}

// StripFences removes a surrounding Markdown code fence, with or without a
// language tag.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = strings.TrimPrefix(s, fence)
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}
