package history

import (
	"strings"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/pkg/dialog/response"
)

// Render prints turns as role-labelled lines, oldest first.
func Render(turns []*entity.ChatMessage) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, response.RoleLabel(t.Role)+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// WithTurn appends the incoming user text to a rendered window.
func WithTurn(window, text string) string {
	line := response.UserLabel + ": " + text
	if window == "" {
		return line
	}
	return window + "\n" + line
}
