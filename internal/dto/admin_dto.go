package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserStateResponse is the ops view of one chat.
type UserStateResponse struct {
	Id              uuid.UUID  `json:"id"`
	TelegramId      string     `json:"telegram_id"`
	UsagePeriod     string     `json:"usage_period"`
	UsageCount      int        `json:"usage_count"`
	UsageLimit      int        `json:"usage_limit"`
	Mode            string     `json:"mode"`
	ActiveNoteId    *uuid.UUID `json:"active_note_id"`
	ActiveSessionId *uuid.UUID `json:"active_session_id"`
	MessageCount    int64      `json:"message_count"`
	CreatedAt       time.Time  `json:"created_at"`
}
