package model

import (
	"time"

	"github.com/google/uuid"
)

// At most one active row per user is enforced by the partial unique index
// idx_chat_sessions_one_active created in cmd/migrate.
type ChatSession struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive  bool      `gorm:"not null;index"`
	Context   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
