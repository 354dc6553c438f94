package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByTelegramID struct {
	TelegramID string
}

func (s ByTelegramID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("telegram_id = ?", s.TelegramID)
}

// UserOwnedBy scopes sessions, messages and notes to one user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
