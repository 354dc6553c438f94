package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TelegramId   string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	UsagePeriod  string     `gorm:"type:varchar(7);not null"`
	UsageCount   int        `gorm:"not null;default:0"`
	Mode         string     `gorm:"type:varchar(32);not null;default:''"`
	ActiveNoteId *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
