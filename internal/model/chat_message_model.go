package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID         `gorm:"type:uuid;not null;index:idx_chat_messages_session_created,priority:1"`
	UserId        uuid.UUID         `gorm:"type:uuid;not null;index:idx_chat_messages_user_created,priority:1"`
	Role          string            `gorm:"type:varchar(20);not null"`
	Content       string            `gorm:"type:text;not null"`
	UpdateId      string            `gorm:"type:varchar(32);index"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt     time.Time         `gorm:"autoCreateTime;index:idx_chat_messages_session_created,priority:2;index:idx_chat_messages_user_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
