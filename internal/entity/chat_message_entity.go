package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UserId        uuid.UUID
	Role          string
	Content       string
	UpdateId      string // correlation id of the inbound update, audit only
	Metadata      map[string]interface{}
	CreatedAt     time.Time
}
