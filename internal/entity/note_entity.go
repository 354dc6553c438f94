package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type NoteChunk struct {
	Id        uuid.UUID
	NoteId    uuid.UUID
	Content   string
	CreatedAt time.Time
}
