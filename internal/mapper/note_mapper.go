package mapper

import (
	"time"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		IsActive:  n.IsActive,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		IsActive:  n.IsActive,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *NoteMapper) ChunkToEntity(c *model.NoteChunk) *entity.NoteChunk {
	if c == nil {
		return nil
	}
	return &entity.NoteChunk{
		Id:        c.Id,
		NoteId:    c.NoteId,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func (m *NoteMapper) ChunkToModel(c *entity.NoteChunk) *model.NoteChunk {
	if c == nil {
		return nil
	}
	return &model.NoteChunk{
		Id:        c.Id,
		NoteId:    c.NoteId,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
