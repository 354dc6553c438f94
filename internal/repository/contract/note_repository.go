package contract

import (
	"context"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	DeactivateAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type NoteChunkRepository interface {
	Create(ctx context.Context, chunk *entity.NoteChunk) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error)
}
