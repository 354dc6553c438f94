package unitofwork

import (
	"context"

	"ai-voicebot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	NoteRepository() contract.NoteRepository
	NoteChunkRepository() contract.NoteChunkRepository
}
