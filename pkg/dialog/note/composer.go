package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/pkg/docexport"

	"github.com/google/uuid"
)

var ErrEmptyChunk = errors.New("note chunk is empty")

// Composer accumulates dictated chunks into notes.
type Composer struct {
	tempDir string
}

// NewComposer writes export artifacts under tempDir, or the OS default when empty.
func NewComposer(tempDir string) *Composer {
	return &Composer{tempDir: tempDir}
}

// Start swaps the user's active note for a fresh one. It must run inside the
// transaction that holds the user row.
func (c *Composer) Start(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.Note, error) {
	if err := c.Finish(ctx, uow, userId); err != nil {
		return nil, err
	}
	n := &entity.Note{UserId: userId, IsActive: true}
	if err := uow.NoteRepository().Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Finish deactivates every active note of the user. Idempotent.
func (c *Composer) Finish(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	if _, err := uow.NoteRepository().DeactivateAllByUserId(ctx, userId); err != nil {
		return fmt.Errorf("deactivate notes: %w", err)
	}
	return nil
}

func (c *Composer) AppendChunk(ctx context.Context, uow unitofwork.UnitOfWork, noteId uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyChunk
	}
	if err := uow.NoteChunkRepository().Create(ctx, &entity.NoteChunk{NoteId: noteId, Content: text}); err != nil {
		return fmt.Errorf("append chunk: %w", err)
	}
	return nil
}

// FullText joins the chunks of a note in creation order with single spaces.
func (c *Composer) FullText(ctx context.Context, uow unitofwork.UnitOfWork, noteId uuid.UUID) (string, error) {
	chunks, err := uow.NoteChunkRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.Oldest(),
	)
	if err != nil {
		return "", fmt.Errorf("load chunks: %w", err)
	}
	parts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		parts = append(parts, ch.Content)
	}
	return strings.Join(parts, " "), nil
}

// Export renders text to a temporary Word file and hands its path to send.
// The file is removed once send returns, whatever the outcome.
func (c *Composer) Export(ctx context.Context, text string, send func(ctx context.Context, path string) error) error {
	path, cleanup, err := docexport.WriteTemp(c.tempDir, text)
	if err != nil {
		return fmt.Errorf("export note: %w", err)
	}
	defer cleanup()
	return send(ctx, path)
}
