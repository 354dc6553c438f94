package note

import (
	"context"
	"errors"
	"os"
	"testing"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/memory"
	"ai-voicebot-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullTextRoundTrip(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewStore().NewUnitOfWork(ctx)
	c := NewComposer("")
	noteId := uuid.New()

	text, err := c.FullText(ctx, uow, noteId)
	require.NoError(t, err)
	assert.Equal(t, "", text)

	require.NoError(t, c.AppendChunk(ctx, uow, noteId, "سلام"))
	require.NoError(t, c.AppendChunk(ctx, uow, noteId, "دنیا"))

	text, err = c.FullText(ctx, uow, noteId)
	require.NoError(t, err)
	assert.Equal(t, "سلام دنیا", text)
}

func TestAppendChunkRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewStore().NewUnitOfWork(ctx)
	c := NewComposer("")

	err := c.AppendChunk(ctx, uow, uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrEmptyChunk)
}

func TestStartSwapsActiveNote(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewStore().NewUnitOfWork(ctx)
	c := NewComposer("")
	userId := uuid.New()

	first, err := c.Start(ctx, uow, userId)
	require.NoError(t, err)
	second, err := c.Start(ctx, uow, userId)
	require.NoError(t, err)
	assert.NotEqual(t, first.Id, second.Id)

	active, err := uow.NoteRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId}, specification.ActiveOnly{})
	require.NoError(t, err)
	assert.Equal(t, second.Id, active.Id)

	count, err := uow.NoteRepository().Count(ctx, specification.UserOwnedBy{UserID: userId}, specification.ActiveOnly{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, c.Finish(ctx, uow, userId))
	require.NoError(t, c.Finish(ctx, uow, userId))
	count, err = uow.NoteRepository().Count(ctx, specification.UserOwnedBy{UserID: userId}, specification.ActiveOnly{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestExportRemovesArtifact(t *testing.T) {
	dir := t.TempDir()
	c := NewComposer(dir)

	var seen string
	err := c.Export(context.Background(), "متن یادداشت", func(ctx context.Context, path string) error {
		seen = path
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
		return errors.New("send failed")
	})

	assert.EqualError(t, err, "send failed")
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNoteEntityState(t *testing.T) {
	u := &entity.User{}
	id := uuid.New()
	u.EnterNoteMaking(id)
	assert.Equal(t, entity.NoteMakingState{NoteId: id}, u.State())
}
