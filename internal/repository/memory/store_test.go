package memory

import (
	"context"
	"testing"
	"time"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/contract"
	"ai-voicebot-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickingStore() *Store {
	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	n := 0
	return NewStore().WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	})
}

func TestRollbackUndoesWrites(t *testing.T) {
	ctx := context.Background()
	store := tickingStore()

	uow := store.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	user := &entity.User{TelegramId: "42", UsagePeriod: "2026-10"}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	require.NoError(t, uow.UserRepository().IncrementUsage(ctx, user.Id))
	require.NoError(t, uow.Commit())

	uow = store.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.UserRepository().IncrementUsage(ctx, user.Id))
	require.NoError(t, uow.ChatSessionRepository().Create(ctx, &entity.ChatSession{UserId: user.Id, IsActive: true}))
	require.NoError(t, uow.Rollback())

	uow = store.NewUnitOfWork(ctx)
	got, err := uow.UserRepository().FindOne(ctx, specification.ByTelegramID{TelegramID: "42"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.UsageCount)

	n, err := uow.ChatSessionRepository().Count(ctx, specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindOneMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	uow := tickingStore().NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByTelegramID{TelegramID: "nobody"})
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestActiveRecordConflicts(t *testing.T) {
	ctx := context.Background()
	uow := tickingStore().NewUnitOfWork(ctx)

	user := &entity.User{TelegramId: "7"}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	assert.ErrorIs(t, uow.UserRepository().Create(ctx, &entity.User{TelegramId: "7"}), contract.ErrActiveConflict)

	sessions := uow.ChatSessionRepository()
	require.NoError(t, sessions.Create(ctx, &entity.ChatSession{UserId: user.Id, IsActive: true}))
	assert.ErrorIs(t, sessions.Create(ctx, &entity.ChatSession{UserId: user.Id, IsActive: true}), contract.ErrActiveConflict)
	assert.NoError(t, sessions.Create(ctx, &entity.ChatSession{UserId: user.Id}))

	closed, err := sessions.DeactivateAllByUserId(ctx, user.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, closed)
	assert.NoError(t, sessions.Create(ctx, &entity.ChatSession{UserId: user.Id, IsActive: true}))

	notes := uow.NoteRepository()
	require.NoError(t, notes.Create(ctx, &entity.Note{UserId: user.Id, IsActive: true}))
	assert.ErrorIs(t, notes.Create(ctx, &entity.Note{UserId: user.Id, IsActive: true}), contract.ErrActiveConflict)
}

func TestMessageOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	uow := tickingStore().NewUnitOfWork(ctx)

	user := &entity.User{TelegramId: "9"}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	sess := &entity.ChatSession{UserId: user.Id, IsActive: true}
	require.NoError(t, uow.ChatSessionRepository().Create(ctx, sess))

	msgs := uow.ChatMessageRepository()
	for _, m := range []struct{ role, content string }{
		{constant.ChatMessageRoleUser, "one"},
		{constant.ChatMessageRoleAssistant, "two"},
		{constant.ChatMessageRoleSystem, "audit"},
		{constant.ChatMessageRoleUser, "three"},
	} {
		require.NoError(t, msgs.Create(ctx, &entity.ChatMessage{
			ChatSessionId: sess.Id,
			UserId:        user.Id,
			Role:          m.role,
			Content:       m.content,
		}))
	}

	latest, err := msgs.FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sess.Id},
		specification.ByRole{Roles: []string{constant.ChatMessageRoleUser, constant.ChatMessageRoleAssistant}},
		specification.Newest(),
		specification.Pagination{Limit: 2},
	)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "three", latest[0].Content)
	assert.Equal(t, "two", latest[1].Content)

	all, err := msgs.FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sess.Id}, specification.Oldest())
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "one", all[0].Content)
	assert.Equal(t, "three", all[3].Content)

	_, err = msgs.FindAll(ctx, specification.OrderBy{Field: "content"})
	assert.Error(t, err)
}

func TestUnsupportedSpecificationIsAnError(t *testing.T) {
	ctx := context.Background()
	uow := tickingStore().NewUnitOfWork(ctx)
	require.NoError(t, uow.NoteChunkRepository().Create(ctx, &entity.NoteChunk{Content: "x"}))

	_, err := uow.NoteChunkRepository().FindAll(ctx, specification.ActiveOnly{})
	assert.Error(t, err)
}

func TestBeginTwiceFails(t *testing.T) {
	ctx := context.Background()
	uow := tickingStore().NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}
