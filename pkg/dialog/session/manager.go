package session

import (
	"context"
	"fmt"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/pkg/dialog/history"
	"ai-voicebot-be/pkg/dialog/intent"
	"ai-voicebot-be/pkg/dialog/response"

	"github.com/google/uuid"
)

// Manager keeps the one-active-session rule and serves bounded history.
// Methods that create or deactivate sessions expect the caller to hold the
// user row lock.
type Manager struct {
	answerer *intent.Answerer
}

func NewManager(answerer *intent.Answerer) *Manager {
	return &Manager{answerer: answerer}
}

// ActiveSession returns the active session or nil. If the store ever holds
// more than one, the oldest wins.
func (m *Manager) ActiveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.ChatSession, error) {
	return uow.ChatSessionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.Oldest(),
	)
}

func (m *Manager) GetOrCreateActiveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.ChatSession, error) {
	s, err := m.ActiveSession(ctx, uow, userId)
	if err != nil {
		return nil, fmt.Errorf("load active session: %w", err)
	}
	if s != nil {
		return s, nil
	}
	s = &entity.ChatSession{UserId: userId, IsActive: true}
	if err := uow.ChatSessionRepository().Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

func (m *Manager) DeactivateAllSessions(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	if _, err := uow.ChatSessionRepository().DeactivateAllByUserId(ctx, userId); err != nil {
		return fmt.Errorf("deactivate sessions: %w", err)
	}
	return nil
}

// StartNew replaces whatever is active with an empty session.
func (m *Manager) StartNew(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.ChatSession, error) {
	if err := m.DeactivateAllSessions(ctx, uow, userId); err != nil {
		return nil, err
	}
	return m.GetOrCreateActiveSession(ctx, uow, userId)
}

// Append stores one turn.
func (m *Manager) Append(ctx context.Context, uow unitofwork.UnitOfWork, msg *entity.ChatMessage) error {
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return fmt.Errorf("save %s message: %w", msg.Role, err)
	}
	return nil
}

// RecentTurns returns the last limit user and assistant messages of a
// session, oldest first.
func (m *Manager) RecentTurns(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	msgs, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ByRole{Roles: []string{constant.ChatMessageRoleUser, constant.ChatMessageRoleAssistant}},
		specification.Newest(),
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("load session turns: %w", err)
	}
	reverse(msgs)
	return msgs, nil
}

// RecentUserTurns returns the last limit user and assistant messages across
// all sessions of a user, oldest first.
func (m *Manager) RecentUserTurns(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	msgs, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByRole{Roles: []string{constant.ChatMessageRoleUser, constant.ChatMessageRoleAssistant}},
		specification.Newest(),
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("load user turns: %w", err)
	}
	reverse(msgs)
	return msgs, nil
}

// Digest is the result of a summary request. Called is false when there was
// nothing to summarize and no completion was requested.
type Digest struct {
	Text   string
	Called bool
}

// SummarizeAndPersist digests the user's recent turns and stores the digest
// as the active session's context. With no turns it returns the empty
// sentinel and leaves the context alone. A failed completion returns the
// apology text, which is not stored.
func (m *Manager) SummarizeAndPersist(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, limit int) (*Digest, error) {
	turns, err := m.RecentUserTurns(ctx, uow, user.Id, limit)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return &Digest{Text: response.NoMessages}, nil
	}

	text, askErr := m.answerer.Ask(ctx, response.SummaryPrompt+history.Render(turns))
	digest := &Digest{Text: text, Called: true}
	if askErr != nil {
		return digest, nil
	}

	s, err := m.GetOrCreateActiveSession(ctx, uow, user.Id)
	if err != nil {
		return nil, err
	}
	s.Context = text
	if err := uow.ChatSessionRepository().Update(ctx, s); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	return digest, nil
}

func reverse(msgs []*entity.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
