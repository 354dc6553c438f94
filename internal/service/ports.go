package service

import (
	"context"
	"errors"
	"fmt"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/contract"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/pkg/dialog/access"
	"ai-voicebot-be/pkg/events"
	"ai-voicebot-be/pkg/telegram"
)

// Channel is the outbound side of the messaging platform.
type Channel interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, markup *telegram.InlineKeyboardMarkup) error
	SendDocument(ctx context.Context, chatID int64, filePath, filename, caption string, markup *telegram.InlineKeyboardMarkup) error
}

// FileSource fetches uploaded media by platform file id.
type FileSource interface {
	Download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// inUserTx runs fn inside a transaction that holds the chat's user row. The
// user is created on first contact; if a concurrent turn created it first the
// whole transaction is retried once.
func inUserTx(
	ctx context.Context,
	factory unitofwork.RepositoryFactory,
	verifier *access.Verifier,
	chatKey string,
	fn func(uow unitofwork.UnitOfWork, user *entity.User) error,
) (*entity.User, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		user, err := runUserTx(ctx, factory, verifier, chatKey, fn)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, contract.ErrActiveConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func runUserTx(
	ctx context.Context,
	factory unitofwork.RepositoryFactory,
	verifier *access.Verifier,
	chatKey string,
	fn func(uow unitofwork.UnitOfWork, user *entity.User) error,
) (*entity.User, error) {
	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	user, err := verifier.Admit(ctx, uow, chatKey)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(uow, user); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return user, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event events.Event) error {
	return nil
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
