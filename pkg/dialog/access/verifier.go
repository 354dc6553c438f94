package access

import (
	"context"
	"fmt"
	"time"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Verifier owns the monthly usage quota.
type Verifier struct {
	limit int
	now   func() time.Time
}

func NewVerifier(limit int) *Verifier {
	if limit <= 0 {
		limit = constant.DefaultMonthlyUsageLimit
	}
	return &Verifier{limit: limit, now: time.Now}
}

// WithClock replaces the clock used to derive the usage period.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

func (v *Verifier) Limit() int {
	return v.limit
}

// Period is the current usage period key, e.g. "2026-10".
func (v *Verifier) Period() string {
	return v.now().UTC().Format(constant.UsagePeriodLayout)
}

// Admit loads the user row with a row lock, creating it on first contact, and
// applies the period rollover. It must run inside a transaction.
func (v *Verifier) Admit(ctx context.Context, uow unitofwork.UnitOfWork, telegramId string) (*entity.User, error) {
	period := v.Period()
	user, err := uow.UserRepository().FindOne(ctx,
		specification.ByTelegramID{TelegramID: telegramId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if user == nil {
		user = &entity.User{
			TelegramId:  telegramId,
			UsagePeriod: period,
			Mode:        constant.UserModeNone,
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	}

	if user.RollOver(period) {
		// Rollover clears the note reference, so the note row goes too.
		if _, err := uow.NoteRepository().DeactivateAllByUserId(ctx, user.Id); err != nil {
			return nil, fmt.Errorf("deactivate notes on rollover: %w", err)
		}
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, fmt.Errorf("persist rollover: %w", err)
		}
	}
	return user, nil
}

// Check rejects a user whose usage already reached the limit.
func (v *Verifier) Check(user *entity.User) error {
	if user.UsageCount >= v.limit {
		return &dto.QuotaExceededError{
			Limit:  v.limit,
			Used:   user.UsageCount,
			Period: user.UsagePeriod,
		}
	}
	return nil
}

// Increment counts one AI-backed turn.
func (v *Verifier) Increment(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	if err := uow.UserRepository().IncrementUsage(ctx, userId); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}
