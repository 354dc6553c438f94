package contract

import (
	"context"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	// IncrementUsage bumps usage_count in the store without a read-modify-write.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
