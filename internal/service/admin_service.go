package service

import (
	"context"
	"errors"
	"fmt"

	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/pkg/dialog/access"
	"ai-voicebot-be/pkg/dialog/session"
)

var ErrUserNotFound = errors.New("user not found")

const defaultLogLimit = 100

type IAdminService interface {
	GetUserState(ctx context.Context, telegramId string) (*dto.UserStateResponse, error)
	GetLogs(ctx context.Context, req *dto.LogQueryRequest) ([]*dto.LogListResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	verifier   *access.Verifier
	sessions   *session.Manager
	logger     logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	verifier *access.Verifier,
	sessions *session.Manager,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		verifier:   verifier,
		sessions:   sessions,
		logger:     log,
	}
}

func (s *adminService) GetUserState(ctx context.Context, telegramId string) (*dto.UserStateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByTelegramID{TelegramID: telegramId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	res := &dto.UserStateResponse{
		Id:           user.Id,
		TelegramId:   user.TelegramId,
		UsagePeriod:  user.UsagePeriod,
		UsageCount:   user.UsageCount,
		UsageLimit:   s.verifier.Limit(),
		Mode:         user.Mode,
		ActiveNoteId: user.ActiveNoteId,
		CreatedAt:    user.CreatedAt,
	}
	// a stale period reads as a fresh month, as the next turn would reset it
	if user.UsagePeriod != s.verifier.Period() {
		res.UsagePeriod = s.verifier.Period()
		res.UsageCount = 0
	}

	sess, err := s.sessions.ActiveSession(ctx, uow, user.Id)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		id := sess.Id
		res.ActiveSessionId = &id
	}

	count, err := uow.ChatMessageRepository().Count(ctx, specification.UserOwnedBy{UserID: user.Id})
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	res.MessageCount = count
	return res, nil
}

func (s *adminService) GetLogs(ctx context.Context, req *dto.LogQueryRequest) ([]*dto.LogListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	entries, err := s.logger.GetLogs(logger.LogFilter{
		Level:  req.Level,
		Module: req.Module,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        e.Id,
			Timestamp: e.Timestamp,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Details:   e.Details,
		})
	}
	return res, nil
}
