package service

import (
	"context"
	"fmt"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/pkg/dialog/menu"
	"ai-voicebot-be/pkg/dialog/session"
	"ai-voicebot-be/pkg/events"
	"ai-voicebot-be/pkg/imagegen"
	"ai-voicebot-be/pkg/telegram"
)

// IDeliveryService sends replies for one inbound event.
//
// A blocked recipient is audited and reported as dto.ErrBlockedRecipient, a
// terminal condition for the chat rather than a failure. An invalid image is
// returned as dto.ErrValidation without touching the channel. Every other
// channel failure is a *dto.DeliveryError.
type IDeliveryService interface {
	SendText(ctx context.Context, ev *dto.InboundEvent, text string, kb menu.Keyboard) error
	SendPhoto(ctx context.Context, ev *dto.InboundEvent, img *imagegen.Image, caption string, kb menu.Keyboard) error
	SendDocument(ctx context.Context, ev *dto.InboundEvent, path, filename, caption string, kb menu.Keyboard) error
}

type deliveryService struct {
	channel    Channel
	uowFactory unitofwork.RepositoryFactory
	sessions   *session.Manager
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewDeliveryService(
	channel Channel,
	uowFactory unitofwork.RepositoryFactory,
	sessions *session.Manager,
	publisher EventPublisher,
	log logger.ILogger,
) IDeliveryService {
	return &deliveryService{
		channel:    channel,
		uowFactory: uowFactory,
		sessions:   sessions,
		publisher:  publisherOrNoop(publisher),
		logger:     log,
	}
}

func (s *deliveryService) SendText(ctx context.Context, ev *dto.InboundEvent, text string, kb menu.Keyboard) error {
	err := s.channel.SendMessage(ctx, ev.ChatId, text, kb.Markup())
	return s.settle(ctx, ev, dto.DeliveryText, err)
}

func (s *deliveryService) SendPhoto(ctx context.Context, ev *dto.InboundEvent, img *imagegen.Image, caption string, kb menu.Keyboard) error {
	if err := imagegen.ValidateJPEG(img); err != nil {
		return fmt.Errorf("%w: %v", dto.ErrValidation, err)
	}
	err := s.channel.SendPhoto(ctx, ev.ChatId, img.Data, caption, kb.Markup())
	return s.settle(ctx, ev, dto.DeliveryPhoto, err)
}

func (s *deliveryService) SendDocument(ctx context.Context, ev *dto.InboundEvent, path, filename, caption string, kb menu.Keyboard) error {
	err := s.channel.SendDocument(ctx, ev.ChatId, path, filename, caption, kb.Markup())
	return s.settle(ctx, ev, dto.DeliveryDocument, err)
}

func (s *deliveryService) settle(ctx context.Context, ev *dto.InboundEvent, kind dto.DeliveryKind, err error) error {
	if err == nil {
		return nil
	}
	if telegram.IsBlocked(err) {
		s.logger.Warn("TELEGRAM", "Recipient blocked the bot", map[string]interface{}{
			"chat_id":   ev.ChatId,
			"update_id": ev.UpdateId,
			"kind":      string(kind),
		})
		s.recordBlocked(ctx, ev)
		return dto.ErrBlockedRecipient
	}
	s.logger.Error("TELEGRAM", "Delivery failed", map[string]interface{}{
		"chat_id":   ev.ChatId,
		"update_id": ev.UpdateId,
		"kind":      string(kind),
		"error":     err,
	})
	return &dto.DeliveryError{Kind: kind, Err: err}
}

// recordBlocked appends the audit message to the active session, creating
// one if needed. Failures are logged only.
func (s *deliveryService) recordBlocked(ctx context.Context, ev *dto.InboundEvent) {
	err := s.appendAudit(ctx, ev)
	if err != nil {
		s.logger.Error("TELEGRAM", "Failed to record blocked recipient", map[string]interface{}{
			"chat_id": ev.ChatId,
			"error":   err,
		})
	}
	if perr := s.publisher.Publish(ctx, events.RecipientBlocked(ev.ChatKey(), ev.UpdateId)); perr != nil {
		s.logger.Warn("TELEGRAM", "Failed to publish blocked event", map[string]interface{}{"error": perr})
	}
}

func (s *deliveryService) appendAudit(ctx context.Context, ev *dto.InboundEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx,
		specification.ByTelegramID{TelegramID: ev.ChatKey()},
		specification.ForUpdate{},
	)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user for chat %s", ev.ChatKey())
	}

	sess, err := s.sessions.GetOrCreateActiveSession(ctx, uow, user.Id)
	if err != nil {
		return err
	}
	err = s.sessions.Append(ctx, uow, &entity.ChatMessage{
		ChatSessionId: sess.Id,
		UserId:        user.Id,
		Role:          constant.ChatMessageRoleSystem,
		Content:       constant.BlockedRecipientAuditText,
		UpdateId:      ev.UpdateId,
		Metadata:      map[string]interface{}{constant.MessageMetaKind: "blocked"},
	})
	if err != nil {
		return err
	}
	return uow.Commit()
}
