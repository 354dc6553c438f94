package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// UpdatesTopic carries normalized inbound events in async webhook mode.
const UpdatesTopic = "telegram.updates"

type IPublisherService interface {
	Enqueue(ctx context.Context, ev *dto.InboundEvent) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{topicName: topicName, publisher: publisher}
}

func (ps *publisherService) Enqueue(ctx context.Context, ev *dto.InboundEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("update_id", ev.UpdateId)
	msg.Metadata.Set("chat_id", ev.ChatKey())
	return ps.publisher.Publish(ps.topicName, msg)
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	dialogue   IDialogueService
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	dialogue IDialogueService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		dialogue:   dialogue,
		logger:     log,
	}
}

// Consume processes queued turns in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var ev dto.InboundEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		cs.logger.Error("QUEUE", "Failed to unmarshal queued event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		msg.Ack() // redelivery would fail the same way
		return
	}

	// turns settle their own failures, so a queued event is never redelivered
	if err := cs.dialogue.HandleEvent(ctx, &ev); err != nil {
		cs.logger.Warn("QUEUE", "Queued event rejected", map[string]interface{}{
			"update_id": ev.UpdateId,
			"error":     err,
		})
	}
	msg.Ack()
}
