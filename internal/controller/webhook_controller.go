package controller

import (
	"crypto/subtle"

	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/service"
	"ai-voicebot-be/pkg/telegram"

	"github.com/gofiber/fiber/v2"
)

const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Receive(ctx *fiber.Ctx) error
}

type webhookController struct {
	dialogue service.IDialogueService
	queue    service.IPublisherService // nil when turns run inline
	secret   string
	logger   logger.ILogger
}

func NewWebhookController(
	dialogue service.IDialogueService,
	queue service.IPublisherService,
	secret string,
	log logger.ILogger,
) IWebhookController {
	return &webhookController{
		dialogue: dialogue,
		queue:    queue,
		secret:   secret,
		logger:   log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/telegram/v1")
	h.Post("/webhook", c.Receive)
}

// Receive answers 200 {"status":"ok"} for every request, rejected ones included.
func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	if c.secret != "" {
		got := ctx.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(c.secret)) != 1 {
			c.logger.Warn("WEBHOOK", "Rejected update with bad secret token", map[string]interface{}{
				"ip": ctx.IP(),
			})
			return ack(ctx)
		}
	}

	var update telegram.Update
	if err := ctx.BodyParser(&update); err != nil {
		c.logger.Warn("WEBHOOK", "Unreadable update body", map[string]interface{}{
			"error": err,
		})
		return ack(ctx)
	}

	ev, err := dto.NormalizeUpdate(&update)
	if err != nil {
		c.logger.Warn("WEBHOOK", "Dropped update", map[string]interface{}{
			"update_id": update.UpdateID,
			"error":     err,
		})
		return ack(ctx)
	}

	if c.queue != nil {
		if err := c.queue.Enqueue(ctx.UserContext(), ev); err != nil {
			c.logger.Error("WEBHOOK", "Failed to enqueue update", map[string]interface{}{
				"update_id": ev.UpdateId,
				"chat_id":   ev.ChatKey(),
				"error":     err,
			})
		}
		return ack(ctx)
	}

	if err := c.dialogue.HandleEvent(ctx.UserContext(), ev); err != nil {
		c.logger.Warn("WEBHOOK", "Update rejected", map[string]interface{}{
			"update_id": ev.UpdateId,
			"error":     err,
		})
	}
	return ack(ctx)
}

func ack(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.WebhookResponse{Status: "ok"})
}
