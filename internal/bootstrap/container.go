package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"ai-voicebot-be/internal/config"
	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/internal/controller"
	"ai-voicebot-be/internal/pkg/logger"
	"ai-voicebot-be/internal/repository/unitofwork"
	"ai-voicebot-be/internal/service"
	"ai-voicebot-be/pkg/dialog/access"
	"ai-voicebot-be/pkg/dialog/intent"
	"ai-voicebot-be/pkg/dialog/menu"
	"ai-voicebot-be/pkg/dialog/note"
	"ai-voicebot-be/pkg/dialog/session"
	"ai-voicebot-be/pkg/imagegen"
	"ai-voicebot-be/pkg/llm"
	"ai-voicebot-be/pkg/llm/factory"
	"ai-voicebot-be/pkg/llm/gemini"
	"ai-voicebot-be/pkg/lock"
	"ai-voicebot-be/pkg/speech"
	"ai-voicebot-be/pkg/telegram"

	pktNats "ai-voicebot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	turnLockTTL  = 10 * time.Minute
	turnLockWait = 15 * time.Second
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	AdminController   controller.IAdminController

	// Background Services (nil unless WEBHOOK_ASYNC is on)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Completion providers
	primary := gemini.NewGeminiProvider(cfg.Ai.GeminiBaseURL, cfg.Ai.GoogleAPIKey, cfg.Ai.GeminiModel)
	secondary, err := factory.NewSecondaryProvider(secondaryConfig(cfg))
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize secondary LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM providers: gemini (%s) -> %s", cfg.Ai.GeminiModel, cfg.Ai.SecondaryProvider)

	chain := llm.NewFallbackChain(sysLogger,
		llm.Tier{Name: "gemini", Provider: primary},
		llm.Tier{Name: cfg.Ai.SecondaryProvider, Provider: secondary, Options: []llm.Option{llm.WithMaxTokens(constant.SecondaryMaxTokens)}},
	)
	answerer := intent.NewAnswerer(chain, sysLogger)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	if natsPub != nil {
		c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
	}

	var locker lock.Locker = lock.NopLocker{}
	if cfg.App.RedisURL != "" {
		rdb := newRedis(cfg.App.RedisURL)
		locker = lock.NewRedisLocker(rdb, turnLockTTL, turnLockWait)
		c.closers = append(c.closers, rdb.Close)
	}

	tg := telegram.NewClient(nil, cfg.Telegram.APIBaseURL, cfg.Telegram.Token)

	// 4. Services
	verifier := access.NewVerifier(cfg.Quota.MonthlyLimit)
	sessions := session.NewManager(answerer)

	deliveryService := service.NewDeliveryService(tg, uowFactory, sessions, natsPub, sysLogger)
	dialogueService := service.NewDialogueService(service.DialogueDeps{
		UowFactory:  uowFactory,
		Verifier:    verifier,
		Sessions:    sessions,
		Composer:    note.NewComposer(os.TempDir()),
		Classifier:  intent.NewClassifier(primary, answerer, sysLogger),
		Menus:       menu.NewBuilder(cfg.Telegram.LegalBotUsername),
		Delivery:    deliveryService,
		Files:       tg,
		Transcriber: speech.NewGeminiTranscriber(primary),
		Images:      imagegen.NewWorkerClient(cfg.Image.GeneratorURL, cfg.Image.GeneratorAPIKey),
		Publisher:   natsPub,
		Locker:      locker,
		Logger:      sysLogger,
		YoutubeURL:  cfg.Telegram.YoutubeChannelURL,
		TempDir:     os.TempDir(),
	})
	adminService := service.NewAdminService(uowFactory, verifier, sessions, sysLogger)

	// 5. Async turns
	var queue service.IPublisherService
	if cfg.App.WebhookAsync {
		pubSub := gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		)
		queue = service.NewPublisherService(service.UpdatesTopic, pubSub)
		c.ConsumerService = service.NewConsumerService(pubSub, service.UpdatesTopic, dialogueService, sysLogger)
		c.closers = append(c.closers, pubSub.Close)
	}

	// 6. Controllers
	c.WebhookController = controller.NewWebhookController(dialogueService, queue, cfg.App.WebhookSecret, sysLogger)
	c.AdminController = controller.NewAdminController(adminService, cfg.App.JWTSecret)

	return c
}

// Close releases infrastructure connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[WARN] Shutdown: %v", err)
		}
	}
	_ = c.Logger.Sync()
}

func secondaryConfig(cfg *config.Config) factory.SecondaryConfig {
	sc := factory.SecondaryConfig{
		Provider:  cfg.Ai.SecondaryProvider,
		MaxTokens: constant.SecondaryMaxTokens,
	}
	if cfg.Ai.SecondaryProvider == "ollama" {
		sc.BaseURL = cfg.Ai.OllamaBaseURL
		sc.Model = cfg.Ai.OllamaModel
		return sc
	}
	sc.BaseURL = cfg.Ai.OpenRouterBaseURL
	sc.APIKey = cfg.Ai.OpenRouterAPIKey
	sc.Model = cfg.Ai.OpenRouterModel
	return sc
}

func newRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
