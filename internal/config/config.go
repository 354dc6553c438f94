package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Ai       AIConfig
	Image    ImageConfig
	Quota    QuotaConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEndpoint       string
	JWTSecret          string
	WebhookSecret      string
	WebhookAsync       bool
}

type DatabaseConfig struct {
	Connection string `validate:"required"`
}

type TelegramConfig struct {
	Token             string `validate:"required"`
	APIBaseURL        string `validate:"required,url"`
	LegalBotUsername  string
	YoutubeChannelURL string `validate:"omitempty,url"`
}

type AIConfig struct {
	GoogleAPIKey      string `validate:"required"`
	GeminiModel       string `validate:"required"`
	GeminiBaseURL     string `validate:"required,url"`
	SecondaryProvider string `validate:"oneof=openrouter ollama"`
	OpenRouterAPIKey  string
	OpenRouterBaseURL string `validate:"omitempty,url"`
	OpenRouterModel   string
	OllamaBaseURL     string `validate:"omitempty,url"`
	OllamaModel       string
}

type ImageConfig struct {
	GeneratorURL    string `validate:"omitempty,url"`
	GeneratorAPIKey string
}

type QuotaConfig struct {
	MonthlyLimit int `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			WebhookSecret:      getEnv("WEBHOOK_SECRET", ""),
			WebhookAsync:       getEnvAsBool("WEBHOOK_ASYNC", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Telegram: TelegramConfig{
			Token:             getEnv("TELEGRAM_TOKEN", ""),
			APIBaseURL:        getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
			LegalBotUsername:  getEnv("VAKIL_JIBI_BOT", ""),
			YoutubeChannelURL: getEnv("YOUTUBE_CHANNEL_URL", "https://www.youtube.com/@pishnahadebehtar"),
		},
		Ai: AIConfig{
			GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			SecondaryProvider: getEnv("SECONDARY_PROVIDER", "openrouter"),
			OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenRouterModel:   getEnv("MODEL", "openai/gpt-4o-mini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_MODEL", "llama3"),
		},
		Image: ImageConfig{
			GeneratorURL:    getEnv("IMAGE_GENERATOR_URL", ""),
			GeneratorAPIKey: getEnv("IMAGE_GENERATOR_API_KEY", ""),
		},
		Quota: QuotaConfig{
			MonthlyLimit: getEnvAsInt("USAGE_LIMIT", 400),
		},
	}
}

// Validate reports the first group of missing or malformed settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
