package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("USAGE_LIMIT", "")
	t.Setenv("WEBHOOK_ASYNC", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 400, cfg.Quota.MonthlyLimit)
	assert.False(t, cfg.App.WebhookAsync)
	assert.Equal(t, "gemini-2.0-flash", cfg.Ai.GeminiModel)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Ai.OpenRouterBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("USAGE_LIMIT", "25")
	t.Setenv("WEBHOOK_ASYNC", "true")
	t.Setenv("VAKIL_JIBI_BOT", "@vakil_bot")

	cfg := Load()

	assert.Equal(t, 25, cfg.Quota.MonthlyLimit)
	assert.True(t, cfg.App.WebhookAsync)
	assert.Equal(t, "@vakil_bot", cfg.Telegram.LegalBotUsername)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Connection: "postgres://localhost/bot"},
			Telegram: TelegramConfig{Token: "123:abc", APIBaseURL: "https://api.telegram.org"},
			Ai: AIConfig{
				GoogleAPIKey:      "key",
				GeminiModel:       "gemini-2.0-flash",
				GeminiBaseURL:     "https://generativelanguage.googleapis.com/v1beta",
				SecondaryProvider: "openrouter",
			},
			Quota: QuotaConfig{MonthlyLimit: 400},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.Token = "" }, wantErr: "Token"},
		{name: "unknown provider", mutate: func(c *Config) { c.Ai.SecondaryProvider = "bard" }, wantErr: "SecondaryProvider"},
		{name: "zero quota", mutate: func(c *Config) { c.Quota.MonthlyLimit = 0 }, wantErr: "MonthlyLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
