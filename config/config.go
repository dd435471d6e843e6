/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the process configuration from the environment.
//
// Config is read once at startup and passed by value into every constructor,
// so components never consult the environment themselves. Optional
// credentials may be empty; each component decides how to degrade.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full process configuration.
type Config struct {
	Port        int `env:"PORT,default=8080"`
	MetricsPort int `env:"METRICS_PORT,default=2112"`

	// WebhookSecret is the shared HMAC secret. The webhook endpoint answers
	// 500 to every request while it is empty.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// GoogleCredentialsFile is used for Sheets and Docs. Application default
	// credentials are used when empty.
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	Reasoning Reasoning
	GitHub    GitHub   `env:",prefix=GITHUB_"`
	Sheets    Sheets   `env:",prefix=SHEETS_"`
	Search    Search   `env:",prefix=SEARCH_"`
	Telegram  Telegram `env:",prefix=TELEGRAM_"`
	Timeouts  Timeouts
}

// Reasoning selects and authenticates the reasoning backend.
type Reasoning struct {
	// Model picks the provider by prefix: claude-*, gemini-*, everything else is OpenAI.
	Model       string  `env:"REASONING_MODEL,default=gpt-4o-mini"`
	MaxTokens   int64   `env:"REASONING_MAX_TOKENS,default=1024"`
	Temperature float64 `env:"REASONING_TEMPERATURE,default=0.2"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	// Claude falls back to Vertex AI when AnthropicAPIKey is empty.
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCPRegion    string `env:"GCP_REGION,default=us-east5"`
}

// GitHub holds repository host credentials for the scaffold builder.
type GitHub struct {
	Token string `env:"TOKEN"`
	Owner string `env:"OWNER"`

	// GitHub App credentials, used instead of Token when all three are set.
	AppID          int64  `env:"APP_ID"`
	InstallationID int64  `env:"INSTALLATION_ID"`
	AppPrivateKey  string `env:"APP_PRIVATE_KEY"`

	// APIURL overrides https://api.github.com/ (GitHub Enterprise).
	APIURL string `env:"API_URL"`
}

// HasApp reports whether GitHub App installation credentials are complete.
func (g GitHub) HasApp() bool {
	return g.AppID != 0 && g.InstallationID != 0 && g.AppPrivateKey != ""
}

// HasCredentials reports whether any form of authentication is available.
func (g GitHub) HasCredentials() bool {
	return g.Token != "" || g.HasApp()
}

// Sheets locates the activity log spreadsheet.
type Sheets struct {
	SpreadsheetID string `env:"SPREADSHEET_ID"`
	Range         string `env:"RANGE,default=Logs!A:D"`
}

// Search configures the web search backend (Tavily).
type Search struct {
	APIKey   string `env:"API_KEY"`
	Endpoint string `env:"ENDPOINT,default=https://api.tavily.com/search"`
}

// Telegram configures the chat notifier.
type Telegram struct {
	BotToken string `env:"BOT_TOKEN"`
	ChatID   string `env:"CHAT_ID"`
	APIURL   string `env:"API_URL,default=https://api.telegram.org"`
}

// Timeouts bound each outbound step of the pipeline.
type Timeouts struct {
	Log      time.Duration `env:"LOG_TIMEOUT,default=10s"`
	Dispatch time.Duration `env:"DISPATCH_TIMEOUT,default=90s"`
	Notify   time.Duration `env:"NOTIFY_TIMEOUT,default=10s"`
}

// Load reads Config from the process environment.
func Load(ctx context.Context) (Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads Config from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("processing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	for name, port := range map[string]int{"PORT": c.Port, "METRICS_PORT": c.MetricsPort} {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%s out of range: %d", name, port)
		}
	}
	if c.Port == c.MetricsPort {
		return fmt.Errorf("PORT and METRICS_PORT must differ, both are %d", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"LOG_TIMEOUT":      c.Timeouts.Log,
		"DISPATCH_TIMEOUT": c.Timeouts.Dispatch,
		"NOTIFY_TIMEOUT":   c.Timeouts.Notify,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	return nil
}
