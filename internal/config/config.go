// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the hosted model endpoints.
const (
	DefaultBaseURL        = "https://openrouter.ai/api/v1"
	DefaultChatModel      = "google/gemma-3-27b-it:free"
	DefaultClassifyModel  = "google/gemma-2-9b-it:free"
	DefaultDashboardModel = "deepseek/deepseek-r1-0528:free"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string

	OpenRouter OpenRouterConfig
	Models     ModelConfig
	Knowledge  KnowledgeConfig
	Embeddings EmbeddingsConfig

	SessionTTL time.Duration
	ChatLog    ChatLogConfig
}

// OpenRouterConfig configures the model-inference endpoint.
type OpenRouterConfig struct {
	APIKey          string
	DashboardAPIKey string
	BaseURL         string
	Referer         string
	Title           string
	RequestTimeout  time.Duration
}

// ModelConfig names the three model roles.
type ModelConfig struct {
	Chat      string
	Classify  string
	Dashboard string
}

// KnowledgeConfig configures the static knowledge base.
type KnowledgeConfig struct {
	Dir  string
	TopK int
}

// EmbeddingsConfig configures the OpenAI-compatible embeddings endpoint
// used for retrieval. Retrieval is disabled when no model is set.
type EmbeddingsConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// ChatLogConfig controls NDJSON transcript logging. Disabled by default:
// conversations are sensitive.
type ChatLogConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("CHAT_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		OpenRouter: OpenRouterConfig{
			APIKey:          getEnv("OPENROUTER_API_KEY", ""),
			DashboardAPIKey: getEnv("OPENROUTER_API_KEY_DASHBOARD", ""),
			BaseURL:         getEnv("OPENROUTER_BASE_URL", DefaultBaseURL),
			Referer:         getEnv("OPENROUTER_REFERER", "https://github.com/sanjit-mathur/mindmate"),
			Title:           getEnv("OPENROUTER_TITLE", "Mindmate AI Advisor"),
			RequestTimeout:  time.Duration(getEnvInt("MODEL_TIMEOUT_SECONDS", 180)) * time.Second,
		},
		Models: ModelConfig{
			Chat:      getEnv("CHAT_MODEL", DefaultChatModel),
			Classify:  getEnv("CLASSIFY_MODEL", DefaultClassifyModel),
			Dashboard: getEnv("DASHBOARD_MODEL", DefaultDashboardModel),
		},
		Knowledge: KnowledgeConfig{
			Dir:  getEnv("KB_DIR", "mental_health_kb"),
			TopK: getEnvInt("RETRIEVAL_TOP_K", 4),
		},
		Embeddings: EmbeddingsConfig{
			BaseURL: getEnv("EMBEDDINGS_BASE_URL", ""),
			APIKey:  getEnv("EMBEDDINGS_API_KEY", ""),
			Model:   getEnv("EMBEDDING_MODEL", ""),
		},
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		ChatLog: ChatLogConfig{
			Enabled:       getEnvBool("CHAT_LOG_ENABLED", false),
			Dir:           getEnv("CHAT_LOG_DIR", "./data/logs/chat"),
			GlobalEnabled: getEnvBool("CHAT_LOG_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("CHAT_LOG_GLOBAL_PATH", "./data/logs/chat/all.ndjson"),
			QueueSize:     queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
// An API key is not required here: sessions may supply their own.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OpenRouter.BaseURL == "" {
		return fmt.Errorf("OPENROUTER_BASE_URL cannot be empty")
	}
	if c.Models.Chat == "" || c.Models.Classify == "" || c.Models.Dashboard == "" {
		return fmt.Errorf("model names cannot be empty")
	}
	if c.Knowledge.TopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be > 0")
	}
	if c.ChatLog.Enabled && c.ChatLog.Dir == "" {
		return fmt.Errorf("CHAT_LOG_DIR cannot be empty when chat logging is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
