package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.OpenRouter.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %q", cfg.OpenRouter.BaseURL)
	}
	if cfg.Models.Chat != DefaultChatModel {
		t.Errorf("Expected default chat model, got %q", cfg.Models.Chat)
	}
	if cfg.Knowledge.TopK != 4 {
		t.Errorf("Expected default top-k 4, got %d", cfg.Knowledge.TopK)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("Expected default TTL 1h, got %v", cfg.SessionTTL)
	}
	if cfg.ChatLog.Enabled {
		t.Error("Expected chat logging disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CHAT_MODEL", "some/other-model")
	t.Setenv("RETRIEVAL_TOP_K", "7")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("CHAT_LOG_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Expected port override, got %q", cfg.Port)
	}
	if cfg.Models.Chat != "some/other-model" {
		t.Errorf("Expected model override, got %q", cfg.Models.Chat)
	}
	if cfg.Knowledge.TopK != 7 {
		t.Errorf("Expected top-k override, got %d", cfg.Knowledge.TopK)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Errorf("Expected TTL override, got %v", cfg.SessionTTL)
	}
	if !cfg.ChatLog.Enabled {
		t.Error("Expected chat logging enabled")
	}
}

func TestLoad_InvalidTopK(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "0")
	if _, err := Load(); err == nil {
		t.Fatal("Expected validation error for top-k 0")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := &Config{
		Port:       "8080",
		SessionTTL: time.Hour,
		Knowledge:  KnowledgeConfig{TopK: 4},
	}
	cfg.OpenRouter.BaseURL = DefaultBaseURL
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for empty model names")
	}
}

func TestIsDevelopment(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:3000", true},
		{"https://mindmate.example.com", false},
	}
	for _, tc := range cases {
		cfg := &Config{FrontendURL: tc.url}
		if got := cfg.IsDevelopment(); got != tc.want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "yes")
	if !getEnvBool("TEST_BOOL", false) {
		t.Error("Expected yes to parse as true")
	}
	t.Setenv("TEST_BOOL", "off")
	if getEnvBool("TEST_BOOL", true) {
		t.Error("Expected off to parse as false")
	}
	t.Setenv("TEST_BOOL", "maybe")
	if !getEnvBool("TEST_BOOL", true) {
		t.Error("Expected fallback for unparseable value")
	}
}
