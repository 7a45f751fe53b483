// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, defaults, and validation
package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"OPENAI_API_KEY", "TWEAK_CHAT_MODEL", "TWEAK_VISION_MODEL", "TWEAK_EMBEDDING_MODEL",
	"OPENAI_TIMEOUT", "OPENAI_MAX_RETRIES", "OPENAI_RETRY_DELAY", "TWEAK_DB_PATH",
	"TWEAK_VISION_MIN_CONFIDENCE", "TWEAK_MEMORY_MIN_SIMILARITY", "TWEAK_SESSION_TTL",
	"TWEAK_SESSION_SWEEP_CRON", "TWEAK_HTTP_ADDR", "TWEAK_DEFAULT_USER", "TWEAK_DEBUG", "TWEAK_PREFERENCE_DECAY",
}

// unsetConfigEnv removes every config key for the duration of the test
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %s, want gpt-4o", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.VisionMinConfidence != 0.5 {
		t.Errorf("VisionMinConfidence = %f, want 0.5", cfg.VisionMinConfidence)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.DefaultUser != "user_0001" {
		t.Errorf("DefaultUser = %s, want user_0001", cfg.DefaultUser)
	}
	if !strings.HasSuffix(cfg.DBPath, "tweak.db") {
		t.Errorf("DBPath = %s, want default path ending in tweak.db", cfg.DBPath)
	}
	if cfg.HasOpenAI() {
		t.Error("HasOpenAI() = true without a key")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("TWEAK_CHAT_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_TIMEOUT", "10s")
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("TWEAK_DB_PATH", "/tmp/meals.db")
	t.Setenv("TWEAK_VISION_MIN_CONFIDENCE", "0.7")
	t.Setenv("TWEAK_SESSION_TTL", "2h")
	t.Setenv("TWEAK_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAIKey != "test-key" || !cfg.HasOpenAI() {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.DBPath != "/tmp/meals.db" {
		t.Errorf("DBPath = %s, want /tmp/meals.db", cfg.DBPath)
	}
	if cfg.VisionMinConfidence != 0.7 {
		t.Errorf("VisionMinConfidence = %f, want 0.7", cfg.VisionMinConfidence)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("TWEAK_SESSION_TTL", "forever")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an unparseable duration")
	}
}

func validConfig() *Config {
	return &Config{
		MaxRetries:          3,
		VisionMinConfidence: 0.5,
		MemoryMinSimilarity: 0.2,
		PreferenceDecay:     1,
		SessionTTL:          time.Hour,
		SessionSweepCron:    "*/15 * * * *",
		DefaultUser:         "user_0001",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"confidence above 1", func(c *Config) { c.VisionMinConfidence = 1.5 }},
		{"confidence below 0", func(c *Config) { c.VisionMinConfidence = -0.1 }},
		{"similarity above 1", func(c *Config) { c.MemoryMinSimilarity = 2 }},
		{"zero decay", func(c *Config) { c.PreferenceDecay = 0 }},
		{"decay above 1", func(c *Config) { c.PreferenceDecay = 1.2 }},
		{"too many retries", func(c *Config) { c.MaxRetries = 15 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"bad cron", func(c *Config) { c.SessionSweepCron = "every tuesday" }},
		{"empty user", func(c *Config) { c.DefaultUser = "" }},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on valid config error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
