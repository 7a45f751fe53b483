// ABOUTME: Centralized configuration for the meal assistant
// ABOUTME: Parses environment variables into Config with defaults and validation
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"
	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
)

// AppName names the data directory under XDG_DATA_HOME.
const AppName = "tweak-my-meal"

// Config holds all configuration for the assistant
type Config struct {
	// OpenAI settings
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	ChatModel      string        `env:"TWEAK_CHAT_MODEL" envDefault:"gpt-4o"`
	VisionModel    string        `env:"TWEAK_VISION_MODEL" envDefault:"gpt-4o"`
	EmbeddingModel string        `env:"TWEAK_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	Timeout        time.Duration `env:"OPENAI_TIMEOUT" envDefault:"60s"`
	MaxRetries     int           `env:"OPENAI_MAX_RETRIES" envDefault:"3"`
	RetryDelay     time.Duration `env:"OPENAI_RETRY_DELAY" envDefault:"2s"`

	// Storage
	DBPath string `env:"TWEAK_DB_PATH"`

	// Pipeline thresholds
	VisionMinConfidence float64 `env:"TWEAK_VISION_MIN_CONFIDENCE" envDefault:"0.5"`
	MemoryMinSimilarity float64 `env:"TWEAK_MEMORY_MIN_SIMILARITY" envDefault:"0.2"`
	// PreferenceDecay multiplies every preference strength on each sweep; 1 disables it
	PreferenceDecay     float64 `env:"TWEAK_PREFERENCE_DECAY" envDefault:"1"`

	// Sessions
	SessionTTL       time.Duration `env:"TWEAK_SESSION_TTL" envDefault:"24h"`
	SessionSweepCron string        `env:"TWEAK_SESSION_SWEEP_CRON" envDefault:"*/15 * * * *"`

	// Transports
	HTTPAddr    string `env:"TWEAK_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	DefaultUser string `env:"TWEAK_DEFAULT_USER" envDefault:"user_0001"`
	Debug       bool   `env:"TWEAK_DEBUG" envDefault:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.VisionMinConfidence < 0 || c.VisionMinConfidence > 1 {
		return fmt.Errorf("TWEAK_VISION_MIN_CONFIDENCE must be 0-1, got %f", c.VisionMinConfidence)
	}
	if c.MemoryMinSimilarity < -1 || c.MemoryMinSimilarity > 1 {
		return fmt.Errorf("TWEAK_MEMORY_MIN_SIMILARITY must be -1..1, got %f", c.MemoryMinSimilarity)
	}
	if c.PreferenceDecay <= 0 || c.PreferenceDecay > 1 {
		return fmt.Errorf("TWEAK_PREFERENCE_DECAY must be in (0, 1], got %f", c.PreferenceDecay)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("TWEAK_SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	if !gronx.IsValid(c.SessionSweepCron) {
		return fmt.Errorf("TWEAK_SESSION_SWEEP_CRON is not a valid cron expression: %q", c.SessionSweepCron)
	}
	if c.DefaultUser == "" {
		return fmt.Errorf("TWEAK_DEFAULT_USER must not be empty")
	}
	return nil
}

// HasOpenAI reports whether a model provider is configured.
func (c *Config) HasOpenAI() bool {
	return c.OpenAIKey != ""
}

// DefaultDBPath returns the database path under the XDG data directory
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "tweak.db")
}
