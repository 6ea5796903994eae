package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every setting the bot reads from the environment, with the
// tunable selection constants exposed rather than hard-coded.
type Config struct {
	// Delivery
	WebhookURL string

	// Sources
	SourcesConfigPath string

	// Language quotas
	Languages    []string // priority order for NextLanguage
	DailyPostsEN int
	DailyPostsES int

	// AI rewriting
	AIRewriteEnabled bool
	ClickbaitLevel   string // low | medium | high
	GroqAPIKey       string
	GeminiAPIKey     string
	OpenAIAPIKey     string
	MaxAIRequests    int // per-run budget across all providers

	// Selection engine
	FuzzyDuplicateThreshold float64
	EmergencyWindow         time.Duration
	RecencyWindow           time.Duration
	SeenMaxAge              time.Duration
	SeenMaxRecords          int
	ImageProbeTop           int
	ImageTimeout            time.Duration

	// Persistence
	SeenFilePath  string
	StateFilePath string
	QuotaFilePath string
	DatabaseURL   string // optional: postgres seen ledger instead of the file

	// Run control
	LockFilePath   string
	LockStaleAfter time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	RequestTimeout time.Duration

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		SourcesConfigPath:       "configs/sources.yaml",
		Languages:               []string{"en", "es"},
		DailyPostsEN:            5,
		DailyPostsES:            5,
		ClickbaitLevel:          "medium",
		MaxAIRequests:           6,
		FuzzyDuplicateThreshold: 0.6,
		EmergencyWindow:         10 * time.Minute,
		RecencyWindow:           12 * time.Hour,
		SeenMaxAge:              48 * time.Hour,
		SeenMaxRecords:          1000,
		ImageProbeTop:           3,
		ImageTimeout:            5 * time.Second,
		SeenFilePath:            "data/seen_articles.json",
		StateFilePath:           "data/state.json",
		QuotaFilePath:           "data/daily_quota.json",
		LockFilePath:            "data/run.lock",
		LockStaleAfter:          10 * time.Minute,
		RetryAttempts:           3,
		RetryDelay:              2 * time.Second,
		RequestTimeout:          30 * time.Second,
	}

	cfg.WebhookURL = os.Getenv("WEBHOOK_URL")
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.SeenFilePath = getEnvOrDefault("SEEN_FILE_PATH", cfg.SeenFilePath)
	cfg.StateFilePath = getEnvOrDefault("STATE_FILE_PATH", cfg.StateFilePath)
	cfg.QuotaFilePath = getEnvOrDefault("QUOTA_FILE_PATH", cfg.QuotaFilePath)
	cfg.LockFilePath = getEnvOrDefault("LOCK_FILE_PATH", cfg.LockFilePath)
	cfg.ClickbaitLevel = getEnvOrDefault("CLICKBAIT_LEVEL", cfg.ClickbaitLevel)

	cfg.DailyPostsEN = getEnvIntOrDefault("DAILY_POSTS_EN", cfg.DailyPostsEN)
	cfg.DailyPostsES = getEnvIntOrDefault("DAILY_POSTS_ES", cfg.DailyPostsES)
	cfg.MaxAIRequests = getEnvIntOrDefault("MAX_AI_REQUESTS", cfg.MaxAIRequests)
	cfg.SeenMaxRecords = getEnvIntOrDefault("SEEN_MAX_RECORDS", cfg.SeenMaxRecords)
	cfg.ImageProbeTop = getEnvIntOrDefault("IMAGE_PROBE_TOP", cfg.ImageProbeTop)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	if v := os.Getenv("FUZZY_DUPLICATE_THRESHOLD"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val < 1 {
			cfg.FuzzyDuplicateThreshold = val
		}
	}
	if v := getEnvIntOrDefault("EMERGENCY_WINDOW_MINUTES", 0); v > 0 {
		cfg.EmergencyWindow = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("RECENCY_WINDOW_HOURS", 0); v > 0 {
		cfg.RecencyWindow = time.Duration(v) * time.Hour
	}
	if v := getEnvIntOrDefault("SEEN_MAX_AGE_HOURS", 0); v > 0 {
		cfg.SeenMaxAge = time.Duration(v) * time.Hour
	}
	if v := getEnvIntOrDefault("LOCK_STALE_MINUTES", 0); v > 0 {
		cfg.LockStaleAfter = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("IMAGE_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.ImageTimeout = time.Duration(v) * time.Second
	}

	if os.Getenv("AI_REWRITE_ENABLED") == "true" {
		cfg.AIRewriteEnabled = true
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

// QuotaLimits maps each configured language to its daily budget.
func (c *Config) QuotaLimits() map[string]int {
	return map[string]int{
		"en": c.DailyPostsEN,
		"es": c.DailyPostsES,
	}
}

func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL is required")
	}
	if c.AIRewriteEnabled && c.GroqAPIKey == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("AI_REWRITE_ENABLED needs GROQ_API_KEY or GEMINI_API_KEY")
	}
	switch c.ClickbaitLevel {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("CLICKBAIT_LEVEL must be low, medium or high")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
