package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://hook.test/x")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FuzzyDuplicateThreshold != 0.6 {
		t.Errorf("fuzzy threshold = %v, want 0.6", cfg.FuzzyDuplicateThreshold)
	}
	if cfg.RecencyWindow != 12*time.Hour {
		t.Errorf("recency window = %v, want 12h", cfg.RecencyWindow)
	}
	if cfg.SeenMaxAge != 48*time.Hour || cfg.SeenMaxRecords != 1000 {
		t.Errorf("seen retention = %v/%d", cfg.SeenMaxAge, cfg.SeenMaxRecords)
	}
	if cfg.EmergencyWindow != 10*time.Minute {
		t.Errorf("emergency window = %v, want 10m", cfg.EmergencyWindow)
	}
	if cfg.ImageProbeTop != 3 {
		t.Errorf("image probe top = %d, want 3", cfg.ImageProbeTop)
	}
	if cfg.ClickbaitLevel != "medium" || cfg.AIRewriteEnabled {
		t.Errorf("ai defaults = %q/%v", cfg.ClickbaitLevel, cfg.AIRewriteEnabled)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://hook.test/x")
	t.Setenv("FUZZY_DUPLICATE_THRESHOLD", "0.75")
	t.Setenv("EMERGENCY_WINDOW_MINUTES", "5")
	t.Setenv("RECENCY_WINDOW_HOURS", "6")
	t.Setenv("DAILY_POSTS_EN", "8")
	t.Setenv("SEEN_FILE_PATH", "/tmp/seen.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FuzzyDuplicateThreshold != 0.75 {
		t.Errorf("fuzzy threshold = %v", cfg.FuzzyDuplicateThreshold)
	}
	if cfg.EmergencyWindow != 5*time.Minute {
		t.Errorf("emergency window = %v", cfg.EmergencyWindow)
	}
	if cfg.RecencyWindow != 6*time.Hour {
		t.Errorf("recency window = %v", cfg.RecencyWindow)
	}
	if cfg.DailyPostsEN != 8 {
		t.Errorf("daily posts en = %d", cfg.DailyPostsEN)
	}
	if cfg.SeenFilePath != "/tmp/seen.json" {
		t.Errorf("seen file path = %q", cfg.SeenFilePath)
	}
}

func TestInvalidThresholdKeepsDefault(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://hook.test/x")
	t.Setenv("FUZZY_DUPLICATE_THRESHOLD", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FuzzyDuplicateThreshold != 0.6 {
		t.Errorf("out-of-range threshold must keep default, got %v", cfg.FuzzyDuplicateThreshold)
	}
}

func TestValidateRequiresWebhook(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load must fail without WEBHOOK_URL")
	}
}

func TestValidateAIRequiresKey(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://hook.test/x")
	t.Setenv("AI_REWRITE_ENABLED", "true")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("rewriting without any key must fail validation")
	}

	t.Setenv("GROQ_API_KEY", "gsk_test")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with a key: %v", err)
	}
}

func TestValidateClickbaitLevel(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://hook.test/x")
	t.Setenv("CLICKBAIT_LEVEL", "extreme")
	if _, err := Load(); err == nil {
		t.Fatal("unknown clickbait level must fail validation")
	}
}

func TestQuotaLimits(t *testing.T) {
	cfg := &Config{DailyPostsEN: 5, DailyPostsES: 2}
	limits := cfg.QuotaLimits()
	if limits["en"] != 5 || limits["es"] != 2 {
		t.Errorf("limits = %v", limits)
	}
}
