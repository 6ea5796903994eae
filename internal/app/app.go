// Package app wires one publishing run end to end: take the run lock, pick
// the language, fetch feeds, select the best article, rewrite, translate,
// deliver — and only after a confirmed delivery commit the article to the
// seen ledger and the run state.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitalviral/newsbot/internal/config"
	"github.com/vitalviral/newsbot/internal/dedup"
	"github.com/vitalviral/newsbot/internal/feed"
	"github.com/vitalviral/newsbot/internal/lock"
	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/metrics"
	"github.com/vitalviral/newsbot/internal/quota"
	"github.com/vitalviral/newsbot/internal/rewrite"
	"github.com/vitalviral/newsbot/internal/runstate"
	"github.com/vitalviral/newsbot/internal/scoring"
	"github.com/vitalviral/newsbot/internal/scraper"
	"github.com/vitalviral/newsbot/internal/selector"
	"github.com/vitalviral/newsbot/internal/translate"
	"github.com/vitalviral/newsbot/internal/webhook"
)

// Run executes one full publishing cycle. A run that finds nothing to
// publish is a normal, quiet exit, not an error.
func Run(ctx context.Context, cfg *config.Config) error {
	started := time.Now()
	defer func() { metrics.Global.RecordRun(time.Since(started)) }()

	runLock, err := lock.Acquire(cfg.LockFilePath, cfg.LockStaleAfter)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			logger.Info("another run is in progress, skipping")
			return nil
		}
		return fmt.Errorf("acquire run lock: %w", err)
	}
	defer runLock.Release()

	quotaStore := quota.NewStore(cfg.QuotaFilePath, cfg.Languages, cfg.QuotaLimits())
	targetLang := quotaStore.NextLanguage()
	if targetLang == "" {
		logger.Info("daily quotas are full, skipping run")
		return nil
	}
	logger.Info("run started", "target_language", targetLang)

	seen := newSeenStore(cfg)
	state := runstate.NewStore(cfg.StateFilePath)

	sources, err := feed.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	articles := feed.FetchAll(sources)
	metrics.Global.AddArticlesFetched(len(articles))
	logger.Info("articles fetched", "count", len(articles))

	sel := selector.New(
		seen,
		state,
		scraper.NewImageClient(cfg.ImageTimeout),
		scoring.New(cfg.EmergencyWindow),
		cfg.RecencyWindow,
		cfg.ImageProbeTop,
	)

	winner := sel.SelectBest(ctx, articles, targetLang)
	if winner == nil {
		logger.Info("no eligible article this run, nothing to publish")
		return nil
	}
	logger.Info("article selected",
		"title", winner.Title, "source", winner.Source,
		"category", winner.Category, "score", winner.Score)

	rewriter := rewrite.New(
		buildProviders(ctx, cfg),
		rewrite.NewBudget(cfg.MaxAIRequests),
		cfg.AIRewriteEnabled,
		cfg.ClickbaitLevel,
	)
	rewritten := rewriter.Rewrite(ctx, winner)

	if targetLang == "es" {
		rewritten = translateEdition(rewritten)
	}
	rewritten.Category = translate.LocalizeCategory(rewritten.Category, targetLang)

	payload := webhook.BuildPayload(winner, rewritten, targetLang, time.Now())
	webhook.AttachImageData(&payload)

	client := webhook.NewClient(cfg.WebhookURL, cfg.RequestTimeout, cfg.RetryAttempts, cfg.RetryDelay)
	if err := client.Send(ctx, payload); err != nil {
		// Nothing is committed: the article stays novel and will be retried
		// by a later run.
		return fmt.Errorf("deliver article: %w", err)
	}

	// Delivery is confirmed; now commit the run's durable state.
	if err := seen.MarkSeen(winner.Article); err != nil {
		logger.Error("failed to record seen article", "err", err)
	}
	if err := state.SaveLastSource(winner.Source); err != nil {
		logger.Error("failed to save last source", "err", err)
	}
	if err := quotaStore.Increment(targetLang); err != nil {
		logger.Error("failed to increment quota", "err", err)
	}

	metrics.Global.IncrementArticlesPublished()
	logger.Info("article published", "title", winner.Title, "source", winner.Source)
	return nil
}

// newSeenStore prefers Postgres when configured and degrades to the file
// ledger if the database is unreachable.
func newSeenStore(cfg *config.Config) dedup.Store {
	if cfg.DatabaseURL != "" {
		ps, err := dedup.NewPostgresStore(cfg.DatabaseURL, cfg.SeenMaxAge, cfg.SeenMaxRecords, cfg.FuzzyDuplicateThreshold)
		if err == nil {
			return ps
		}
		logger.Warn("postgres seen ledger unavailable, using file ledger", "err", err)
	}
	return dedup.NewFileStore(cfg.SeenFilePath, cfg.SeenMaxAge, cfg.SeenMaxRecords, cfg.FuzzyDuplicateThreshold)
}

func buildProviders(ctx context.Context, cfg *config.Config) []rewrite.Provider {
	var providers []rewrite.Provider
	if cfg.GroqAPIKey != "" {
		providers = append(providers, rewrite.NewGroqProvider(cfg.GroqAPIKey))
	}
	if cfg.GeminiAPIKey != "" {
		gp, err := rewrite.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini provider unavailable", "err", err)
		} else {
			providers = append(providers, gp)
		}
	}
	return providers
}

// translateEdition converts the rewritten copy to Spanish, keeping the
// English text for any field whose translation fails.
func translateEdition(rw rewrite.Rewritten) rewrite.Rewritten {
	out := rw
	if t, err := translate.TranslateText(rw.Title, "en", "es"); err == nil {
		out.Title = t
	}
	if t, err := translate.TranslateText(rw.ShortDescription, "en", "es"); err == nil {
		out.ShortDescription = t
	}
	if t, err := translate.TranslateText(rw.Description, "en", "es"); err == nil {
		out.Description = t
	}
	return out
}
