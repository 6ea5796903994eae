// Package rewrite turns the selected article into publishable copy using a
// prioritized chain of AI providers. Providers are tried in order until one
// returns a valid result; when all of them fail the original article passes
// through untouched.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/metrics"
	"github.com/vitalviral/newsbot/internal/news"
)

// Result is the strict contract every provider must satisfy.
type Result struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	Category         string `json:"category"`
}

// Provider is one AI backend in the fallback chain.
type Provider interface {
	Name() string
	Rewrite(ctx context.Context, prompt string) (*Result, error)
}

// Rewritten is the candidate's publishable copy after the chain ran.
type Rewritten struct {
	Title            string
	ShortDescription string
	Description      string
	Category         string
	IsRewritten      bool
}

// Rewriter runs the provider chain under a shared per-run request budget.
type Rewriter struct {
	providers []Provider
	budget    *Budget
	enabled   bool
	level     string
}

func New(providers []Provider, budget *Budget, enabled bool, clickbaitLevel string) *Rewriter {
	return &Rewriter{
		providers: providers,
		budget:    budget,
		enabled:   enabled,
		level:     clickbaitLevel,
	}
}

// Rewrite produces the final copy for the candidate. Disabled rewriting,
// an exhausted budget and total provider failure all degrade to the
// original text — a bad AI day never blocks publishing.
func (r *Rewriter) Rewrite(ctx context.Context, cand *news.Candidate) Rewritten {
	passthrough := Rewritten{
		Title:       cand.Title,
		Description: cand.Description,
		Category:    cand.Category,
	}

	if !r.enabled || len(r.providers) == 0 {
		return passthrough
	}

	prompt := buildPrompt(cand, r.level)
	for _, p := range r.providers {
		if !r.budget.Allow() {
			logger.Warn("ai request budget exhausted, using original copy")
			break
		}

		res, err := p.Rewrite(ctx, prompt)
		if err != nil {
			logger.Warn("rewrite provider failed", "provider", p.Name(), "err", err)
			metrics.Global.IncrementRewriteFallbacks()
			continue
		}
		if res.Title == "" || res.LongDescription == "" {
			logger.Warn("rewrite provider returned incomplete copy", "provider", p.Name())
			metrics.Global.IncrementRewriteFallbacks()
			continue
		}

		out := Rewritten{
			Title:            res.Title,
			ShortDescription: res.ShortDescription,
			Description:      res.LongDescription,
			Category:         cand.Category,
			IsRewritten:      true,
		}
		if res.Category != "" {
			out.Category = strings.ToUpper(res.Category)
		}
		logger.Info("article rewritten", "provider", p.Name())
		return out
	}

	logger.Warn("all rewrite providers failed, using original copy")
	return passthrough
}

func buildPrompt(cand *news.Candidate, level string) string {
	return fmt.Sprintf(`You are a social media news editor for U.S. breaking news. Rewrite the
article below to be captivating and dramatic while staying strictly factual.

LEVEL: %s
CURRENT_CATEGORY: %s

RULES:
1. TITLE: maximum 11 words, high impact.
2. SHORT_DESCRIPTION: around 15 words, punchy, 1-2 emojis.
3. CATEGORY: if the story is tied to a specific U.S. state, use the state;
   otherwise a high-impact news word (ICE, TRUMP, IMMIGRATION, BREAKING).
4. LONG_DESCRIPTION: exactly two informative paragraphs, no emojis.
5. Keep every core fact. Invent nothing.
6. English output only.

Return only a JSON object with keys "title", "shortDescription",
"longDescription", "category".

ARTICLE:
Title: %s
Description: %s`, level, cand.Category, cand.Title, cand.Description)
}

// parseResult decodes the provider response, tolerating markdown code fences
// some models wrap their JSON in.
func parseResult(raw string) (*Result, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("decode rewrite response: %w", err)
	}
	return &res, nil
}
