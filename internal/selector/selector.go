// Package selector picks the single best article of a run: it filters by
// recency and novelty, categorizes and scores the survivors, ranks them and
// resolves the winner by probing for a usable high-quality image.
package selector

import (
	"context"
	"sort"
	"time"

	"github.com/vitalviral/newsbot/internal/category"
	"github.com/vitalviral/newsbot/internal/dedup"
	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/metrics"
	"github.com/vitalviral/newsbot/internal/news"
	"github.com/vitalviral/newsbot/internal/scoring"
)

// ImageFetcher is the external high-quality image lookup. Implementations
// return "" (never an error that matters) when no usable image was found.
type ImageFetcher interface {
	FetchImage(ctx context.Context, pageURL string) string
}

// LastSourceReader exposes the run-state singleton to the selector. The
// selector only reads it; committing a new value is the caller's job.
type LastSourceReader interface {
	LastSource() string
}

// DefaultWindow is the hard recency cutoff: older articles are never
// selected, even when nothing else qualifies.
const DefaultWindow = 12 * time.Hour

// DefaultProbeTop is how many top-ranked candidates get an image probe
// before falling back to the leader without one.
const DefaultProbeTop = 3

// Selector is a pure function of its inputs plus two read-only lookups; it
// holds no durable state of its own.
type Selector struct {
	seen   dedup.Store
	state  LastSourceReader
	images ImageFetcher
	scorer *scoring.Scorer

	window   time.Duration
	probeTop int
	now      func() time.Time
}

func New(seen dedup.Store, state LastSourceReader, images ImageFetcher, scorer *scoring.Scorer, window time.Duration, probeTop int) *Selector {
	if window <= 0 {
		window = DefaultWindow
	}
	if probeTop <= 0 {
		probeTop = DefaultProbeTop
	}
	return &Selector{
		seen:     seen,
		state:    state,
		images:   images,
		scorer:   scorer,
		window:   window,
		probeTop: probeTop,
		now:      time.Now,
	}
}

// SelectBest returns the winning candidate of this run, or nil when nothing
// qualifies. A nil result means "nothing to publish", not an error. The
// method never writes durable state; on a successful publish the caller is
// expected to record the winner in the seen ledger and the run state.
func (s *Selector) SelectBest(ctx context.Context, articles []news.Article, targetLanguage string) *news.Candidate {
	now := s.now()
	scoreCtx := scoring.Context{
		TargetLanguage: targetLanguage,
		LastSource:     s.state.LastSource(),
		Now:            now,
	}

	// Recency window, then novelty. Unparsable dates count as too old.
	var fresh []news.Article
	for _, art := range articles {
		if art.Age(now) > s.window {
			continue
		}
		if !s.seen.IsNew(art) {
			logger.Debug("already seen, skipping", "title", art.Title)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}
		fresh = append(fresh, art)
	}
	if len(fresh) == 0 {
		return nil
	}

	// Categorize and score. The trend comparison must only see the batch
	// that survived the filters above.
	candidates := make([]*news.Candidate, 0, len(fresh))
	for _, art := range fresh {
		candidates = append(candidates, &news.Candidate{Article: art})
	}
	for _, cand := range candidates {
		det := category.Detect(cand.Article)
		cand.Category = det.Category
		cand.CategoryColor = det.Color
		cand.Score = det.Score + s.scorer.Score(cand, candidates, scoreCtx)
		metrics.Global.IncrementCandidatesScored()
		logger.Debug("scored candidate",
			"title", cand.Title, "category", cand.Category,
			"score", cand.Score, "trending", cand.IsTrending, "emergency", cand.IsEmergency)
	}

	// Stable sort keeps original fetch order as the deterministic tie-break.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return s.resolveWinner(ctx, candidates)
}

// resolveWinner probes the top candidates in rank order for a high-quality
// image and returns the first that yields one. Probing is sequential and
// stops at the first hit: each lookup is a costly external call. When none of
// the probed candidates has an image, the top-scored candidate is returned
// unchanged, keeping whatever RSS image it had.
func (s *Selector) resolveWinner(ctx context.Context, ranked []*news.Candidate) *news.Candidate {
	top := len(ranked)
	if top > s.probeTop {
		top = s.probeTop
	}

	for _, cand := range ranked[:top] {
		logger.Info("probing image for candidate", "title", cand.Title, "score", cand.Score)
		metrics.Global.IncrementImageProbes()
		if img := s.images.FetchImage(ctx, cand.URL); img != "" {
			winner := *cand
			winner.ImageURL = img
			return &winner
		}
	}

	return ranked[0]
}
