package metrics

import (
	"sync"
	"time"
)

// Metrics tracks per-process counters exposed on /metrics.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched    int64
	DuplicatesFiltered int64
	CandidatesScored   int64
	ImageProbes        int64
	RewriteFallbacks   int64
	ArticlesPublished  int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementCandidatesScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesScored++
}

func (m *Metrics) IncrementImageProbes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImageProbes++
}

func (m *Metrics) IncrementRewriteFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RewriteFallbacks++
}

func (m *Metrics) IncrementArticlesPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesPublished++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":     m.ArticlesFetched,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"candidates_scored":    m.CandidatesScored,
		"image_probes":         m.ImageProbes,
		"rewrite_fallbacks":    m.RewriteFallbacks,
		"articles_published":   m.ArticlesPublished,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
