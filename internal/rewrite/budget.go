package rewrite

import "sync"

// Budget caps AI requests per run across all providers, so a flapping model
// ladder cannot burn through free-tier quotas.
type Budget struct {
	mu    sync.Mutex
	used  int
	limit int
}

// NewBudget creates a budget allowing limit requests; limit <= 0 means
// unlimited.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Allow consumes one request slot and reports whether it was available.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// Used returns how many requests were consumed this run.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
