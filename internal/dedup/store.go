// Package dedup keeps the ledger of articles that were already published and
// answers "have we seen this before" by URL, exact title or fuzzy title match.
package dedup

import (
	"strings"
	"time"
	"unicode"

	"github.com/vitalviral/newsbot/internal/news"
)

// SeenRecord is one entry in the published-articles ledger.
type SeenRecord struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the seen-item ledger. IsNew is read-only and safe to call
// concurrently; MarkSeen appends the article and prunes old records.
type Store interface {
	IsNew(article news.Article) bool
	MarkSeen(article news.Article) error
}

const (
	// DefaultMaxAge and DefaultMaxRecords bound the ledger together: the time
	// filter applies first, then the size cap, preserving chronological order.
	DefaultMaxAge     = 48 * time.Hour
	DefaultMaxRecords = 1000

	// DefaultFuzzyThreshold is the token-overlap ratio above which two titles
	// count as the same story. Strictly greater-than, so a ratio of exactly
	// the threshold is not a duplicate.
	DefaultFuzzyThreshold = 0.6

	minTokenLen = 3 // title tokens this short carry no signal
)

// matchesRecord reports whether the article duplicates a stored record.
// URL match is case-sensitive, title match is case-insensitive, and the
// fuzzy comparison is a token-overlap ratio over normalized titles.
func matchesRecord(a news.Article, rec SeenRecord, fuzzyThreshold float64) bool {
	if a.URL != "" && a.URL == rec.URL {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(a.Title), strings.TrimSpace(rec.Title)) {
		return true
	}
	return titleOverlap(a.Title, rec.Title) > fuzzyThreshold
}

// titleOverlap computes |A ∩ B| / max(|A|, |B|) over significant title tokens.
func titleOverlap(a, b string) float64 {
	ta := titleTokens(a)
	tb := titleTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}

	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(shared) / float64(denom)
}

// titleTokens lowercases, strips everything that is not a letter, digit or
// space, splits on whitespace and drops short tokens.
func titleTokens(title string) map[string]bool {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) > minTokenLen {
			tokens[tok] = true
		}
	}
	return tokens
}

// prune applies the retention policy to a chronologically ordered record
// list: drop everything older than maxAge, then cap to the newest maxRecords.
func prune(records []SeenRecord, now time.Time, maxAge time.Duration, maxRecords int) []SeenRecord {
	cutoff := now.Add(-maxAge)
	kept := records[:0]
	for _, rec := range records {
		if rec.Timestamp.After(cutoff) {
			kept = append(kept, rec)
		}
	}
	if len(kept) > maxRecords {
		kept = kept[len(kept)-maxRecords:]
	}
	return kept
}
