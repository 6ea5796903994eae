// Package scoring computes the priority score of a candidate from topic
// keywords, recency, cross-source corroboration and emergency signals.
package scoring

import (
	"strings"
	"time"

	"github.com/vitalviral/newsbot/internal/category"
	"github.com/vitalviral/newsbot/internal/news"
)

// Context carries the per-run inputs the score terms depend on.
type Context struct {
	TargetLanguage string
	LastSource     string
	Now            time.Time
}

// Scorer holds the tunable knobs. The zero value is not usable; construct
// with New.
type Scorer struct {
	emergencyWindow time.Duration
}

const baseScore = 50

// DefaultEmergencyWindow is how recent an article must be for the emergency
// escalation to apply.
const DefaultEmergencyWindow = 10 * time.Minute

// EmergencyCategory is the label forced onto escalated candidates.
const EmergencyCategory = "EMERGENCY ALERT"

// emergencyBoost dominates every other achievable term combination, so an
// escalated candidate always outranks a non-escalated one.
const emergencyBoost = 1000

const trendBoost = 200

var actionVerbs = []string{
	"seized", "deported", "arrested", "signed", "banned",
	"emergency", "raided", "raids", "order", "confirmed",
}

var majorEventKeywords = []string{
	"super bowl", "world cup", "olympics", "world series",
	"election night", "inauguration", "state of the union",
}

var sportsKeywords = []string{
	"nfl", "nba", "mlb", "nhl", "touchdown", "playoff", "playoffs",
	"quarterback", "baseball", "basketball", "soccer", "golf",
}

var emergencyTitleKeywords = []string{
	"raid", "arrest", "shutdown", "order", "emergency", "alert",
	"breaking", "urgent", "mass arrest", "border shutdown",
	"executive order", "national emergency", "disaster", "threat",
	"attack", "shooting", "explosion", "crash", "fire", "evacuation",
	"lockdown", "manhunt", "suspect", "fugitive", "warrant",
}

func New(emergencyWindow time.Duration) *Scorer {
	if emergencyWindow <= 0 {
		emergencyWindow = DefaultEmergencyWindow
	}
	return &Scorer{emergencyWindow: emergencyWindow}
}

// Score sums every term for the candidate and sets its IsTrending and
// IsEmergency flags. The emergency branch also overrides the category and
// color that were detected earlier; it must run after normal detection.
// batch is the set of surviving candidates in the same run and is only used
// for the cross-source trend comparison.
func (s *Scorer) Score(cand *news.Candidate, batch []*news.Candidate, ctx Context) int {
	text := strings.ToLower(cand.Title + " " + cand.Description)
	score := baseScore

	// Priority topics.
	if strings.Contains(text, "trump") {
		score += 100
	}
	if containsAny(text, "ice", "immigration", "deportation") {
		score += 100
	}
	if containsAny(text, "border", "frontera") {
		score += 80
	}

	// Action verbs: only the first hit counts.
	for _, verb := range actionVerbs {
		if strings.Contains(text, verb) {
			score += 100
			break
		}
	}

	// General impact keywords.
	if strings.Contains(text, "breaking") {
		score += 50
	}
	if strings.Contains(text, "live updates") {
		score += 40
	}
	if containsAny(text, "shoot", "kill", "dead") {
		score += 40
	}
	if containsAny(text, "war", "attack") {
		score += 30
	}

	// Major calendar events suppress the sports penalty, so the flag is
	// decided before the penalty is.
	isMajorEvent := containsAny(text, majorEventKeywords...)
	if isMajorEvent {
		score += 200
	}
	if !isMajorEvent && containsAny(text, sportsKeywords...) {
		score -= 150
	}

	// Recency tiers.
	switch age := cand.Age(ctx.Now); {
	case age < time.Hour:
		score += 150
	case age < 3*time.Hour:
		score += 80
	case age < 6*time.Hour:
		score += 40
	}

	// Cross-source corroboration.
	if s.corroborated(cand, batch) {
		cand.IsTrending = true
		score += trendBoost
	}

	if ctx.TargetLanguage != "" && cand.OriginalLanguage == ctx.TargetLanguage {
		score += 20
	}
	if ctx.LastSource != "" && cand.Source == ctx.LastSource {
		score -= 40
	}

	// Emergency escalation last: it overrides whatever category detection
	// produced.
	if cand.Age(ctx.Now) < s.emergencyWindow && containsAny(strings.ToLower(cand.Title), emergencyTitleKeywords...) {
		cand.IsEmergency = true
		cand.Category = EmergencyCategory
		cand.CategoryColor = category.AlertColor
		score += emergencyBoost
	}

	return score
}

// corroborated reports whether at least one other candidate from a different
// source shares three or more significant title tokens.
func (s *Scorer) corroborated(cand *news.Candidate, batch []*news.Candidate) bool {
	mine := trendTokens(cand.Title)
	if len(mine) == 0 {
		return false
	}

	for _, other := range batch {
		if other == cand || other.Source == cand.Source {
			continue
		}
		shared := 0
		for tok := range trendTokens(other.Title) {
			if mine[tok] {
				shared++
			}
		}
		if shared >= 3 {
			return true
		}
	}
	return false
}

// trendTokens keeps lowercase title words longer than four characters.
func trendTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;!?\"'()[]")
		if len(w) > 4 {
			tokens[w] = true
		}
	}
	return tokens
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
