// Package quota tracks how many articles were published per language today,
// so the bot can alternate languages and stop when the daily budget is spent.
package quota

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vitalviral/newsbot/internal/logger"
)

type dayQuota struct {
	Date  string         `json:"date"`
	Posts map[string]int `json:"posts"`
}

// Store is a file-backed daily counter. Limits map language code to the
// posts allowed per day; Languages fixes the priority order NextLanguage
// walks.
type Store struct {
	path      string
	limits    map[string]int
	languages []string
	now       func() time.Time
}

func NewStore(path string, languages []string, limits map[string]int) *Store {
	return &Store{
		path:      path,
		limits:    limits,
		languages: languages,
		now:       time.Now,
	}
}

// load reads today's counters, failing open to a fresh day on any problem or
// when the stored date is not today.
func (s *Store) load() dayQuota {
	today := s.now().Format("2006-01-02")
	fresh := dayQuota{Date: today, Posts: map[string]int{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("quota file unreadable, starting fresh", "path", s.path, "err", err)
		}
		return fresh
	}

	var q dayQuota
	if err := json.Unmarshal(data, &q); err != nil || q.Date != today {
		return fresh
	}
	if q.Posts == nil {
		q.Posts = map[string]int{}
	}
	return q
}

// NextLanguage returns the first language with budget left, in priority
// order, or "" when every quota is spent.
func (s *Store) NextLanguage() string {
	q := s.load()
	for _, lang := range s.languages {
		if q.Posts[lang] < s.limits[lang] {
			return lang
		}
	}
	return ""
}

// Increment records one published article for the language.
func (s *Store) Increment(language string) error {
	q := s.load()
	q.Posts[language]++

	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quota: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create quota dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write quota: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace quota: %w", err)
	}
	return nil
}
