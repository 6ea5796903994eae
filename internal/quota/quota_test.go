package quota

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, limits map[string]int) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "quota.json"), []string{"en", "es"}, limits)
	s.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestNextLanguageWalksPriorityOrder(t *testing.T) {
	s := newTestStore(t, map[string]int{"en": 2, "es": 1})

	if got := s.NextLanguage(); got != "en" {
		t.Fatalf("fresh day should start with en, got %q", got)
	}
	if err := s.Increment("en"); err != nil {
		t.Fatal(err)
	}
	if got := s.NextLanguage(); got != "en" {
		t.Fatalf("en still has budget, got %q", got)
	}
	if err := s.Increment("en"); err != nil {
		t.Fatal(err)
	}
	if got := s.NextLanguage(); got != "es" {
		t.Fatalf("en exhausted, want es, got %q", got)
	}
	if err := s.Increment("es"); err != nil {
		t.Fatal(err)
	}
	if got := s.NextLanguage(); got != "" {
		t.Fatalf("all quotas spent, want empty, got %q", got)
	}
}

func TestQuotaResetsOnDateChange(t *testing.T) {
	s := newTestStore(t, map[string]int{"en": 1, "es": 0})

	if err := s.Increment("en"); err != nil {
		t.Fatal(err)
	}
	if got := s.NextLanguage(); got != "" {
		t.Fatalf("budget spent, got %q", got)
	}

	s.now = func() time.Time { return time.Date(2026, 9, 2, 0, 5, 0, 0, time.UTC) }
	if got := s.NextLanguage(); got != "en" {
		t.Fatalf("new day should reset counters, got %q", got)
	}
}

func TestCorruptQuotaFileStartsFresh(t *testing.T) {
	s := newTestStore(t, map[string]int{"en": 1, "es": 0})
	if err := os.WriteFile(s.path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.NextLanguage(); got != "en" {
		t.Errorf("corrupt file should fail open to a fresh day, got %q", got)
	}
}

func TestZeroLimitLanguageIsSkipped(t *testing.T) {
	s := newTestStore(t, map[string]int{"en": 0, "es": 2})
	if got := s.NextLanguage(); got != "es" {
		t.Errorf("zero-limit en must be skipped, got %q", got)
	}
}

func TestIncrementPersistsAcrossStores(t *testing.T) {
	s := newTestStore(t, map[string]int{"en": 1, "es": 1})
	if err := s.Increment("en"); err != nil {
		t.Fatal(err)
	}

	reopened := NewStore(s.path, []string{"en", "es"}, map[string]int{"en": 1, "es": 1})
	reopened.now = s.now
	if got := reopened.NextLanguage(); got != "es" {
		t.Errorf("counters must survive reopening, got %q", got)
	}
}
