package news

import (
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	a := Article{PubDate: now.Add(-90 * time.Minute)}
	if got := a.Age(now); got != 90*time.Minute {
		t.Errorf("Age = %v, want 90m", got)
	}
}

func TestAgeWithoutDateIsEffectivelyInfinite(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	var a Article
	if got := a.Age(now); got < 1000*time.Hour {
		t.Errorf("Age of dateless article = %v, want effectively infinite", got)
	}
}
