package selector

import (
	"context"
	"testing"
	"time"

	"github.com/vitalviral/newsbot/internal/news"
	"github.com/vitalviral/newsbot/internal/scoring"
)

var selNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeSeen struct {
	known map[string]bool
}

func (f *fakeSeen) IsNew(a news.Article) bool { return !f.known[a.URL] }
func (f *fakeSeen) MarkSeen(a news.Article) error {
	if f.known == nil {
		f.known = map[string]bool{}
	}
	f.known[a.URL] = true
	return nil
}

type fakeState struct{ last string }

func (f *fakeState) LastSource() string { return f.last }

type fakeImages struct {
	byURL  map[string]string
	probes []string
}

func (f *fakeImages) FetchImage(_ context.Context, pageURL string) string {
	f.probes = append(f.probes, pageURL)
	return f.byURL[pageURL]
}

func newTestSelector(seen *fakeSeen, images *fakeImages) *Selector {
	if seen == nil {
		seen = &fakeSeen{}
	}
	if images == nil {
		images = &fakeImages{}
	}
	s := New(seen, &fakeState{}, images, scoring.New(0), 0, 0)
	s.now = func() time.Time { return selNow }
	return s
}

func article(title, url string, age time.Duration) news.Article {
	return news.Article{
		Title:   title,
		URL:     url,
		Source:  "Wire",
		PubDate: selNow.Add(-age),
	}
}

func TestSelectBestReturnsNilOnEmptyInput(t *testing.T) {
	s := newTestSelector(nil, nil)
	if got := s.SelectBest(context.Background(), nil, "en"); got != nil {
		t.Fatalf("expected nil winner, got %q", got.Title)
	}
}

func TestRecencyWindowIsInclusive(t *testing.T) {
	s := newTestSelector(nil, nil)
	articles := []news.Article{
		article("Exactly at the cutoff", "https://x.test/a", 12*time.Hour),
		article("Just past the cutoff", "https://x.test/b", 12*time.Hour+time.Second),
	}

	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil {
		t.Fatal("article exactly at the window boundary must qualify")
	}
	if got.URL != "https://x.test/a" {
		t.Errorf("winner = %q, want the boundary article", got.Title)
	}
}

func TestUnparsableDateIsExcluded(t *testing.T) {
	s := newTestSelector(nil, nil)
	articles := []news.Article{
		{Title: "No date at all", URL: "https://x.test/nodate", Source: "Wire"},
	}
	if got := s.SelectBest(context.Background(), articles, "en"); got != nil {
		t.Fatalf("dateless article must never win, got %q", got.Title)
	}
}

func TestSeenArticlesAreFiltered(t *testing.T) {
	seen := &fakeSeen{known: map[string]bool{"https://x.test/old": true}}
	s := newTestSelector(seen, nil)

	articles := []news.Article{
		article("Already posted story", "https://x.test/old", time.Hour),
		article("Fresh replacement story", "https://x.test/new", 2*time.Hour),
	}
	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil || got.URL != "https://x.test/new" {
		t.Fatalf("expected the unseen article to win, got %+v", got)
	}
}

func TestHigherScoreWins(t *testing.T) {
	s := newTestSelector(nil, nil)
	articles := []news.Article{
		article("Garden show opens this weekend", "https://x.test/low", 8*time.Hour),
		article("Trump signs border order", "https://x.test/high", 8*time.Hour),
	}
	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil || got.URL != "https://x.test/high" {
		t.Fatalf("expected keyword-heavy article to win, got %+v", got)
	}
}

func TestTieKeepsFetchOrder(t *testing.T) {
	s := newTestSelector(nil, nil)
	articles := []news.Article{
		article("Quiet town hall reopens", "https://x.test/first", 8*time.Hour),
		article("Museum wing reopens quietly", "https://x.test/second", 8*time.Hour),
	}
	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil || got.URL != "https://x.test/first" {
		t.Fatalf("equal scores must keep fetch order, got %+v", got)
	}
}

func TestImageProbePromotesRunnerUp(t *testing.T) {
	images := &fakeImages{byURL: map[string]string{
		"https://x.test/second": "https://img.test/lead.jpg",
	}}
	s := newTestSelector(nil, images)

	articles := []news.Article{
		article("Trump signs border order", "https://x.test/first", 8*time.Hour),
		article("City council meets tonight", "https://x.test/second", 8*time.Hour),
	}
	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil {
		t.Fatal("expected a winner")
	}
	if got.URL != "https://x.test/second" {
		t.Fatalf("runner-up with image should win, got %q", got.URL)
	}
	if got.ImageURL != "https://img.test/lead.jpg" {
		t.Errorf("winner should carry the probed image, got %q", got.ImageURL)
	}
	// The leader was probed first, then the hit stopped the sequence.
	if len(images.probes) != 2 || images.probes[0] != "https://x.test/first" {
		t.Errorf("probe order = %v, want leader first then runner-up", images.probes)
	}
}

func TestProbeStopsAtFirstHit(t *testing.T) {
	images := &fakeImages{byURL: map[string]string{
		"https://x.test/a": "https://img.test/a.jpg",
		"https://x.test/b": "https://img.test/b.jpg",
	}}
	s := newTestSelector(nil, images)

	articles := []news.Article{
		article("Quiet town hall reopens", "https://x.test/a", 8*time.Hour),
		article("Museum wing reopens quietly", "https://x.test/b", 8*time.Hour),
	}
	s.SelectBest(context.Background(), articles, "en")
	if len(images.probes) != 1 {
		t.Errorf("probing must stop at the first hit, got %d probes", len(images.probes))
	}
}

func TestProbeOnlyCoversTopThree(t *testing.T) {
	images := &fakeImages{byURL: map[string]string{
		"https://x.test/4": "https://img.test/4.jpg",
	}}
	s := newTestSelector(nil, images)

	articles := []news.Article{
		article("Trump signs border order tonight", "https://x.test/1", 8*time.Hour),
		article("Trump border order details emerge", "https://x.test/2", 8*time.Hour),
		article("Reaction to Trump border order", "https://x.test/3", 8*time.Hour),
		article("Quiet town hall reopens", "https://x.test/4", 8*time.Hour),
	}
	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil {
		t.Fatal("expected a winner")
	}
	if got.URL == "https://x.test/4" {
		t.Errorf("fourth-ranked candidate must not be probed or promoted")
	}
	if len(images.probes) != 3 {
		t.Errorf("got %d probes, want 3", len(images.probes))
	}
}

func TestNoImageFallsBackToLeaderUnchanged(t *testing.T) {
	s := newTestSelector(nil, nil)
	articles := []news.Article{
		article("Trump signs border order", "https://x.test/lead", 8*time.Hour),
	}
	articles[0].ImageURL = "https://rss.test/thumb.jpg"

	got := s.SelectBest(context.Background(), articles, "en")
	if got == nil {
		t.Fatal("expected a winner")
	}
	if got.ImageURL != "https://rss.test/thumb.jpg" {
		t.Errorf("fallback winner must keep its feed image, got %q", got.ImageURL)
	}
}
