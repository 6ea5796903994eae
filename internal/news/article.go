package news

import "time"

// Article is a single feed item as fetched from a source. The selection
// pipeline never mutates an Article; it annotates a copy (Candidate).
type Article struct {
	Title            string
	Description      string
	URL              string
	PubDate          time.Time // zero when the feed date was missing or unparsable
	Source           string
	SourceType       string
	OriginalLanguage string
	ImageURL         string // low-quality RSS enclosure image, may be empty
}

// Candidate is an Article annotated during one selection run.
type Candidate struct {
	Article

	Category      string
	CategoryColor string
	Score         int
	IsTrending    bool
	IsEmergency   bool
}

// Age returns how old the article is at the given instant. Articles without
// a parsable publication date report an effectively infinite age.
func (a Article) Age(now time.Time) time.Duration {
	if a.PubDate.IsZero() {
		return time.Duration(1<<62 - 1)
	}
	return now.Sub(a.PubDate)
}
