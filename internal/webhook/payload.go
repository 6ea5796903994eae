package webhook

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/news"
	"github.com/vitalviral/newsbot/internal/rewrite"
)

// Payload is the document posted to the automation webhook. Field names
// match what the downstream scenario expects.
type Payload struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	CategoryColor    string   `json:"categoryColor"`
	Source           string   `json:"source"`
	URL              string   `json:"url"`
	Language         string   `json:"language"`
	IsTrending       bool     `json:"isTrending"`
	IsEmergency      bool     `json:"isEmergency"`
	Hashtags         []string `json:"hashtags,omitempty"`

	ImageURL    string `json:"imageUrl"`
	RawImageURL string `json:"rawImageUrl"`
	B64ImageURL string `json:"b64ImageUrl"`

	// Cloudinary text overlays choke on URL metacharacters, so the fields
	// rendered into image transformations ship pre-escaped.
	CloudinaryTitle     string `json:"cloudinaryTitle"`
	CloudinaryShortDesc string `json:"cloudinaryShortDesc"`
	CloudinaryCategory  string `json:"cloudinaryCategory"`
	CloudinarySource    string `json:"cloudinarySource"`
}

// generalTopics are labels that are NOT locations; anything else gets the
// location pin in the title badge.
var generalTopics = map[string]bool{
	"IMMIGRATION": true, "ICE": true, "TRUMP": true, "DEPORTATION": true,
	"BORDER": true, "BREAKING NEWS": true, "POLITICS": true, "LEGAL": true,
	"SHOWDOWN": true, "CLASH": true, "BATTLE": true, "EMERGENCY": true,
	"EMERGENCY ALERT": true, "GENERAL": true, "ÚLTIMA HORA": true,
}

// BuildPayload assembles the final document: badge-prefixed title, escaped
// overlay fields and the best-effort base64 image.
func BuildPayload(winner *news.Candidate, rw rewrite.Rewritten, language string, now time.Time) Payload {
	title := fmt.Sprintf("%s %s | %s | %s",
		badgeIcon(winner), TimeBadge(winner, now), locationPart(rw.Category), rw.Title)

	description := rw.Description + "\n\n🔗 Read more: " + winner.Source

	p := Payload{
		Title:            title,
		ShortDescription: rw.ShortDescription,
		Description:      description,
		Category:         rw.Category,
		CategoryColor:    winner.CategoryColor,
		Source:           winner.Source,
		URL:              winner.URL,
		Language:         language,
		IsTrending:       winner.IsTrending,
		IsEmergency:      winner.IsEmergency,
		ImageURL:         winner.ImageURL,
		RawImageURL:      winner.ImageURL,
	}

	p.CloudinaryTitle = CloudinarySafe(p.Title)
	p.CloudinaryShortDesc = CloudinarySafe(p.ShortDescription)
	p.CloudinaryCategory = CloudinarySafe(p.Category)
	p.CloudinarySource = CloudinarySafe(p.Source)

	return p
}

// TimeBadge labels the story's freshness. Corroborated stories read
// CONFIRMED regardless of age.
func TimeBadge(winner *news.Candidate, now time.Time) string {
	if winner.IsTrending {
		return "CONFIRMED"
	}
	switch age := winner.Age(now); {
	case age < 20*time.Minute:
		return "DEVELOPING"
	case age < time.Hour:
		return "JUST IN"
	default:
		return "STORY UPDATE"
	}
}

func badgeIcon(winner *news.Candidate) string {
	if winner.IsTrending {
		return "🔥"
	}
	return "🚨"
}

func locationPart(category string) string {
	if generalTopics[strings.ToUpper(category)] {
		return category
	}
	return "📍 " + category
}

// CloudinarySafe escapes characters Cloudinary treats as transformation
// syntax when text is rendered into an image overlay URL.
func CloudinarySafe(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer(
		"%", "%25",
		"/", "%2F",
		"?", "%3F",
		"#", "%23",
		"&", "%26",
		"+", "%2B",
		",", "%2C",
		":", "%3A",
		";", "%3B",
		"=", "%3D",
		`"`, "'",
		"\n", " ",
		"\r", " ",
	)
	return strings.TrimSpace(r.Replace(text))
}

// AttachImageData downloads the winner image and embeds it as URL-safe
// base64 so the downstream scenario gets real pixels, not just a link.
// Failure leaves B64ImageURL empty; the URL fields still work.
func AttachImageData(p *Payload) {
	if p.ImageURL == "" {
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodGet, p.ImageURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("image download failed, sending URL only", "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("image download bad status, sending URL only", "status", resp.StatusCode)
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return
	}
	p.B64ImageURL = base64.RawURLEncoding.EncodeToString(data)
}
