// Package category maps article text to a topical or geographic label plus a
// display color. Detection is a fixed sequence of rule stages; the order and
// the stop points decide which label wins, not just the score.
package category

import (
	"strings"
	"unicode"

	"github.com/vitalviral/newsbot/internal/news"
)

// Detection is the outcome of running the rule stages over one article.
// Score is the detector's own priority contribution; the scoring engine adds
// its terms on top of it.
type Detection struct {
	Category string
	Score    int
	Color    string
}

// Generic is the label an article keeps when no rule fires.
const Generic = "BREAKING NEWS"

const (
	topicAddend = 70
	stateAddend = 50
	cityAddend  = 80
)

// topicRules is scanned in priority order; the first keyword found in the
// text sets the category and stops this stage.
var topicRules = []struct {
	keyword  string
	category string
}{
	{"immigration", "IMMIGRATION"},
	{"ice", "ICE"},
	{"trump", "TRUMP"},
	{"deportation", "DEPORTATION"},
	{"border", "BORDER"},
	{"breaking", "BREAKING NEWS"},
	{"white house", "POLITICS"},
	{"court", "LEGAL"},
	{"showdown", "SHOWDOWN"},
	{"clash", "CLASH"},
	{"battle", "BATTLE"},
	{"emergency", "EMERGENCY"},
}

var stateNames = []string{
	"texas", "florida", "california", "new york", "arizona", "georgia",
	"pennsylvania", "ohio", "michigan", "illinois", "louisiana", "alabama",
	"kentucky", "tennessee",
}

// cityRules map enforcement hotspots to "City, ST" labels. A city is more
// specific than anything above it, so a match overrides and stops.
var cityRules = []struct {
	keyword string
	label   string
}{
	{"el paso", "EL PASO, TX"},
	{"eagle pass", "EAGLE PASS, TX"},
	{"laredo", "LAREDO, TX"},
	{"mcallen", "MCALLEN, TX"},
	{"brownsville", "BROWNSVILLE, TX"},
	{"nogales", "NOGALES, AZ"},
	{"yuma", "YUMA, AZ"},
	{"san diego", "SAN DIEGO, CA"},
	{"miami", "MIAMI, FL"},
	{"chicago", "CHICAGO, IL"},
}

// sentenceStarters never qualify as the authority noun in the fallback stage.
var sentenceStarters = map[string]bool{
	"a": true, "an": true, "the": true, "why": true, "how": true,
	"when": true, "where": true, "who": true,
}

var categoryColors = map[string]string{
	"TRUMP":           "#B22234",
	"ICE":             "#0B3D91",
	"IMMIGRATION":     "#1A5276",
	"DEPORTATION":     "#7B241C",
	"BORDER":          "#9C640C",
	"BREAKING NEWS":   "#C0392B",
	"POLITICS":        "#2E4053",
	"LEGAL":           "#4A235A",
	"SHOWDOWN":        "#943126",
	"CLASH":           "#935116",
	"BATTLE":          "#6E2C00",
	"EMERGENCY":       "#CB4335",
	"EMERGENCY ALERT": "#FF0000",
}

// DefaultColor backs categories with no entry in the color table.
const DefaultColor = "#333333"

// AlertColor is the fixed color for the emergency escalation label.
const AlertColor = "#FF0000"

// Detect runs the rule stages over the article's title and description.
func Detect(article news.Article) Detection {
	text := strings.ToLower(article.Title + " " + article.Description)

	detected := Generic
	score := 0

	// Stage 1: topic keywords, first match wins.
	for _, rule := range topicRules {
		if strings.Contains(text, rule.keyword) {
			detected = rule.category
			score += topicAddend
			break
		}
	}

	// Stage 2: state names boost and, when the label is still generic,
	// elevate to the state. Every state found contributes.
	for _, state := range stateNames {
		if strings.Contains(text, state) {
			score += stateAddend
			if detected == Generic || detected == "GENERAL" {
				detected = strings.ToUpper(state)
			}
		}
	}

	// Stage 3: a hotspot city is maximally specific and overrides everything.
	for _, rule := range cityRules {
		if strings.Contains(text, rule.keyword) {
			detected = rule.label
			score += cityAddend
			break
		}
	}

	// Stage 4: still generic — pull the first authority noun from the title.
	if detected == Generic {
		if noun := authorityNoun(article.Title); noun != "" {
			detected = noun
		}
	}

	return Detection{
		Category: detected,
		Score:    score,
		Color:    ColorFor(detected),
	}
}

// ColorFor looks up the display color for a category label.
func ColorFor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return DefaultColor
}

// authorityNoun scans the first five title words for a capitalized token
// longer than three characters that is not a common sentence starter, and
// returns it uppercased.
func authorityNoun(title string) string {
	words := strings.Fields(title)
	if len(words) > 5 {
		words = words[:5]
	}

	for _, w := range words {
		tok := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(tok) <= 3 {
			continue
		}
		first := []rune(tok)[0]
		if !unicode.IsUpper(first) {
			continue
		}
		if sentenceStarters[strings.ToLower(tok)] {
			continue
		}
		return strings.ToUpper(tok)
	}
	return ""
}
