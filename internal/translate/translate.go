// Package translate produces the Spanish edition of a run. It tries the free
// Google endpoint first and falls back to OpenAI when a key is configured;
// when every service fails the original text is kept.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vitalviral/newsbot/internal/logger"
)

const maxTranslateChars = 4000

// TranslateText translates text between two language codes with the best
// available service, returning the original text when none works.
func TranslateText(text, from, to string) (string, error) {
	if text == "" || from == to {
		return text, nil
	}

	original := text
	if len(text) > maxTranslateChars {
		text = text[:maxTranslateChars]
	}

	result, err := translateWithGoogle(text, from, to)
	if err == nil && result != "" && result != text {
		logger.Debug("google translate ok", "from", from, "to", to)
		return result, nil
	}
	logger.Warn("google translate failed", "from", from, "to", to, "err", err)

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		result, err := translateWithOpenAI(key, text, from, to)
		if err == nil && result != "" {
			logger.Debug("openai translate ok", "from", from, "to", to)
			return result, nil
		}
		logger.Warn("openai translate failed", "from", from, "to", to, "err", err)
	}

	return original, fmt.Errorf("no translation service available for %s->%s", from, to)
}

// translateWithGoogle uses the public gtx endpoint.
func translateWithGoogle(text, from, to string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", from)
	params.Set("tl", to)
	params.Set("dt", "t")
	params.Set("q", text)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get("https://translate.googleapis.com/translate_a/single?" + params.Encode())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse unwraps the nested-array payload the gtx endpoint
// returns: [[["translated", "original", ...], ...], ...].
func parseGoogleResponse(body []byte) (string, error) {
	var outer []interface{}
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("empty response")
	}

	segments, ok := outer[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		pair, ok := seg.([]interface{})
		if !ok || len(pair) == 0 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			b.WriteString(s)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("no translated segments")
	}
	return out, nil
}

func translateWithOpenAI(apiKey, text, from, to string) (string, error) {
	client := openai.NewClient(apiKey)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"Translate the following news text from %s to %s. Keep proper nouns untranslated. Return only the translation.\n\n%s",
					from, to, text),
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// categoryES maps English category labels to their Spanish edition.
var categoryES = map[string]string{
	"BREAKING NEWS": "ÚLTIMA HORA",
	"WORLD NEWS":    "NOTICIAS MUNDIALES",
	"CRIME":         "CRIMEN",
	"POLITICS":      "POLÍTICA",
	"LEGAL":         "JUSTICIA",
	"IMMIGRATION":   "INMIGRACIÓN",
	"BORDER":        "FRONTERA",
	"DEPORTATION":   "DEPORTACIÓN",
}

// LocalizeCategory returns the label in the target language. Unknown labels
// (states, cities, authority nouns) pass through unchanged.
func LocalizeCategory(cat, lang string) string {
	if lang != "es" {
		// Make sure an English run never keeps a Spanish label.
		for en, es := range categoryES {
			if strings.EqualFold(cat, es) {
				return en
			}
		}
		return cat
	}
	if es, ok := categoryES[strings.ToUpper(cat)]; ok {
		return es
	}
	return cat
}
