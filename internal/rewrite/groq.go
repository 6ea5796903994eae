package rewrite

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vitalviral/newsbot/internal/logger"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// groqModels is the in-order model ladder; free-tier models get rate-limited
// or retired, so the provider walks the list until one answers.
var groqModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

// GroqProvider talks to Groq's OpenAI-compatible chat completions API.
type GroqProvider struct {
	client *openai.Client
	models []string
}

func NewGroqProvider(apiKey string) *GroqProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &GroqProvider{
		client: openai.NewClientWithConfig(cfg),
		models: groqModels,
	}
}

func (p *GroqProvider) Name() string { return "groq" }

// Rewrite tries each model in order; a model failure moves to the next one.
func (p *GroqProvider) Rewrite(ctx context.Context, prompt string) (*Result, error) {
	var lastErr error

	for _, model := range p.models {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			logger.Debug("groq model failed", "model", model, "err", err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("model %s returned no choices", model)
			continue
		}

		res, err := parseResult(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = fmt.Errorf("model %s: %w", model, err)
			continue
		}
		return res, nil
	}

	return nil, fmt.Errorf("all groq models failed: %w", lastErr)
}
