package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"insights/internal/logger"
)

// OpenAIConfig configures the language model summarizer
type OpenAIConfig struct {
	Model         string  // gpt-4o-mini, gpt-3.5-turbo
	Temperature   float32 // Sampling temperature
	MaxRetries    int     // Attempts before falling back
	MaxTokens     int     // Completion budget
	MaxInputRunes int     // Document text sent with the prompt
}

// DefaultOpenAIConfig returns the settings used when none are configured.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:         "gpt-3.5-turbo",
		Temperature:   0.2,
		MaxRetries:    3,
		MaxTokens:     200,
		MaxInputRunes: 8000,
	}
}

// OpenAISummarizer asks a chat model for a two to three sentence summary.
// When every attempt fails the fallback summarizer is used.
type OpenAISummarizer struct {
	client   *openai.Client
	config   OpenAIConfig
	fallback Summarizer
	log      zerolog.Logger
}

// NewOpenAISummarizer creates a summarizer with explicit dependencies.
// fallback may be nil, in which case failures are returned to the caller.
func NewOpenAISummarizer(client *openai.Client, config OpenAIConfig, fallback Summarizer) *OpenAISummarizer {
	defaults := DefaultOpenAIConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.MaxInputRunes <= 0 {
		config.MaxInputRunes = defaults.MaxInputRunes
	}
	return &OpenAISummarizer{
		client:   client,
		config:   config,
		fallback: fallback,
		log:      logger.WithComponent("openai-summarizer"),
	}
}

// Summarize returns the model's summary, capped at 300 characters.
func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	const op = "OpenAISummarizer.Summarize"

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	summary, err := s.complete(ctx, text)
	if err == nil {
		return truncateRunes(summary, maxSummaryRunes), nil
	}

	if s.fallback == nil || errors.Is(err, context.Canceled) {
		return "", fmt.Errorf("%s: %w: %w", op, ErrSummaryFailed, err)
	}

	s.log.Warn().
		Err(err).
		Msg("Language model summary failed, using extractive summary")
	return s.fallback.Summarize(ctx, text)
}

func (s *OpenAISummarizer) complete(ctx context.Context, text string) (string, error) {
	input := text
	if utf8.RuneCountInString(input) > s.config.MaxInputRunes {
		input = string([]rune(input)[:s.config.MaxInputRunes])
	}

	s.log.Debug().
		Str("model", s.config.Model).
		Int("input_length", len(input)).
		Float32("temperature", s.config.Temperature).
		Msg("Sending summary request")

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Temperature: s.config.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: summarySystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: "Summarize this document:\n\n" + input,
				},
			},
			MaxTokens: s.config.MaxTokens,
		})
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", s.config.MaxRetries).
				Msg("Summary request failed, retrying")
			continue
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = ErrEmptyResponse
			continue
		}

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", s.config.MaxRetries, lastErr)
}

const summarySystemPrompt = `You summarize retail media documents such as creative briefs, ad specifications and brand guidelines.
Answer with two or three plain sentences that state the campaign goal, the product and the retailer when they are named.
Do not use lists, markdown or quotes. Stay under 300 characters.`
