package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/ratelimit"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/time/rate"
)

type openaiAIRepository struct {
	client         openai.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates an AIRepository backed by the OpenAI chat
// completions API.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute)

	return &openaiAIRepository{
		client:         openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey)),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}
}

// Generate sends the prompts as a chat completion and returns the text of
// the first choice.
func (r *openaiAIRepository) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	// OpenAI has no cheap pre-flight token count, so reserve budget from a
	// character-based estimate and settle with the real usage afterwards.
	estimated := estimateTokens(systemPrompt) + estimateTokens(userPrompt)
	if err := r.tokenLimiter.Wait(ctx, estimated); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.cfg.OpenAI.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(r.cfg.OpenAI.Temperature),
	})
	if err != nil {
		r.logger.Error("Failed to send request to OpenAI API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("invalid response from OpenAI API: no choices found")
	}

	consumed := int(resp.Usage.TotalTokens)
	if consumed > estimated {
		// Consume the shortfall so the window reflects real usage.
		if err := r.tokenLimiter.Wait(ctx, consumed-estimated); err != nil {
			return "", fmt.Errorf("failed to wait for token limit: %w", err)
		}
	}
	r.logger.Debug("OpenAI token usage",
		logger.IntField("total_tokens", consumed),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func estimateTokens(s string) int {
	return len(s)/4 + 1
}
