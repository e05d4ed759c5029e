package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/common"
	"github.com/ternarybob/libram/internal/interfaces"
	"golang.org/x/time/rate"
)

const (
	defaultClaudeModel  = "claude-sonnet-4-20250514"
	claudeCallTimeout   = 60 * time.Second
	defaultClaudeTokens = 1024
)

// ClaudeClassifier answers categorization prompts through the Anthropic API.
// Calls are throttled by the configured requests-per-minute limit and retried
// on rate-limit errors with backoff.
type ClaudeClassifier struct {
	logger      arbor.ILogger
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
	retry       *RetryConfig
}

var _ interfaces.Classifier = (*ClaudeClassifier)(nil)

// NewClaudeClassifier builds the Anthropic-backed classifier. The API key is
// required; model and token limits fall back to defaults.
func NewClaudeClassifier(cfg common.AIConfig, logger arbor.ILogger) (*ClaudeClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or ai.api_key)")
	}

	model := cfg.Model
	if model == "" {
		model = defaultClaudeModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeTokens
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	c := &ClaudeClassifier{
		logger:      logger,
		client:      &client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		limiter:     newLimiter(cfg.RequestsPerMinute),
		retry:       NewDefaultRetryConfig(),
	}

	logger.Debug().
		Str("model", model).
		Int("max_tokens", maxTokens).
		Int("requests_per_minute", cfg.RequestsPerMinute).
		Msg("Claude classifier initialized")
	return c, nil
}

func (c *ClaudeClassifier) Name() string { return "claude" }

// Classify sends one prompt and returns the raw text response.
func (c *ClaudeClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, claudeCallTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retry.CalculateBackoff(attempt-1, ExtractRetryDelay(lastErr))
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Claude rate limited, backing off")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		response, err := c.call(callCtx, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err
		if !IsRateLimitError(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("Claude call failed after %d retries: %w", c.retry.MaxRetries, lastErr)
}

func (c *ClaudeClassifier) call(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.temperature))
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}
	return sb.String(), nil
}

// newLimiter builds a per-minute rate limiter; nil when throttling is off.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
}
