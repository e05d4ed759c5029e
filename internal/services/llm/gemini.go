package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/common"
	"github.com/ternarybob/libram/internal/interfaces"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	geminiCallTimeout  = 60 * time.Second
)

// GeminiClassifier answers categorization prompts through the Gemini API with
// the same throttle and retry discipline as the Claude variant.
type GeminiClassifier struct {
	logger      arbor.ILogger
	client      *genai.Client
	model       string
	temperature float32
	limiter     *rate.Limiter
	retry       *RetryConfig
}

var _ interfaces.Classifier = (*GeminiClassifier)(nil)

func NewGeminiClassifier(cfg common.AIConfig, logger arbor.ILogger) (*GeminiClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.api_key)")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	c := &GeminiClassifier{
		logger:      logger,
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		limiter:     newLimiter(cfg.RequestsPerMinute),
		retry:       NewDefaultRetryConfig(),
	}

	logger.Debug().
		Str("model", model).
		Int("requests_per_minute", cfg.RequestsPerMinute).
		Msg("Gemini classifier initialized")
	return c, nil
}

func (c *GeminiClassifier) Name() string { return "gemini" }

func (c *GeminiClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retry.CalculateBackoff(attempt-1, ExtractRetryDelay(lastErr))
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Gemini rate limited, backing off")
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
	return "", fmt.Errorf("Gemini call failed after %d retries: %w", c.retry.MaxRetries, lastErr)
}

func (c *GeminiClassifier) call(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}

	var sb strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if sb.Len() > 0 {
				break
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini API")
	}
	return sb.String(), nil
}
