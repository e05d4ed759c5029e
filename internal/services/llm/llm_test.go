package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/common"
)

func TestNoopClassifier_KeywordResponses(t *testing.T) {
	c := NewNoopClassifier(arbor.NewLogger())

	tests := []struct {
		name     string
		prompt   string
		category string
	}{
		{"spell prompt", "CONTENT TO CATEGORIZE:\nThe fireball spell", "Spells/Magic"},
		{"combat prompt", "CONTENT TO CATEGORIZE:\nResolve the attack roll", "Combat"},
		{"character prompt", "CONTENT TO CATEGORIZE:\nPick a class for your hero", "Character Creation"},
		{"generic prompt", "CONTENT TO CATEGORIZE:\nA quiet village by the sea", "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := c.Classify(context.Background(), tt.prompt)
			require.NoError(t, err)

			var parsed map[string]any
			require.NoError(t, json.Unmarshal([]byte(response), &parsed))
			assert.Equal(t, tt.category, parsed["primary_category"])

			conf, ok := parsed["confidence"].(float64)
			require.True(t, ok)
			assert.GreaterOrEqual(t, conf, 0.0)
			assert.LessOrEqual(t, conf, 1.0)
		})
	}
}

func TestNewClassifier_ProviderResolution(t *testing.T) {
	logger := arbor.NewLogger()

	t.Run("noop by default", func(t *testing.T) {
		c := NewClassifier(common.AIConfig{Provider: "noop"}, logger)
		assert.Equal(t, "noop", c.Name())
	})

	t.Run("empty provider downgrades to noop", func(t *testing.T) {
		c := NewClassifier(common.AIConfig{}, logger)
		assert.Equal(t, "noop", c.Name())
	})

	t.Run("claude without API key downgrades to noop", func(t *testing.T) {
		c := NewClassifier(common.AIConfig{Provider: "claude"}, logger)
		assert.Equal(t, "noop", c.Name())
	})

	t.Run("claude with API key", func(t *testing.T) {
		c := NewClassifier(common.AIConfig{Provider: "claude", APIKey: "test-key"}, logger)
		assert.Equal(t, "claude", c.Name())
	})
}

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, IsRateLimitError(nil))
	assert.False(t, IsRateLimitError(errors.New("connection refused")))
	assert.True(t, IsRateLimitError(errors.New("HTTP 429 Too Many Requests")))
	assert.True(t, IsRateLimitError(errors.New("Status: RESOURCE_EXHAUSTED")))
	assert.True(t, IsRateLimitError(errors.New("rate_limit_error: exceeded")))
	assert.True(t, IsRateLimitError(errors.New("quota exceeded for model")))
}

func TestExtractRetryDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(nil))
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(errors.New("no delay here")))

	err := errors.New("Error 429, Message: quota exceeded. Please retry in 45.5s., Status: RESOURCE_EXHAUSTED")
	assert.Equal(t, time.Duration(45.5*float64(time.Second)), ExtractRetryDelay(err))

	err = errors.New("retryDelay: 12s")
	assert.Equal(t, 12*time.Second, ExtractRetryDelay(err))
}

func TestCalculateBackoff(t *testing.T) {
	cfg := NewDefaultRetryConfig()

	first := cfg.CalculateBackoff(0, 0)
	assert.Equal(t, cfg.InitialBackoff, first)

	second := cfg.CalculateBackoff(1, 0)
	assert.Greater(t, second, first)

	// API-provided delay overrides the configured base.
	withHint := cfg.CalculateBackoff(0, 10*time.Second)
	assert.Equal(t, 11*time.Second, withHint)

	// Never exceeds the cap.
	capped := cfg.CalculateBackoff(10, 50*time.Second)
	assert.LessOrEqual(t, capped, cfg.MaxBackoff)
}
