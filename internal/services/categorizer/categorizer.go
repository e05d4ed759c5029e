// Package categorizer assigns content categories to extracted page text using
// an optional AI classification backend with deterministic keyword fallback.
package categorizer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
)

// Categorizer memoizes categorization results per (game context, content
// prefix) and degrades through smart fallback and hard fallback paths so a
// result is always produced.
type Categorizer struct {
	logger  arbor.ILogger
	backend interfaces.Classifier
	cache   *resultCache
}

// New creates a categorizer. A nil backend is valid and routes every request
// through the keyword fallback rules.
func New(logger arbor.ILogger, backend interfaces.Classifier, cacheSize int) *Categorizer {
	return &Categorizer{
		logger:  logger,
		backend: backend,
		cache:   newResultCache(cacheSize),
	}
}

// Categorize classifies one block of content for the given game context. The
// result is cached; identical content under the same game metadata returns
// the cached value. Errors never escape: backend or parse failures downgrade
// to a fallback result.
func (c *Categorizer) Categorize(ctx context.Context, content string, meta models.GameMetadata) models.CategorizationResult {
	key := cacheKey(content, meta)
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	result := c.categorize(ctx, content, meta)
	c.cache.Put(key, result)
	return result
}

func (c *Categorizer) categorize(ctx context.Context, content string, meta models.GameMetadata) models.CategorizationResult {
	if c.backend == nil {
		return smartFallback(content)
	}

	prompt := buildPrompt(content, meta)
	response, err := c.backend.Classify(ctx, prompt)
	if err != nil {
		c.logger.Warn().Err(err).Str("backend", c.backend.Name()).Msg("Classification backend failed")
		return hardFallback()
	}

	return c.parseResponse(response)
}

// parseResponse decodes a backend response defensively. Every field defaults
// individually; only an unparseable response forces the hard fallback.
func (c *Categorizer) parseResponse(response string) models.CategorizationResult {
	if strings.TrimSpace(response) == "" {
		c.logger.Warn().Msg("Classification backend returned empty response")
		return hardFallback()
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(response), &raw); err != nil || raw == nil {
		c.logger.Warn().Err(err).Msg("Failed to parse classification response")
		c.logger.Debug().Str("response", response).Msg("Raw classification response")
		return hardFallback()
	}

	result := models.CategorizationResult{
		PrimaryCategory:      stringField(raw, "primary_category", "General"),
		SecondaryCategories:  stringListField(raw, "secondary_categories"),
		Confidence:           floatField(raw, "confidence", 0.5),
		Reasoning:            stringField(raw, "reasoning", "AI categorization"),
		KeyTopics:            stringListField(raw, "key_topics"),
		GameSpecificElements: stringListField(raw, "game_specific_elements"),
		ContentType:          stringField(raw, "content_type", "description"),
		CategorizationMethod: models.MethodAIAnalysis,
	}
	result.ClampConfidence()
	return result
}

func stringField(raw map[string]any, key, fallback string) string {
	if s, ok := raw[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func floatField(raw map[string]any, key string, fallback float64) float64 {
	if f, ok := raw[key].(float64); ok {
		return f
	}
	return fallback
}

func stringListField(raw map[string]any, key string) []string {
	items, ok := raw[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
