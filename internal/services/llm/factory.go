// Package llm provides the classification backends behind the
// interfaces.Classifier capability: a no-op keyword responder plus Claude and
// Gemini API clients.
package llm

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/common"
	"github.com/ternarybob/libram/internal/interfaces"
)

// NewClassifier resolves the configured provider to a backend. Construction
// failures downgrade to the no-op backend with a single warning; the caller
// always receives a usable classifier and never retries construction.
func NewClassifier(cfg common.AIConfig, logger arbor.ILogger) interfaces.Classifier {
	switch cfg.Provider {
	case "claude":
		c, err := NewClaudeClassifier(cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Claude backend unavailable, using noop classifier")
			return NewNoopClassifier(logger)
		}
		return c

	case "gemini":
		c, err := NewGeminiClassifier(cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini backend unavailable, using noop classifier")
			return NewNoopClassifier(logger)
		}
		return c

	default:
		return NewNoopClassifier(logger)
	}
}
