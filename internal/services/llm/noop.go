package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
)

// NoopClassifier is the no-backend variant: it answers categorization prompts
// with deterministic keyword-derived JSON and never performs I/O. Used when no
// provider is configured, and as the silent downgrade target when a real
// provider cannot be constructed.
type NoopClassifier struct {
	logger arbor.ILogger
}

func NewNoopClassifier(logger arbor.ILogger) *NoopClassifier {
	return &NoopClassifier{logger: logger}
}

var _ interfaces.Classifier = (*NoopClassifier)(nil)

func (c *NoopClassifier) Name() string { return "noop" }

// Classify inspects the prompt for category keywords and returns a canned
// JSON response shaped like a real backend's answer.
func (c *NoopClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)

	var result map[string]any
	switch {
	case strings.Contains(lower, "spell") || strings.Contains(lower, "magic"):
		result = map[string]any{
			"primary_category":       "Spells/Magic",
			"secondary_categories":   []string{"Rules"},
			"confidence":             0.8,
			"reasoning":              "Content contains spell or magic-related terminology",
			"key_topics":             []string{"spells", "magic", "casting"},
			"game_specific_elements": []string{"spell levels", "components"},
			"content_type":           "rules",
		}
	case strings.Contains(lower, "combat") || strings.Contains(lower, "attack"):
		result = map[string]any{
			"primary_category":       "Combat",
			"secondary_categories":   []string{"Rules"},
			"confidence":             0.8,
			"reasoning":              "Content contains combat-related terminology",
			"key_topics":             []string{"combat", "attack", "damage"},
			"game_specific_elements": []string{"armor class", "hit points"},
			"content_type":           "rules",
		}
	case strings.Contains(lower, "character") || strings.Contains(lower, "class"):
		result = map[string]any{
			"primary_category":       "Character Creation",
			"secondary_categories":   []string{"Classes"},
			"confidence":             0.7,
			"reasoning":              "Content appears to be about character creation",
			"key_topics":             []string{"character", "abilities", "stats"},
			"game_specific_elements": []string{"ability scores", "classes"},
			"content_type":           "description",
		}
	default:
		result = map[string]any{
			"primary_category":       "General",
			"secondary_categories":   []string{},
			"confidence":             0.5,
			"reasoning":              "No clear category indicators",
			"key_topics":             []string{},
			"game_specific_elements": []string{},
			"content_type":           "description",
		}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
