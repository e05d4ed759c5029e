package categorizer

import (
	"strings"

	"github.com/ternarybob/libram/internal/models"
)

// fallbackRule pairs a keyword family with the categorization it produces.
// Rules are evaluated in order and the first match wins.
type fallbackRule struct {
	terms  []string
	result models.CategorizationResult
}

// fallbackRules is the deterministic keyword ladder used when no
// classification backend is configured. Ordering encodes priority: spell
// vocabulary outranks combat vocabulary, which outranks the rest.
var fallbackRules = []fallbackRule{
	{
		terms: []string{"spell", "magic", "cast", "enchant", "incantation"},
		result: models.CategorizationResult{
			PrimaryCategory:      "Spells/Magic",
			SecondaryCategories:  []string{"Rules"},
			Confidence:           0.7,
			Reasoning:            "Content contains spell or magic-related terminology",
			KeyTopics:            []string{"spells", "magic", "casting"},
			GameSpecificElements: []string{"spell levels", "components"},
			ContentType:          "rules",
		},
	},
	{
		terms: []string{"combat", "attack", "damage", "armor", "weapon", "hit points"},
		result: models.CategorizationResult{
			PrimaryCategory:      "Combat",
			SecondaryCategories:  []string{"Rules"},
			Confidence:           0.7,
			Reasoning:            "Content contains combat-related terminology",
			KeyTopics:            []string{"combat", "attack", "damage"},
			GameSpecificElements: []string{"armor class", "hit points"},
			ContentType:          "rules",
		},
	},
	{
		terms: []string{"character", "class", "race", "ability", "stats", "level"},
		result: models.CategorizationResult{
			PrimaryCategory:      "Character Creation",
			SecondaryCategories:  []string{"Classes", "Races"},
			Confidence:           0.6,
			Reasoning:            "Content appears to be about character creation",
			KeyTopics:            []string{"character", "abilities", "stats"},
			GameSpecificElements: []string{"ability scores", "classes"},
			ContentType:          "description",
		},
	},
	{
		terms: []string{"equipment", "item", "treasure", "gear", "cost", "weight"},
		result: models.CategorizationResult{
			PrimaryCategory:      "Equipment",
			SecondaryCategories:  []string{"Treasure"},
			Confidence:           0.6,
			Reasoning:            "Content contains equipment or treasure references",
			KeyTopics:            []string{"equipment", "items", "gear"},
			GameSpecificElements: []string{"cost", "weight"},
			ContentType:          "description",
		},
	},
}

// smartFallback categorizes content by the keyword ladder alone. Unmatched
// content lands on General with confidence 0.4.
func smartFallback(content string) models.CategorizationResult {
	lower := strings.ToLower(content)

	for _, rule := range fallbackRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				result := rule.result
				result.CategorizationMethod = models.MethodSmartFallback
				return result
			}
		}
	}

	return models.CategorizationResult{
		PrimaryCategory:      "General",
		SecondaryCategories:  []string{},
		Confidence:           0.4,
		Reasoning:            "Smart fallback - general content classification",
		KeyTopics:            []string{},
		GameSpecificElements: []string{},
		ContentType:          "description",
		CategorizationMethod: models.MethodSmartFallback,
	}
}

// hardFallback is the result for unrecoverable parse or backend failure.
func hardFallback() models.CategorizationResult {
	return models.CategorizationResult{
		PrimaryCategory:      "General",
		SecondaryCategories:  []string{},
		Confidence:           0.1,
		Reasoning:            "AI categorization failed, using fallback",
		KeyTopics:            []string{},
		GameSpecificElements: []string{},
		ContentType:          "unknown",
		CategorizationMethod: models.MethodFallback,
	}
}
