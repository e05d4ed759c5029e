package categorizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/models"
)

// scriptedBackend returns a fixed response and counts calls.
type scriptedBackend struct {
	response string
	err      error
	calls    int
}

func (s *scriptedBackend) Classify(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *scriptedBackend) Name() string { return "scripted" }

func testMetadata() models.GameMetadata {
	return models.GameMetadata{
		GameType: "D&D",
		Edition:  "2nd",
		BookType: "Core Rules",
	}
}

func TestCategorize_SmartFallbackWithoutBackend(t *testing.T) {
	cat := New(arbor.NewLogger(), nil, 16)

	tests := []struct {
		name       string
		content    string
		category   string
		confidence float64
	}{
		{"spell terms", "The fireball spell deals 1d6 damage per level.", "Spells/Magic", 0.7},
		{"combat terms", "Make an attack roll against the target's armor.", "Combat", 0.7},
		{"character terms", "Each class grants different ability scores.", "Character Creation", 0.6},
		{"equipment terms", "This gear has a listed cost and weight.", "Equipment", 0.6},
		{"no known terms", "The moon rose over the quiet village.", "General", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cat.Categorize(context.Background(), tt.content, testMetadata())
			assert.Equal(t, tt.category, result.PrimaryCategory)
			assert.Equal(t, tt.confidence, result.Confidence)
			assert.Equal(t, models.MethodSmartFallback, result.CategorizationMethod)
		})
	}
}

func TestCategorize_RulePriority(t *testing.T) {
	cat := New(arbor.NewLogger(), nil, 16)

	// Spell vocabulary outranks combat vocabulary when both appear.
	result := cat.Categorize(context.Background(),
		"Cast the spell before resolving the attack damage.", testMetadata())
	assert.Equal(t, "Spells/Magic", result.PrimaryCategory)
}

func TestCategorize_BackendResponseParsed(t *testing.T) {
	backend := &scriptedBackend{response: `{
		"primary_category": "Monsters/Creatures",
		"secondary_categories": ["Lore/Setting"],
		"confidence": 0.9,
		"reasoning": "Stat blocks for forest creatures",
		"key_topics": ["monsters"],
		"game_specific_elements": ["THAC0"],
		"content_type": "table"
	}`}
	cat := New(arbor.NewLogger(), backend, 16)

	result := cat.Categorize(context.Background(), "Owlbear: AC 5, HD 5+2", testMetadata())

	assert.Equal(t, "Monsters/Creatures", result.PrimaryCategory)
	assert.Equal(t, []string{"Lore/Setting"}, result.SecondaryCategories)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "table", result.ContentType)
	assert.Equal(t, models.MethodAIAnalysis, result.CategorizationMethod)
}

func TestCategorize_FieldDefaults(t *testing.T) {
	// Missing and wrong-typed fields default individually instead of failing
	// the whole decode.
	backend := &scriptedBackend{response: `{"primary_category": 42, "confidence": "high"}`}
	cat := New(arbor.NewLogger(), backend, 16)

	result := cat.Categorize(context.Background(), "some text", testMetadata())

	assert.Equal(t, "General", result.PrimaryCategory)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, "description", result.ContentType)
	assert.Empty(t, result.SecondaryCategories)
	assert.NotNil(t, result.SecondaryCategories)
	assert.Equal(t, models.MethodAIAnalysis, result.CategorizationMethod)
}

func TestCategorize_HardFallbackCases(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"empty response", "", nil},
		{"whitespace response", "   \n\t", nil},
		{"non-JSON response", "I think this is about spells.", nil},
		{"JSON array", `["Spells"]`, nil},
		{"JSON null", `null`, nil},
		{"backend error", "", fmt.Errorf("request timed out")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &scriptedBackend{response: tt.response, err: tt.err}
			cat := New(arbor.NewLogger(), backend, 16)

			result := cat.Categorize(context.Background(), "content "+tt.name, testMetadata())

			assert.Equal(t, "General", result.PrimaryCategory)
			assert.Equal(t, 0.1, result.Confidence)
			assert.Equal(t, models.MethodFallback, result.CategorizationMethod)
		})
	}
}

func TestCategorize_ConfidenceAlwaysInRange(t *testing.T) {
	responses := []string{
		`{"primary_category": "Combat", "confidence": 1.7}`,
		`{"primary_category": "Combat", "confidence": -0.3}`,
		`{"primary_category": "Combat", "confidence": 0.0}`,
		`{"primary_category": "Combat", "confidence": 1.0}`,
	}

	for i, response := range responses {
		backend := &scriptedBackend{response: response}
		cat := New(arbor.NewLogger(), backend, 16)

		result := cat.Categorize(context.Background(), fmt.Sprintf("content %d", i), testMetadata())
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}

	// Out-of-range values reset to the neutral default rather than clipping.
	backend := &scriptedBackend{response: `{"confidence": 2.5}`}
	cat := New(arbor.NewLogger(), backend, 16)
	result := cat.Categorize(context.Background(), "out of range", testMetadata())
	assert.Equal(t, 0.5, result.Confidence)
}

func TestCategorize_CacheHitIsIdempotent(t *testing.T) {
	backend := &scriptedBackend{response: `{"primary_category": "Combat", "confidence": 0.8}`}
	cat := New(arbor.NewLogger(), backend, 16)

	first := cat.Categorize(context.Background(), "attack roll rules", testMetadata())
	second := cat.Categorize(context.Background(), "attack roll rules", testMetadata())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.calls, "second call must be served from cache")
}

func TestCacheKey_Determinism(t *testing.T) {
	meta := testMetadata()
	content := "The quick brown owlbear jumps over the lazy kobold."

	assert.Equal(t, cacheKey(content, meta), cacheKey(content, meta))

	// Only the first 500 characters participate.
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	tail := string(long) + "different tail"
	assert.Equal(t, cacheKey(string(long), meta), cacheKey(tail, meta))

	other := meta
	other.Edition = "5th"
	assert.NotEqual(t, cacheKey(content, meta), cacheKey(content, other))
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newResultCache(2)
	a := models.CategorizationResult{PrimaryCategory: "A"}
	b := models.CategorizationResult{PrimaryCategory: "B"}
	c := models.CategorizationResult{PrimaryCategory: "C"}

	cache.Put("a", a)
	cache.Put("b", b)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Put("c", c)
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get("b")
	assert.False(t, ok, "least recently used entry evicted")
	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.PrimaryCategory)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestBuildPrompt_TruncatesContent(t *testing.T) {
	long := make([]byte, maxPromptContent+500)
	for i := range long {
		long[i] = 'x'
	}

	prompt := buildPrompt(string(long), testMetadata())
	assert.Contains(t, prompt, "...")
	assert.NotContains(t, prompt, string(long))

	short := buildPrompt("short content", testMetadata())
	assert.Contains(t, short, "short content")
	assert.Contains(t, short, "D&D SPECIFIC:")

	unknown := testMetadata()
	unknown.GameType = "Mystery System"
	generic := buildPrompt("short content", unknown)
	assert.Contains(t, generic, genericCategories)
}
