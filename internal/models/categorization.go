package models

// Categorization methods, in decreasing order of trust.
const (
	// MethodAIAnalysis means a classification backend returned a usable result.
	MethodAIAnalysis = "ai_analysis"
	// MethodSmartFallback means the deterministic keyword rules decided.
	MethodSmartFallback = "smart_fallback"
	// MethodFallback means categorization failed outright and the result is a
	// low-confidence placeholder.
	MethodFallback = "fallback"
)

// CategorizationResult is the outcome of categorizing one block of content.
// Confidence is always clamped to [0.0, 1.0]; on any parse or validation
// failure the method is MethodFallback with confidence 0.1.
type CategorizationResult struct {
	PrimaryCategory      string   `json:"primary_category"`
	SecondaryCategories  []string `json:"secondary_categories"`
	Confidence           float64  `json:"confidence"`
	Reasoning            string   `json:"reasoning"`
	KeyTopics            []string `json:"key_topics"`
	GameSpecificElements []string `json:"game_specific_elements"`
	ContentType          string   `json:"content_type"`
	CategorizationMethod string   `json:"categorization_method"`
}

// ClampConfidence forces Confidence into the valid [0,1] range. Out-of-range
// values from a backend are reset to the neutral default rather than clipped
// to the nearer bound.
func (r *CategorizationResult) ClampConfidence() {
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		r.Confidence = 0.5
	}
}
