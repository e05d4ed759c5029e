package models

// Recommended extraction methods produced by confidence testing.
const (
	MethodText         = "text"
	MethodOCR          = "ocr"
	MethodManualReview = "manual_review_needed"
)

// SampleExtraction is a short excerpt captured during confidence testing so a
// human can eyeball what the extractor actually produced.
type SampleExtraction struct {
	Page       int     `json:"page"`
	Method     string  `json:"method"`
	Content    string  `json:"content"`
	CharCount  int     `json:"char_count,omitempty"`
	WordCount  int     `json:"word_count,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ConfidenceMetrics is the result of sampled pre-extraction testing. All
// confidence values are 0-100. Recomputed fresh on every run, never persisted
// alongside sections.
type ConfidenceMetrics struct {
	OverallConfidence          float64            `json:"overall_confidence"`
	TextExtractionConfidence   float64            `json:"text_extraction_confidence"`
	OCRConfidence              float64            `json:"ocr_confidence"`
	LayoutDetectionConfidence  float64            `json:"layout_detection_confidence"`
	TableDetectionConfidence   float64            `json:"table_detection_confidence"`
	ContentStructureConfidence float64            `json:"content_structure_confidence"`
	RecommendedMethod          string             `json:"recommended_method"`
	DominantLayout             string             `json:"dominant_layout"`
	LayoutConsistency          float64            `json:"layout_consistency"`
	IssuesFound                []string           `json:"issues_found"`
	SampleExtractions          []SampleExtraction `json:"sample_extractions"`
}
