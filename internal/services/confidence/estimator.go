// Package confidence runs sampled pre-extraction tests against a document to
// score how well each extraction method is likely to perform.
package confidence

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
	"github.com/ternarybob/libram/internal/services/tables"
)

const (
	// maxOCRPages bounds the slow OCR sub-test regardless of sample size.
	maxOCRPages = 3
	// ocrScale is the rasterization factor for OCR test renders.
	ocrScale = 2.0
	// sampleLimit caps how many excerpts each sub-test records.
	sampleLimit = 3
	// sampleExcerpt is the excerpt length kept per sample.
	sampleExcerpt = 300
)

// Fixed weights for combining the five sub-test scores.
var weights = struct {
	text, ocr, layout, table, structure float64
}{0.30, 0.20, 0.20, 0.15, 0.15}

// subResult is the outcome of one confidence sub-test.
type subResult struct {
	confidence float64
	issues     []string
	samples    []models.SampleExtraction
}

// Estimator runs the five confidence sub-tests over a bounded page sample.
// The OCR engine is optional; a nil engine degrades that sub-test to zero.
type Estimator struct {
	logger      arbor.ILogger
	ocr         interfaces.OCREngine
	detector    *tables.Detector
	samplePages int
}

func NewEstimator(logger arbor.ILogger, ocr interfaces.OCREngine, samplePages int) *Estimator {
	if samplePages < 1 {
		samplePages = 5
	}
	return &Estimator{
		logger:      logger,
		ocr:         ocr,
		detector:    tables.NewDetector(logger),
		samplePages: samplePages,
	}
}

// Run executes all sub-tests and combines them into ConfidenceMetrics. It
// never fails: any sub-test error degrades that score and records an issue.
func (e *Estimator) Run(ctx context.Context, src interfaces.PageSource) models.ConfidenceMetrics {
	pages := src.PageCount()
	testPages := e.samplePages
	if pages < testPages {
		testPages = pages
	}

	e.logger.Info().Int("pages", pages).Int("sampled", testPages).Msg("Running confidence tests")

	text := e.testTextExtraction(src, testPages)
	ocr := e.testOCRExtraction(ctx, src, testPages)
	layout, dominant, consistency := e.testLayoutDetection(src, testPages)
	table := e.testTableDetection(src, testPages)
	structure := e.testContentStructure(src, testPages)

	overall := text.confidence*weights.text +
		ocr.confidence*weights.ocr +
		layout.confidence*weights.layout +
		table.confidence*weights.table +
		structure.confidence*weights.structure

	var issues []string
	for _, r := range []subResult{text, ocr, layout, table, structure} {
		issues = append(issues, r.issues...)
	}

	var samples []models.SampleExtraction
	if len(text.samples) > 2 {
		samples = append(samples, text.samples[:2]...)
	} else {
		samples = append(samples, text.samples...)
	}
	if len(ocr.samples) > 0 {
		samples = append(samples, ocr.samples[0])
	}

	return models.ConfidenceMetrics{
		OverallConfidence:          overall,
		TextExtractionConfidence:   text.confidence,
		OCRConfidence:              ocr.confidence,
		LayoutDetectionConfidence:  layout.confidence,
		TableDetectionConfidence:   table.confidence,
		ContentStructureConfidence: structure.confidence,
		RecommendedMethod:          recommendMethod(text.confidence, ocr.confidence, dominant),
		DominantLayout:             dominant,
		LayoutConsistency:          consistency,
		IssuesFound:                issues,
		SampleExtractions:          samples,
	}
}

// testTextExtraction measures extractable character counts per sampled page.
// A page counts as extractable when its stripped text exceeds 50 characters.
func (e *Estimator) testTextExtraction(src interfaces.PageSource, testPages int) subResult {
	var result subResult
	totalChars := 0
	extractable := 0

	for i := 0; i < testPages; i++ {
		text, err := src.PageText(i)
		if err != nil {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: text extraction failed - %v", i+1, err))
			continue
		}

		totalChars += len(text)
		if len(strings.TrimSpace(text)) > 50 {
			extractable++
			if len(result.samples) < sampleLimit {
				result.samples = append(result.samples, models.SampleExtraction{
					Page:      i + 1,
					Method:    "text_extraction",
					Content:   excerpt(text),
					CharCount: len(text),
					WordCount: len(strings.Fields(text)),
				})
			}
		} else {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: very little extractable text (%d chars)", i+1, len(text)))
		}
	}

	if testPages == 0 {
		return result
	}

	coverage := float64(extractable) / float64(testPages)
	avgChars := float64(totalChars) / float64(testPages)

	switch {
	case coverage >= 0.8 && avgChars > 500:
		result.confidence = 95
	case coverage >= 0.6 && avgChars > 200:
		result.confidence = 80
	case coverage >= 0.4:
		result.confidence = 60
	case coverage >= 0.2:
		result.confidence = 40
	default:
		result.confidence = 20
	}

	if result.confidence < 70 {
		result.issues = append(result.issues, fmt.Sprintf("Low text extraction confidence: %.0f%%", result.confidence))
	}
	return result
}

// testOCRExtraction rasterizes up to three pages and averages per-word OCR
// confidence, ignoring zero-confidence tokens.
func (e *Estimator) testOCRExtraction(ctx context.Context, src interfaces.PageSource, testPages int) subResult {
	var result subResult

	if e.ocr == nil {
		result.issues = append(result.issues, "OCR engine not available - OCR confidence testing skipped")
		return result
	}

	ocrPages := testPages
	if ocrPages > maxOCRPages {
		ocrPages = maxOCRPages
	}

	var pageScores []float64
	for i := 0; i < ocrPages; i++ {
		img, err := src.RenderPage(i, ocrScale)
		if err != nil {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: OCR failed - %v", i+1, err))
			pageScores = append(pageScores, 0)
			continue
		}

		recognized, err := e.ocr.Recognize(ctx, img)
		if err != nil {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: OCR failed - %v", i+1, err))
			pageScores = append(pageScores, 0)
			continue
		}

		sum := 0.0
		counted := 0
		var words []string
		for w, word := range recognized.Words {
			conf := recognized.Confidences[w]
			if conf > 0 {
				sum += conf
				counted++
			}
			if conf > 30 && strings.TrimSpace(word) != "" {
				words = append(words, word)
			}
		}

		pageConfidence := 0.0
		if counted > 0 {
			pageConfidence = sum / float64(counted)
		}
		pageScores = append(pageScores, pageConfidence)

		if len(result.samples) < sampleLimit {
			result.samples = append(result.samples, models.SampleExtraction{
				Page:       i + 1,
				Method:     "ocr_extraction",
				Content:    excerpt(strings.Join(words, " ")),
				WordCount:  len(words),
				Confidence: pageConfidence,
			})
		}
		if pageConfidence < 50 {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: low OCR confidence (%.1f%%)", i+1, pageConfidence))
		}
	}

	if len(pageScores) > 0 {
		sum := 0.0
		for _, s := range pageScores {
			sum += s
		}
		result.confidence = sum / float64(len(pageScores))
	}
	return result
}

// pageLayout is the classification of one page's block distribution.
type pageLayout struct {
	layoutType string
	confidence float64
}

// testLayoutDetection buckets each page's blocks into horizontal thirds and
// classifies the page, then aggregates a dominant layout by majority vote.
func (e *Estimator) testLayoutDetection(src interfaces.PageSource, testPages int) (subResult, string, float64) {
	var result subResult
	var layouts []pageLayout

	for i := 0; i < testPages; i++ {
		blocks, pageWidth, err := src.PageBlocks(i)
		if err != nil {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: layout analysis failed - %v", i+1, err))
			layouts = append(layouts, pageLayout{layoutType: "unknown"})
			continue
		}

		layout := classifyPageLayout(blocks, pageWidth)
		layouts = append(layouts, layout)
		if layout.confidence < 70 {
			result.issues = append(result.issues, fmt.Sprintf("Page %d: uncertain layout detection (%.1f%%)", i+1, layout.confidence))
		}
	}

	if len(layouts) == 0 {
		return result, "unknown", 0
	}

	sum := 0.0
	counts := make(map[string]int)
	var order []string
	for _, l := range layouts {
		sum += l.confidence
		if counts[l.layoutType] == 0 {
			order = append(order, l.layoutType)
		}
		counts[l.layoutType]++
	}
	result.confidence = sum / float64(len(layouts))

	dominant := order[0]
	for _, t := range order {
		if counts[t] > counts[dominant] {
			dominant = t
		}
	}
	consistency := float64(counts[dominant]) / float64(len(layouts))
	if consistency < 0.8 {
		result.issues = append(result.issues, fmt.Sprintf("Inconsistent layout detection across pages (consistency: %.0f%%)", consistency*100))
	}

	return result, dominant, consistency
}

// classifyPageLayout labels one page as two_column, single_column or mixed by
// bucketing block centers into left, center and right regions of the page.
func classifyPageLayout(blocks []models.TextBlock, pageWidth float64) pageLayout {
	var qualified []models.TextBlock
	for _, b := range blocks {
		if b.Width() > 50 && b.Y1-b.Y0 > 10 {
			qualified = append(qualified, b)
		}
	}
	if len(qualified) == 0 || pageWidth == 0 {
		return pageLayout{layoutType: "unknown"}
	}

	left, center, right := 0, 0, 0
	for _, b := range qualified {
		c := b.XCenter()
		switch {
		case c < pageWidth*0.4:
			left++
		case c > pageWidth*0.6:
			right++
		default:
			center++
		}
	}
	total := len(qualified)

	switch {
	case left > 2 && right > 2 && float64(center) < float64(total)*0.3:
		denom := left + right
		if denom < 1 {
			denom = 1
		}
		balance := 1 - float64(abs(left-right))/float64(denom)
		confidence := 60 + balance*30
		if confidence > 90 {
			confidence = 90
		}
		return pageLayout{layoutType: "two_column", confidence: confidence}
	case float64(center) > float64(total)*0.6:
		return pageLayout{layoutType: "single_column", confidence: 85}
	default:
		return pageLayout{layoutType: "mixed", confidence: 50}
	}
}

// testTableDetection combines the geometric and heuristic table paths over
// the sampled pages and scores by the share of pages with detections.
func (e *Estimator) testTableDetection(src interfaces.PageSource, testPages int) subResult {
	var result subResult
	pagesWithTables := make(map[int]bool)
	detected := 0
	reducedCapability := false

	for i := 0; i < testPages; i++ {
		found := e.detector.ExtractTables(src, i)
		if len(found) > 0 {
			pagesWithTables[i] = true
			detected += len(found)
		}

		text, err := src.PageText(i)
		if err != nil {
			continue
		}
		analysis := e.detector.AnalyzeText(text)
		if len(analysis.Hits) > 0 {
			pagesWithTables[i] = true
			detected += len(analysis.Hits)
		}
	}

	if _, err := src.PageTableGrids(0); err != nil && testPages > 0 {
		reducedCapability = true
	}
	if reducedCapability {
		result.issues = append(result.issues, "geometric table extraction unavailable - heuristic detection only")
	}

	coverage := 0.0
	if testPages > 0 {
		coverage = float64(len(pagesWithTables)) / float64(testPages)
	}

	switch {
	case coverage > 0.6:
		result.confidence = 90
	case coverage > 0.4:
		result.confidence = 75
	case coverage > 0.2:
		result.confidence = 60
	case detected > 0:
		result.confidence = 45
	default:
		result.confidence = 30
		result.issues = append(result.issues, "Few or no tables detected - may miss structured data")
	}
	return result
}

var (
	numberedHeading = regexp.MustCompile(`^\d+\.\s+[A-Z]`)
	bulletItem      = regexp.MustCompile(`^\s*[-*•]\s+`)
	numberedItem    = regexp.MustCompile(`^\s*\d+\)\s+`)
	letteredItem    = regexp.MustCompile(`^\s*[a-z]\)\s+`)
)

// testContentStructure classifies every non-blank line as heading, list item
// or paragraph and scores the mix.
func (e *Estimator) testContentStructure(src interfaces.PageSource, testPages int) subResult {
	var result subResult
	headings, lists, paragraphs := 0, 0, 0

	for i := 0; i < testPages; i++ {
		text, err := src.PageText(i)
		if err != nil {
			continue
		}

		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			switch {
			case isHeading(line):
				headings++
			case bulletItem.MatchString(line) || numberedItem.MatchString(line) || letteredItem.MatchString(line):
				lists++
			case len(line) > 20:
				paragraphs++
			}
		}
	}

	total := headings + lists + paragraphs
	if total == 0 {
		result.issues = append(result.issues, "No structured content detected")
		return result
	}

	headingRatio := float64(headings) / float64(total)
	paragraphRatio := float64(paragraphs) / float64(total)

	switch {
	case headingRatio >= 0.05 && headingRatio <= 0.3 && paragraphRatio >= 0.4:
		result.confidence = 85
	case headingRatio > 0 && paragraphRatio > 0.2:
		result.confidence = 70
	case paragraphRatio > 0.5:
		result.confidence = 60
	default:
		result.confidence = 40
		result.issues = append(result.issues, "Irregular content structure detected")
	}
	return result
}

func isHeading(line string) bool {
	if isAllCaps(line) && len(line) > 5 && len(line) < 80 {
		return true
	}
	if numberedHeading.MatchString(line) {
		return true
	}
	return strings.HasSuffix(line, ":") && len(strings.Fields(line)) <= 6
}

// isAllCaps reports whether the line contains letters and no lowercase ones.
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// recommendMethod picks text, ocr or manual review from the adjusted scores.
// A two-column dominant layout penalizes the text score by 10 points.
func recommendMethod(textScore, ocrScore float64, dominantLayout string) string {
	adjustedText := textScore
	if dominantLayout == "two_column" {
		adjustedText -= 10
	}

	switch {
	case adjustedText > 70 && adjustedText > ocrScore+15:
		return models.MethodText
	case ocrScore > 60 && ocrScore > adjustedText+10:
		return models.MethodOCR
	case adjustedText > 50:
		return models.MethodText
	case ocrScore > 40:
		return models.MethodOCR
	default:
		return models.MethodManualReview
	}
}

func excerpt(text string) string {
	if len(text) > sampleExcerpt {
		return text[:sampleExcerpt] + "..."
	}
	return text
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
