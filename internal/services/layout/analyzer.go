// Package layout decides whether a page is laid out in one or two columns and
// rebuilds multi-column text in reading order (left column top to bottom, then
// right column top to bottom).
package layout

import (
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/models"
)

const (
	// minBlockWidth filters out rules, line fragments and icons that would
	// otherwise skew column detection.
	minBlockWidth = 50.0

	// columnGapRatio is the adjacent-center gap, as a fraction of page width,
	// that is taken as evidence of a column gutter.
	columnGapRatio = 0.1
)

// Analyzer performs column detection and reading-order correction.
type Analyzer struct {
	logger arbor.ILogger
}

// NewAnalyzer creates a layout analyzer.
func NewAnalyzer(logger arbor.ILogger) *Analyzer {
	return &Analyzer{logger: logger}
}

// DetectLayout reports whether the page appears to use a multi-column layout.
// The heuristic looks for a gap between sorted block centers wider than 10% of
// the page width; sparse text can produce false positives, which the caller
// tolerates because reordering is a lossless permutation.
func (a *Analyzer) DetectLayout(blocks []models.TextBlock, pageWidth float64) bool {
	qualified := filterBlocks(blocks)
	if len(qualified) < 2 || pageWidth <= 0 {
		return false
	}

	centers := make([]float64, len(qualified))
	for i, b := range qualified {
		centers[i] = b.XCenter()
	}
	sort.Float64s(centers)

	for i := 1; i < len(centers); i++ {
		if centers[i]-centers[i-1] > pageWidth*columnGapRatio {
			return true
		}
	}
	return false
}

// Reorder concatenates block text in reading order for a two-column page:
// each block goes to the left or right column by comparing its center to the
// page midpoint, then blocks are sorted by (column, vertical position). Blocks
// with empty text are skipped; no non-empty block is dropped or duplicated.
// Layouts with three or more columns are collapsed into two, a documented
// limitation for the target corpora.
func (a *Analyzer) Reorder(blocks []models.TextBlock, pageWidth float64) string {
	ordered := make([]models.TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		if b.XCenter() < pageWidth/2 {
			b.Column = 0
		} else {
			b.Column = 1
		}
		ordered = append(ordered, b)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Column != ordered[j].Column {
			return ordered[i].Column < ordered[j].Column
		}
		return ordered[i].Y0 < ordered[j].Y0
	})

	parts := make([]string, len(ordered))
	for i, b := range ordered {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n")
}

// filterBlocks keeps blocks wide enough to be body text and discards anything
// with malformed geometry.
func filterBlocks(blocks []models.TextBlock) []models.TextBlock {
	out := make([]models.TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Width() > minBlockWidth && b.Y1 > b.Y0 {
			out = append(out, b)
		}
	}
	return out
}
