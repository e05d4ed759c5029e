package pdf

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ternarybob/libram/internal/models"
)

const (
	// rowTolerance is the vertical distance in points within which characters
	// count as the same text row.
	rowTolerance = 3.0

	// runGapMultiplier times the font size is the horizontal gap that splits a
	// row into separate blocks. Word gaps sit well under it, column gutters
	// well over it.
	runGapMultiplier = 1.5

	// spaceGapMultiplier times the font size is the gap that inserts a space
	// between characters merged into one block.
	spaceGapMultiplier = 0.2

	minRunGap = 4.0
)

// filterTexts drops empty and whitespace-only character elements.
func filterTexts(texts []pdf.Text) []pdf.Text {
	filtered := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// groupRows buckets characters into text rows by baseline Y, returning rows
// sorted top of page first. Input Y values are PDF bottom-left origin.
func groupRows(texts []pdf.Text) [][]pdf.Text {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]pdf.Text
	var current []pdf.Text
	for _, t := range sorted {
		if len(current) == 0 || current[0].Y-t.Y <= rowTolerance {
			current = append(current, t)
			continue
		}
		rows = append(rows, current)
		current = []pdf.Text{t}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	return rows
}

// groupBlocks merges positional characters into row-level text runs. Runs are
// split where the horizontal gap exceeds the run threshold, so a two-column
// row yields one block per column. Coordinates are flipped to top-left origin
// so Y0 ascends down the page.
func groupBlocks(texts []pdf.Text, pageHeight float64) []models.TextBlock {
	rows := groupRows(texts)

	var blocks []models.TextBlock
	for _, row := range rows {
		sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })

		for _, run := range splitRuns(row) {
			first := run[0]
			last := run[len(run)-1]

			var sb strings.Builder
			prevEnd := first.X
			for i, t := range run {
				if i > 0 && t.X-prevEnd > spaceGap(t.FontSize) {
					sb.WriteString(" ")
				}
				sb.WriteString(t.S)
				prevEnd = t.X + t.W
			}

			height := first.FontSize
			if height <= 0 {
				height = rowTolerance
			}

			text := strings.TrimSpace(sb.String())
			if text == "" {
				continue
			}

			blocks = append(blocks, models.TextBlock{
				Text: text,
				X0:   first.X,
				X1:   last.X + last.W,
				Y0:   pageHeight - first.Y - height,
				Y1:   pageHeight - first.Y,
			})
		}
	}

	return blocks
}

// splitRuns partitions an X-sorted row into contiguous character runs.
func splitRuns(row []pdf.Text) [][]pdf.Text {
	var runs [][]pdf.Text
	var current []pdf.Text
	for _, t := range row {
		if len(current) == 0 {
			current = append(current, t)
			continue
		}
		prev := current[len(current)-1]
		if t.X-(prev.X+prev.W) > runGap(prev.FontSize) {
			runs = append(runs, current)
			current = []pdf.Text{t}
			continue
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

func runGap(fontSize float64) float64 {
	gap := runGapMultiplier * fontSize
	if gap < minRunGap {
		gap = minRunGap
	}
	return gap
}

func spaceGap(fontSize float64) float64 {
	gap := spaceGapMultiplier * fontSize
	if gap < 1.0 {
		gap = 1.0
	}
	return gap
}
