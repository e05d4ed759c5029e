package pdf

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// columnTolerance is how far in points a cell start may drift from the
	// anchor row's column position and still count as the same column.
	columnTolerance = 20.0

	minGridRows    = 2
	minGridColumns = 2
)

// gridCell is one horizontally contiguous run of characters within a row.
type gridCell struct {
	x    float64
	text string
}

// detectGrids finds runs of consecutive rows sharing aligned column starts
// and returns them as rectangular string grids. Rows already grouped by
// groupRows, cells split on the same gap rule as layout blocks.
func detectGrids(texts []pdf.Text) [][][]string {
	rows := groupRows(texts)

	cellRows := make([][]gridCell, 0, len(rows))
	for _, row := range rows {
		cellRows = append(cellRows, rowCells(row))
	}

	var grids [][][]string
	i := 0
	for i < len(cellRows) {
		anchor := cellRows[i]
		if len(anchor) < minGridColumns {
			i++
			continue
		}

		run := [][]gridCell{anchor}
		j := i + 1
		for j < len(cellRows) && alignsWith(anchor, cellRows[j]) {
			run = append(run, cellRows[j])
			j++
		}

		if len(run) >= minGridRows {
			grids = append(grids, toGrid(run))
			i = j
			continue
		}
		i++
	}

	return grids
}

// rowCells splits an unsorted row of characters into cell runs with their
// starting X positions.
func rowCells(row []pdf.Text) []gridCell {
	sorted := make([]pdf.Text, len(row))
	copy(sorted, row)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []gridCell
	for _, run := range splitRuns(sorted) {
		var sb strings.Builder
		prevEnd := run[0].X
		for i, t := range run {
			if i > 0 && t.X-prevEnd > spaceGap(t.FontSize) {
				sb.WriteString(" ")
			}
			sb.WriteString(t.S)
			prevEnd = t.X + t.W
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		cells = append(cells, gridCell{x: run[0].X, text: text})
	}
	return cells
}

// alignsWith reports whether a row's cells start at the anchor row's column
// positions. A row may leave trailing columns empty but never add columns.
func alignsWith(anchor, row []gridCell) bool {
	if len(row) < minGridColumns || len(row) > len(anchor) {
		return false
	}
	for i, cell := range row {
		if abs(cell.x-anchor[i].x) > columnTolerance {
			return false
		}
	}
	return true
}

// toGrid converts a run of aligned cell rows into a rectangular grid padded
// to the anchor row's width.
func toGrid(run [][]gridCell) [][]string {
	width := len(run[0])
	grid := make([][]string, 0, len(run))
	for _, cells := range run {
		row := make([]string, width)
		for i, cell := range cells {
			row[i] = cell.text
		}
		grid = append(grid, row)
	}
	return grid
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
