package pdf

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func char(x, y, w float64, s string) pdf.Text {
	return pdf.Text{X: x, Y: y, W: w, FontSize: 10, S: s}
}

func TestFilterTexts(t *testing.T) {
	texts := []pdf.Text{
		char(10, 700, 20, "Sword"),
		char(35, 700, 5, " "),
		char(42, 700, 5, "\n"),
		char(50, 700, 20, "+1"),
	}

	filtered := filterTexts(texts)

	require.Len(t, filtered, 2)
	assert.Equal(t, "Sword", filtered[0].S)
	assert.Equal(t, "+1", filtered[1].S)
}

func TestGroupRowsOrdersTopFirst(t *testing.T) {
	texts := []pdf.Text{
		char(50, 650, 20, "second"),
		char(50, 700, 20, "first"),
		char(80, 700, 20, "row"),
		char(50, 698, 20, "slight-drift"),
	}

	rows := groupRows(texts)

	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 3) // 698 within tolerance of 700
	assert.Equal(t, "second", rows[1][0].S)
}

func TestGroupBlocksSplitsColumns(t *testing.T) {
	const pageHeight = 792.0
	texts := []pdf.Text{
		char(50, 700, 20, "Left"),
		char(73, 700, 24, "text"),
		char(350, 700, 30, "Right"),
	}

	blocks := groupBlocks(texts, pageHeight)

	require.Len(t, blocks, 2)
	assert.Equal(t, "Left text", blocks[0].Text)
	assert.Equal(t, "Right", blocks[1].Text)
	assert.InDelta(t, 50.0, blocks[0].X0, 0.01)
	assert.InDelta(t, 97.0, blocks[0].X1, 0.01)
	assert.InDelta(t, pageHeight-700-10, blocks[0].Y0, 0.01)
	assert.InDelta(t, pageHeight-700, blocks[0].Y1, 0.01)
}

func TestGroupBlocksMergesAdjacentCharacters(t *testing.T) {
	texts := []pdf.Text{
		char(50, 700, 6, "T"),
		char(56, 700, 6, "H"),
		char(62, 700, 6, "A"),
		char(68, 700, 6, "C"),
		char(74, 700, 6, "0"),
	}

	blocks := groupBlocks(texts, 792)

	require.Len(t, blocks, 1)
	assert.Equal(t, "THAC0", blocks[0].Text)
}

func TestSplitRunsZeroFontSizeFallback(t *testing.T) {
	row := []pdf.Text{
		{X: 10, W: 5, S: "a"},
		{X: 16, W: 5, S: "b"}, // gap 1 <= fallback 4
		{X: 30, W: 5, S: "c"}, // gap 9 > fallback 4
	}

	runs := splitRuns(row)

	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 2)
	assert.Len(t, runs[1], 1)
}

func TestDetectGridsAlignedRows(t *testing.T) {
	texts := []pdf.Text{
		// Header row
		char(72, 700, 30, "Roll"), char(200, 700, 40, "Result"), char(330, 700, 30, "Notes"),
		// Data rows, second column drifts 2pt
		char(72, 685, 30, "01-50"), char(202, 685, 40, "Nothing"), char(330, 685, 30, "-"),
		char(72, 670, 30, "51-00"), char(200, 670, 40, "Gems"),
	}

	grids := detectGrids(texts)

	require.Len(t, grids, 1)
	require.Len(t, grids[0], 3)
	assert.Equal(t, []string{"Roll", "Result", "Notes"}, grids[0][0])
	assert.Equal(t, []string{"01-50", "Nothing", "-"}, grids[0][1])
	assert.Equal(t, []string{"51-00", "Gems", ""}, grids[0][2])
}

func TestDetectGridsIgnoresProse(t *testing.T) {
	texts := []pdf.Text{
		char(72, 700, 200, "A long paragraph of running prose"),
		char(72, 685, 200, "continues on the next line here"),
	}

	grids := detectGrids(texts)

	assert.Empty(t, grids) // single-cell rows never form a grid
}

func TestDetectGridsRejectsMisalignedRows(t *testing.T) {
	texts := []pdf.Text{
		char(72, 700, 30, "Roll"), char(200, 700, 40, "Result"),
		char(72, 685, 30, "1-2"), char(260, 685, 40, "Far off"), // 60pt drift
	}

	grids := detectGrids(texts)

	assert.Empty(t, grids)
}

func TestAlignsWith(t *testing.T) {
	anchor := []gridCell{{x: 72}, {x: 200}, {x: 330}}

	assert.True(t, alignsWith(anchor, []gridCell{{x: 80}, {x: 195}}))
	assert.False(t, alignsWith(anchor, []gridCell{{x: 72}}))                               // too few columns
	assert.False(t, alignsWith(anchor, []gridCell{{x: 72}, {x: 200}, {x: 330}, {x: 400}})) // too many
	assert.False(t, alignsWith(anchor, []gridCell{{x: 72}, {x: 240}}))                     // drift over tolerance
}
