package layout

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/models"
)

func block(text string, x0, y0, x1, y1 float64) models.TextBlock {
	return models.TextBlock{Text: text, X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func TestDetectLayout(t *testing.T) {
	analyzer := NewAnalyzer(arbor.NewLogger())

	tests := []struct {
		name      string
		blocks    []models.TextBlock
		pageWidth float64
		want      bool
	}{
		{
			name: "two distinct columns",
			blocks: []models.TextBlock{
				block("left", 50, 100, 150, 120),
				block("right", 450, 100, 550, 120),
			},
			pageWidth: 600,
			want:      true,
		},
		{
			name: "single column",
			blocks: []models.TextBlock{
				block("a", 100, 100, 500, 120),
				block("b", 100, 140, 500, 160),
			},
			pageWidth: 600,
			want:      false,
		},
		{
			name: "narrow blocks filtered out",
			blocks: []models.TextBlock{
				block("|", 50, 100, 60, 300),
				block("|", 550, 100, 560, 300),
				block("body", 100, 100, 500, 120),
			},
			pageWidth: 600,
			want:      false,
		},
		{
			name:      "fewer than two blocks",
			blocks:    []models.TextBlock{block("only", 50, 100, 150, 120)},
			pageWidth: 600,
			want:      false,
		},
		{
			name:      "empty page",
			blocks:    nil,
			pageWidth: 600,
			want:      false,
		},
		{
			name: "malformed geometry ignored",
			blocks: []models.TextBlock{
				block("bad", 50, 120, 150, 100),
				block("bad2", 450, 120, 550, 100),
			},
			pageWidth: 600,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.DetectLayout(tt.blocks, tt.pageWidth))
		})
	}
}

func TestDetectLayout_Deterministic(t *testing.T) {
	analyzer := NewAnalyzer(arbor.NewLogger())
	blocks := []models.TextBlock{
		block("left", 60, 100, 160, 120),
		block("right", 440, 100, 540, 120),
		block("left2", 60, 200, 160, 220),
	}

	first := analyzer.DetectLayout(blocks, 600)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, analyzer.DetectLayout(blocks, 600))
	}
}

func TestDetectLayout_SpecExample(t *testing.T) {
	// Centers at 100 and 500 on a 600-wide page: gap 400 > 60.
	analyzer := NewAnalyzer(arbor.NewLogger())
	blocks := []models.TextBlock{
		block("a", 60, 100, 140, 120),
		block("b", 460, 100, 540, 120),
	}
	assert.True(t, analyzer.DetectLayout(blocks, 600))
}

func TestReorder_ReadingOrder(t *testing.T) {
	analyzer := NewAnalyzer(arbor.NewLogger())
	blocks := []models.TextBlock{
		block("right-top", 400, 50, 550, 70),
		block("left-bottom", 50, 200, 250, 220),
		block("left-top", 50, 50, 250, 70),
		block("right-bottom", 400, 200, 550, 220),
	}

	got := analyzer.Reorder(blocks, 600)
	want := "left-top\nleft-bottom\nright-top\nright-bottom"
	assert.Equal(t, want, got)
}

func TestReorder_PermutationProperty(t *testing.T) {
	analyzer := NewAnalyzer(arbor.NewLogger())
	blocks := []models.TextBlock{
		block("alpha", 50, 10, 250, 30),
		block("bravo", 400, 10, 550, 30),
		block("charlie", 50, 100, 250, 120),
		block("delta", 400, 100, 550, 120),
		block("echo", 50, 200, 250, 220),
	}

	got := strings.Split(analyzer.Reorder(blocks, 600), "\n")
	want := []string{"alpha", "bravo", "charlie", "delta", "echo"}

	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got, "no block text dropped or duplicated")
}

func TestReorder_SkipsEmptyBlocks(t *testing.T) {
	analyzer := NewAnalyzer(arbor.NewLogger())
	blocks := []models.TextBlock{
		block("   ", 50, 10, 250, 30),
		block("kept", 50, 100, 250, 120),
	}

	assert.Equal(t, "kept", analyzer.Reorder(blocks, 600))
}

func TestReorder_EmptyInput(t *testing.T) {
	analyzer := NewAnalyzer(arbor.NewLogger())
	assert.Equal(t, "", analyzer.Reorder(nil, 600))
}
