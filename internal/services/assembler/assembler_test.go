package assembler

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
	"github.com/ternarybob/libram/internal/services/categorizer"
)

type fakeSource struct {
	texts     []string
	blocks    [][]models.TextBlock
	pageWidth float64
	textErr   map[int]error
}

func (f *fakeSource) PageCount() int { return len(f.texts) }

func (f *fakeSource) PageText(i int) (string, error) {
	if err, ok := f.textErr[i]; ok {
		return "", err
	}
	return f.texts[i], nil
}

func (f *fakeSource) PageBlocks(i int) ([]models.TextBlock, float64, error) {
	if f.blocks == nil {
		return nil, f.pageWidth, nil
	}
	return f.blocks[i], f.pageWidth, nil
}

func (f *fakeSource) PageTableGrids(i int) ([][][]string, error) { return nil, nil }

func (f *fakeSource) RenderPage(i int, scale float64) (image.Image, error) {
	return nil, interfaces.ErrCapabilityUnavailable
}

func (f *fakeSource) Close() error { return nil }

func newAssembler() *Assembler {
	logger := arbor.NewLogger()
	return New(logger, categorizer.New(logger, nil, 64))
}

func testMeta() models.GameMetadata {
	meta := models.GameMetadata{GameType: "D&D", Edition: "2nd", BookType: "Core Rules"}
	meta.Normalize()
	return meta
}

func spellPage() string {
	var sb strings.Builder
	sb.WriteString("Chapter Seven: Wizard Spells\n")
	for i := 0; i < 60; i++ {
		sb.WriteString("The fireball spell fills a twenty foot radius with magical flame and smoke. ")
		sb.WriteString("Casting it requires a bat guano component and one round of concentration.\n")
	}
	return sb.String()
}

func TestBuildSection_SpellPage(t *testing.T) {
	src := &fakeSource{texts: []string{spellPage()}, pageWidth: 600}
	asm := newAssembler()

	section, ok := asm.BuildSection(context.Background(), src, 0, testMeta())
	require.True(t, ok)

	assert.Equal(t, 1, section.Page)
	assert.Equal(t, "Chapter Seven: Wizard Spells", section.Title)
	assert.Equal(t, "Spells/Magic", section.Category)
	assert.Equal(t, "text_with_tables", section.ExtractionMethod)
	assert.Equal(t, 95.0, section.ExtractionConfidence)
	assert.Equal(t, "D&D", section.GameType)
	assert.Equal(t, "2nd", section.Edition)
	assert.Equal(t, "Core Rules", section.Book)
	assert.Greater(t, section.WordCount, 500)
}

func TestBuildSection_SkipsBlankPages(t *testing.T) {
	src := &fakeSource{texts: []string{"", "   \n\t  ", "actual content on this page here"}, pageWidth: 600}
	asm := newAssembler()

	_, ok := asm.BuildSection(context.Background(), src, 0, testMeta())
	assert.False(t, ok)
	_, ok = asm.BuildSection(context.Background(), src, 1, testMeta())
	assert.False(t, ok)
	_, ok = asm.BuildSection(context.Background(), src, 2, testMeta())
	assert.True(t, ok)
}

func TestBuildSection_TitleHeuristic(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
	}{
		{"long first line used verbatim", "The Complete Guide to Dungeon Design\nbody text", "The Complete Guide to Dungeon Design"},
		{"short first line synthesized", "Intro\nbody text follows here", "Page 1"},
		{"leading blank lines skipped", "\n\nEncounters in the Underdark\nbody", "Encounters in the Underdark"},
	}

	asm := newAssembler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{texts: []string{tt.text}, pageWidth: 600}
			section, ok := asm.BuildSection(context.Background(), src, 0, testMeta())
			require.True(t, ok)
			assert.Equal(t, tt.title, section.Title)
		})
	}
}

func TestBuildSection_TitleTruncatedAt100(t *testing.T) {
	long := strings.Repeat("Encounters ", 20) // 220 chars
	src := &fakeSource{texts: []string{long + "\nbody"}, pageWidth: 600}
	asm := newAssembler()

	section, ok := asm.BuildSection(context.Background(), src, 0, testMeta())
	require.True(t, ok)
	assert.Len(t, section.Title, 100)
}

func TestBuildSection_MultiColumnReorder(t *testing.T) {
	// Right column text stored before left column text; reorder must fix it.
	blocks := []models.TextBlock{
		{Text: "right column paragraph", X0: 340, Y0: 40, X1: 560, Y1: 80},
		{Text: "left column paragraph", X0: 40, Y0: 40, X1: 260, Y1: 80},
	}
	src := &fakeSource{
		texts:     []string{"right column paragraph\nleft column paragraph"},
		blocks:    [][]models.TextBlock{blocks},
		pageWidth: 600,
	}
	asm := newAssembler()

	section, ok := asm.BuildSection(context.Background(), src, 0, testMeta())
	require.True(t, ok)
	assert.True(t, section.IsMultiColumn)
	assert.Equal(t, "left column paragraph\nright column paragraph", section.Content)
}

func TestBuildSection_NoTablesIsEmptySlice(t *testing.T) {
	src := &fakeSource{texts: []string{"plain narrative text with no tabular content at all"}, pageWidth: 600}
	asm := newAssembler()

	section, ok := asm.BuildSection(context.Background(), src, 0, testMeta())
	require.True(t, ok)
	require.NotNil(t, section.Tables)
	assert.Empty(t, section.Tables)

	// Serialized form must say [], never null.
	raw, err := json.Marshal(section)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tables":[]`)
}

func TestExtract_PageFailureTolerated(t *testing.T) {
	src := &fakeSource{
		texts:     []string{spellPage(), "", spellPage()},
		pageWidth: 600,
		textErr:   map[int]error{1: errors.New("damaged page stream")},
	}
	asm := newAssembler()

	result := asm.Extract(context.Background(), src, models.DocumentMetadata{Game: testMeta()})
	assert.Len(t, result.Sections, 2)
	assert.Equal(t, 1, result.Sections[0].Page)
	assert.Equal(t, 3, result.Sections[1].Page)
}

func TestExtract_Summary(t *testing.T) {
	combat := "The attack roll determines whether a weapon strike lands against armor.\n" +
		strings.Repeat("Combat continues with damage and armor checks every single round. ", 10)
	src := &fakeSource{
		texts:     []string{spellPage(), combat, spellPage()},
		pageWidth: 600,
	}
	asm := newAssembler()

	result := asm.Extract(context.Background(), src, models.DocumentMetadata{Game: testMeta()})
	summary := result.Summary

	assert.Equal(t, 3, summary.TotalPages)
	assert.Equal(t, map[string]int{"Spells/Magic": 2, "Combat": 1}, summary.CategoryDistribution)
	assert.Equal(t, []string{"Spells/Magic", "Combat"}, summary.CategoryOrder)

	wordSum := 0
	for _, s := range result.Sections {
		wordSum += s.WordCount
	}
	assert.Equal(t, wordSum, summary.TotalWords)
	assert.Equal(t, wordSum/3, summary.AverageWordsPerPage)
	assert.Equal(t, "D&D", summary.GameType)
}

func TestExtract_EmptyDocument(t *testing.T) {
	src := &fakeSource{texts: []string{}, pageWidth: 600}
	asm := newAssembler()

	result := asm.Extract(context.Background(), src, models.DocumentMetadata{Game: testMeta()})
	assert.Empty(t, result.Sections)
	assert.Zero(t, result.Summary.TotalPages)
	assert.Zero(t, result.Summary.AverageWordsPerPage)
}
