// Package assembler drives whole-document extraction: layout correction,
// table detection and categorization per page, aggregated into an
// ExtractionResult.
package assembler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
	"github.com/ternarybob/libram/internal/services/categorizer"
	"github.com/ternarybob/libram/internal/services/layout"
	"github.com/ternarybob/libram/internal/services/tables"
)

const (
	// textExtractionConfidence is the fixed per-section confidence for the
	// text-based extraction path.
	textExtractionConfidence = 95.0
	// titleMaxLen truncates page titles.
	titleMaxLen = 100
	// titleMinLen is the shortest first line accepted as a title.
	titleMinLen = 10
)

// Assembler builds Sections page by page and aggregates them into an
// ExtractionResult. Page failures are absorbed with warnings; only
// document-level failures propagate.
type Assembler struct {
	logger      arbor.ILogger
	layout      *layout.Analyzer
	tables      *tables.Detector
	categorizer *categorizer.Categorizer
}

func New(logger arbor.ILogger, cat *categorizer.Categorizer) *Assembler {
	return &Assembler{
		logger:      logger,
		layout:      layout.NewAnalyzer(logger),
		tables:      tables.NewDetector(logger),
		categorizer: cat,
	}
}

// BuildSection assembles one page into a Section. Returns ok=false for blank
// pages, which produce no placeholder record.
func (a *Assembler) BuildSection(ctx context.Context, src interfaces.PageSource, pageIndex int, meta models.GameMetadata) (models.Section, bool) {
	text, err := src.PageText(pageIndex)
	if err != nil {
		a.logger.Warn().Err(err).Int("page", pageIndex+1).Msg("Page text extraction failed")
		return models.Section{}, false
	}
	if strings.TrimSpace(text) == "" {
		return models.Section{}, false
	}

	multiColumn := false
	blocks, pageWidth, err := src.PageBlocks(pageIndex)
	if err != nil {
		a.logger.Warn().Err(err).Int("page", pageIndex+1).Msg("Block extraction failed, keeping raw text order")
	} else {
		multiColumn = a.layout.DetectLayout(blocks, pageWidth)
		if multiColumn {
			if reordered := a.layout.Reorder(blocks, pageWidth); strings.TrimSpace(reordered) != "" {
				text = reordered
			}
		}
	}

	pageTables := a.tables.ExtractTables(src, pageIndex)
	if pageTables == nil {
		pageTables = []models.Table{}
	}

	categorization := a.categorizer.Categorize(ctx, text, meta)

	content := strings.TrimSpace(text)
	return models.Section{
		Page:                 pageIndex + 1,
		Title:                pageTitle(content, pageIndex+1),
		Content:              content,
		WordCount:            len(strings.Fields(content)),
		Category:             categorization.PrimaryCategory,
		SecondaryCategories:  categorization.SecondaryCategories,
		Tables:               pageTables,
		IsMultiColumn:        multiColumn,
		ExtractionMethod:     "text_with_tables",
		ExtractionConfidence: textExtractionConfidence,
		GameType:             meta.GameType,
		Edition:              meta.Edition,
		Book:                 meta.BookType,
	}, true
}

// Extract processes every page of the document sequentially and assembles the
// final result. Blank and broken pages are skipped; the run always completes.
func (a *Assembler) Extract(ctx context.Context, src interfaces.PageSource, docMeta models.DocumentMetadata) models.ExtractionResult {
	meta := docMeta.Game
	pages := src.PageCount()

	a.logger.Info().
		Str("file", docMeta.OriginalFilename).
		Int("pages", pages).
		Str("collection", meta.CollectionName).
		Msg("Extracting document")

	sections := make([]models.Section, 0, pages)
	for i := 0; i < pages; i++ {
		section, ok := a.BuildSection(ctx, src, i, meta)
		if !ok {
			continue
		}
		sections = append(sections, section)
	}

	a.logger.Info().
		Int("sections", len(sections)).
		Int("skipped", pages-len(sections)).
		Msg("Extraction complete")

	return models.ExtractionResult{
		Metadata: docMeta,
		Sections: sections,
		Summary:  buildSummary(sections, meta),
	}
}

// pageTitle derives a section title from the first non-empty line, falling
// back to "Page N" when the line is too short to be meaningful.
func pageTitle(content string, pageNumber int) string {
	firstLine := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			firstLine = line
			break
		}
	}
	if len(firstLine) > titleMaxLen {
		firstLine = firstLine[:titleMaxLen]
	}
	if len(firstLine) > titleMinLen {
		return firstLine
	}
	return fmt.Sprintf("Page %d", pageNumber)
}

// buildSummary aggregates section statistics. Category distribution preserves
// first-occurrence order; average words per page uses integer division.
func buildSummary(sections []models.Section, meta models.GameMetadata) models.ExtractionSummary {
	totalWords := 0
	totalTables := 0
	distribution := make(map[string]int)
	var order []string

	for _, s := range sections {
		totalWords += s.WordCount
		totalTables += len(s.Tables)
		if distribution[s.Category] == 0 {
			order = append(order, s.Category)
		}
		distribution[s.Category]++
	}

	avgWords := 0
	if len(sections) > 0 {
		avgWords = totalWords / len(sections)
	}

	return models.ExtractionSummary{
		TotalPages:           len(sections),
		TotalWords:           totalWords,
		TotalTables:          totalTables,
		ExtractionTimestamp:  time.Now(),
		ContentType:          meta.ContentType,
		GameType:             meta.GameType,
		Edition:              meta.Edition,
		Book:                 meta.BookType,
		CollectionName:       meta.CollectionName,
		CategoryDistribution: distribution,
		CategoryOrder:        order,
		AverageWordsPerPage:  avgWords,
	}
}
