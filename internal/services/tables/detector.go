// Package tables finds tabular regions on rulebook pages. The primary path
// consumes geometric row grids from the page source; a text-only heuristic
// path recognizes domain table shapes (dice, combat, level progression) when
// geometry is unavailable or for confidence testing.
package tables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
)

// Detector extracts tables from pages.
type Detector struct {
	logger arbor.ILogger
}

// NewDetector creates a table detector.
func NewDetector(logger arbor.ILogger) *Detector {
	return &Detector{logger: logger}
}

// ExtractTables pulls tables from one page via the geometric capability. A
// grid survives only if it has at least two cleaned rows (header plus data);
// fully blank rows are dropped, ragged rows padded. If the capability is
// unavailable the heuristic path runs against the page text instead. Failures
// never escape the page: a broken page logs a warning and contributes zero
// tables.
func (d *Detector) ExtractTables(src interfaces.PageSource, pageIndex int) []models.Table {
	grids, err := src.PageTableGrids(pageIndex)
	if err != nil {
		if errors.Is(err, interfaces.ErrCapabilityUnavailable) {
			return d.extractHeuristicTables(src, pageIndex)
		}
		d.logger.Warn().Err(err).Int("page", pageIndex+1).Msg("Table extraction failed")
		return nil
	}

	var tables []models.Table
	for i, grid := range grids {
		cleaned := cleanGrid(grid)
		if len(cleaned) < 2 {
			continue
		}
		id := fmt.Sprintf("page_%d_table_%d", pageIndex+1, i+1)
		table := models.NewTable(id, cleaned, classifyGrid(cleaned), "geometry", 90)
		tables = append(tables, table)
	}
	return tables
}

// extractHeuristicTables is the reduced-capability path: scan the page text
// for table patterns and materialize what can be parsed from lines alone.
func (d *Detector) extractHeuristicTables(src interfaces.PageSource, pageIndex int) []models.Table {
	text, err := src.PageText(pageIndex)
	if err != nil {
		d.logger.Warn().Err(err).Int("page", pageIndex+1).Msg("Page text unavailable for heuristic tables")
		return nil
	}

	analysis := d.AnalyzeText(text)
	var tables []models.Table
	for i, hit := range analysis.Hits {
		grid := hit.Grid
		if len(grid) < 2 {
			continue
		}
		id := fmt.Sprintf("page_%d_table_%d", pageIndex+1, i+1)
		tables = append(tables, models.NewTable(id, grid, hit.Type, "heuristic", analysis.Confidence))
	}
	return tables
}

// cleanGrid drops empty and all-blank rows and trims every surviving cell.
func cleanGrid(grid [][]string) [][]string {
	cleaned := make([][]string, 0, len(grid))
	for _, row := range grid {
		if len(row) == 0 {
			continue
		}
		hasContent := false
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = strings.TrimSpace(cell)
			if out[i] != "" {
				hasContent = true
			}
		}
		if hasContent {
			cleaned = append(cleaned, out)
		}
	}
	return cleaned
}

// classifyGrid assigns a table subtype to a geometrically extracted grid by
// running the heuristic pattern families over its flattened text. Generic
// wins when no family fires.
func classifyGrid(grid [][]string) models.TableType {
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.Join(row, "  "))
		sb.WriteByte('\n')
	}
	text := sb.String()

	switch {
	case countMatchingLines(text, dicePatterns) >= minDiceLines:
		return models.TableTypeDice
	case countMatchingLines(text, combatPatterns) >= minCombatLines:
		return models.TableTypeCombat
	case countMatchingLines(text, levelPatterns) >= minLevelLines:
		return models.TableTypeLevel
	default:
		return models.TableTypeGeneric
	}
}
