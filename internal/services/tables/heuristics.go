package tables

import (
	"regexp"
	"strings"

	"github.com/ternarybob/libram/internal/models"
)

// Minimum matching-line thresholds for each pattern family.
const (
	minAlignedLines = 3
	minDiceLines    = 5
	minCombatLines  = 3
	minLevelLines   = 4
)

var (
	dicePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bd\d+\b`),         // d20, d100
		regexp.MustCompile(`\d+-\d+`),          // 01-05, 15-20
		regexp.MustCompile(`\d+\s*-\s*\d+`),    // spaced ranges
	}

	combatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)AC\s*\d+`),
		regexp.MustCompile(`(?i)THAC0\s*\d+`),
		regexp.MustCompile(`(?i)\d+\s*or\s*better`),
		regexp.MustCompile(`(?i)Level\s*\d+`),
		regexp.MustCompile(`(?i)HD\s*\d+`),
	}

	levelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Level\s*\d+`),
		regexp.MustCompile(`(?i)\d+(st|nd|rd|th)\s+Level`),
		regexp.MustCompile(`(?i)Experience\s*Points?`),
		regexp.MustCompile(`(?i)XP\s*Required`),
	}

	// diceRowPattern splits a dice-table line into roll range and result.
	diceRowPattern = regexp.MustCompile(`^(\d+[-–]\d+|\d+)\s+(.+)$`)
)

// strongIndicators are domain terms that materially raise confidence when
// present alongside a structural pattern hit.
var strongIndicators = []string{"THAC0", "Armor Class", "Hit Dice", "Saving Throw"}

// TableHit is one heuristic table detection. A region can be reported under
// several types when multiple pattern families match it; confidence scoring
// treats the families additively.
type TableHit struct {
	Type models.TableType
	// LineCount is how many lines matched the family's patterns.
	LineCount int
	// Grid holds parsed rows (header first) when the family supports row
	// extraction; nil when only the region was recognized.
	Grid [][]string
}

// Analysis is the outcome of heuristic table scanning over a block of text.
type Analysis struct {
	Hits       []TableHit
	Families   []string
	Confidence float64 // 0-100
}

// AnalyzeText scans raw page text for tabular structure using the four
// pattern families. The additive confidence score: base 40 for any hit, +10
// per additional table (contribution capped at 30), +5 per distinct family,
// +10 per strong domain indicator, capped at 100.
func (d *Detector) AnalyzeText(text string) Analysis {
	lines := strings.Split(text, "\n")

	var analysis Analysis

	// Family 1: aligned columns - consecutive lines of >=3 tokens with >=2
	// numeric tokens.
	aligned := alignedLines(lines)
	if len(aligned) >= minAlignedLines {
		analysis.Hits = append(analysis.Hits, TableHit{
			Type:      models.TableTypeGeneric,
			LineCount: len(aligned),
			Grid:      alignedGrid(aligned),
		})
		analysis.Families = append(analysis.Families, "aligned_columns")
	}

	// Family 2: dice tables.
	if n := countMatchingLines(text, dicePatterns); n >= minDiceLines {
		analysis.Hits = append(analysis.Hits, TableHit{
			Type:      models.TableTypeDice,
			LineCount: n,
			Grid:      diceGrid(lines),
		})
		analysis.Families = append(analysis.Families, "dice_table")
	}

	// Family 3: combat tables.
	if n := countMatchingLines(text, combatPatterns); n >= minCombatLines {
		analysis.Hits = append(analysis.Hits, TableHit{
			Type:      models.TableTypeCombat,
			LineCount: n,
		})
		analysis.Families = append(analysis.Families, "combat_table")
	}

	// Family 4: level progression tables.
	if n := countMatchingLines(text, levelPatterns); n >= minLevelLines {
		analysis.Hits = append(analysis.Hits, TableHit{
			Type:      models.TableTypeLevel,
			LineCount: n,
		})
		analysis.Families = append(analysis.Families, "level_table")
	}

	analysis.Confidence = scoreAnalysis(analysis, text)
	return analysis
}

func scoreAnalysis(a Analysis, text string) float64 {
	if len(a.Hits) == 0 {
		return 0
	}

	confidence := 40.0
	extra := float64((len(a.Hits) - 1) * 10)
	if extra > 30 {
		extra = 30
	}
	confidence += extra
	confidence += float64(len(a.Families) * 5)

	for _, indicator := range strongIndicators {
		if strings.Contains(strings.ToLower(text), strings.ToLower(indicator)) {
			confidence += 10
		}
	}

	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// alignedLines returns the trimmed lines that look like rows of an aligned
// column table: at least three whitespace-delimited tokens, at least two of
// them containing digits.
func alignedLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 3 {
			continue
		}
		numeric := 0
		for _, token := range tokens {
			if strings.ContainsAny(token, "0123456789") {
				numeric++
			}
		}
		if numeric >= 2 {
			out = append(out, line)
		}
	}
	return out
}

// alignedGrid tokenizes aligned rows into a grid, first row as header.
func alignedGrid(rows []string) [][]string {
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		grid = append(grid, strings.Fields(row))
	}
	return grid
}

// diceGrid parses "range result" lines into a two-column Roll/Result grid.
// Needs at least three data rows to count as a parseable table.
func diceGrid(lines []string) [][]string {
	grid := [][]string{{"Roll", "Result"}}
	for _, line := range lines {
		m := diceRowPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			grid = append(grid, []string{m[1], strings.TrimSpace(m[2])})
		}
	}
	if len(grid) < 4 {
		return nil
	}
	return grid
}

// countMatchingLines counts lines where any pattern of the family matches.
func countMatchingLines(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		for _, p := range patterns {
			if p.MatchString(line) {
				count++
				break
			}
		}
	}
	return count
}
