package models

import "time"

// TextBlock is a positioned run of text on a page. Blocks only live for the
// duration of layout analysis; they are discarded once reading order is fixed.
type TextBlock struct {
	Text   string
	X0, Y0 float64
	X1, Y1 float64
	Column int
}

// Width returns the horizontal extent of the block.
func (b TextBlock) Width() float64 { return b.X1 - b.X0 }

// XCenter returns the horizontal center of the block.
func (b TextBlock) XCenter() float64 { return (b.X0 + b.X1) / 2 }

// Section is one page of extracted, reading-order-corrected content with its
// categorization and any tables found on the page.
type Section struct {
	Page                 int      `json:"page"` // 1-based
	Title                string   `json:"title"`
	Content              string   `json:"content"`
	WordCount            int      `json:"word_count"`
	Category             string   `json:"category"`
	SecondaryCategories  []string `json:"secondary_categories,omitempty"`
	Tables               []Table  `json:"tables"`
	IsMultiColumn        bool     `json:"is_multi_column"`
	ExtractionMethod     string   `json:"extraction_method"`
	ExtractionConfidence float64  `json:"extraction_confidence"` // 0-100
	GameType             string   `json:"game_type"`
	Edition              string   `json:"edition"`
	Book                 string   `json:"book"`
}

// ExtractionSummary aggregates whole-document statistics.
type ExtractionSummary struct {
	TotalPages           int            `json:"total_pages"`
	TotalWords           int            `json:"total_words"`
	TotalTables          int            `json:"total_tables"`
	ExtractionTimestamp  time.Time      `json:"extraction_timestamp"`
	ContentType          string         `json:"content_type"`
	GameType             string         `json:"game_type"`
	Edition              string         `json:"edition"`
	Book                 string         `json:"book"`
	CollectionName       string         `json:"collection_name"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	CategoryOrder        []string       `json:"category_order"` // first-occurrence order
	AverageWordsPerPage  int            `json:"average_words_per_page"`
}

// DocumentMetadata is the file-level metadata attached to an ExtractionResult.
type DocumentMetadata struct {
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	SourceType       string    `json:"source_type"`
	ProcessingDate   time.Time `json:"processing_date"`
	Game             GameMetadata `json:"game"`
	Source           string       `json:"source"`
}

// ExtractionResult is the top-level artifact of a document extraction. Once
// returned it is owned exclusively by the caller; nothing in the pipeline
// retains a reference.
type ExtractionResult struct {
	Metadata DocumentMetadata  `json:"metadata"`
	Sections []Section         `json:"sections"`
	Summary  ExtractionSummary `json:"extraction_summary"`
}
