package interfaces

import "github.com/ternarybob/libram/internal/models"

// DocumentStore persists extraction results as independently addressable
// section documents. IDs are deterministic (collection name + zero-padded
// page), so re-running an extraction upserts rather than duplicates. The
// section's category and confidence fields are preserved verbatim in stored
// metadata.
type DocumentStore interface {
	// SaveResult stores every section of an extraction result.
	SaveResult(res *models.ExtractionResult) error

	// GetSection fetches one stored section by its deterministic id.
	GetSection(id string) (*models.StoredSection, error)

	// SectionsByCategory returns stored sections whose category matches.
	SectionsByCategory(collection, category string) ([]*models.StoredSection, error)

	// Close releases the store.
	Close() error
}
