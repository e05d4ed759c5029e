package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SectionStorage implements the DocumentStore interface for Badger
type SectionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentStore = (*SectionStorage)(nil)

// NewSectionStorage creates a new SectionStorage instance
func NewSectionStorage(db *BadgerDB, logger arbor.ILogger) *SectionStorage {
	return &SectionStorage{
		db:     db,
		logger: logger,
	}
}

// SaveResult upserts every section of an extraction result under its
// deterministic id, so re-processing a document replaces rather than
// duplicates its sections.
func (s *SectionStorage) SaveResult(res *models.ExtractionResult) error {
	if res == nil {
		return fmt.Errorf("extraction result is required")
	}
	collection := res.Metadata.Game.CollectionName
	if collection == "" {
		return fmt.Errorf("collection name is required")
	}

	now := time.Now()
	for i := range res.Sections {
		section := res.Sections[i]
		stored := &models.StoredSection{
			ID:             models.SectionID(collection, section.Page),
			Collection:     collection,
			Source:         res.Metadata.OriginalFilename,
			Category:       section.Category,
			Section:        section,
			GameType:       res.Metadata.Game.GameType,
			Edition:        res.Metadata.Game.Edition,
			Book:           res.Metadata.Game.BookType,
			ProcessingDate: res.Metadata.ProcessingDate,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		var existing models.StoredSection
		if err := s.db.Store().Get(stored.ID, &existing); err == nil {
			stored.CreatedAt = existing.CreatedAt
		}

		if err := s.db.Store().Upsert(stored.ID, stored); err != nil {
			return fmt.Errorf("failed to save section %s: %w", stored.ID, err)
		}
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("sections", len(res.Sections)).
		Msg("Saved extraction result")

	return nil
}

// GetSection fetches one stored section by id.
func (s *SectionStorage) GetSection(id string) (*models.StoredSection, error) {
	var stored models.StoredSection
	if err := s.db.Store().Get(id, &stored); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("section not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &stored, nil
}

// SectionsByCategory returns the stored sections of a collection matching a
// category, in page order.
func (s *SectionStorage) SectionsByCategory(collection, category string) ([]*models.StoredSection, error) {
	var sections []models.StoredSection
	err := s.db.Store().Find(&sections,
		badgerhold.Where("Collection").Eq(collection).Index("Collection").
			And("Category").Eq(category).
			SortBy("ID"))
	if err != nil {
		return nil, fmt.Errorf("failed to find sections: %w", err)
	}

	result := make([]*models.StoredSection, len(sections))
	for i := range sections {
		result[i] = &sections[i]
	}
	return result, nil
}

// Close closes the underlying database connection.
func (s *SectionStorage) Close() error {
	return s.db.Close()
}
