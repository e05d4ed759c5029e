package models

import (
	"fmt"
	"time"
)

// StoredSection is the persisted form of a Section: the section itself plus
// the document-level context needed to query it independently.
type StoredSection struct {
	ID             string    `json:"id" badgerhold:"key"`
	Collection     string    `json:"collection" badgerholdIndex:"Collection"`
	Source         string    `json:"source"`
	Category       string    `json:"category" badgerholdIndex:"Category"`
	Section        Section   `json:"section"`
	GameType       string    `json:"game_type"`
	Edition        string    `json:"edition"`
	Book           string    `json:"book"`
	ProcessingDate time.Time `json:"processing_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SectionID derives the deterministic store id for a page of a collection.
func SectionID(collection string, page int) string {
	return fmt.Sprintf("%s_page_%03d", collection, page)
}
