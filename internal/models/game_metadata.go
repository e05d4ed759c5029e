package models

// GameMetadata describes the game system a rulebook belongs to. It is detected
// once per document before extraction and treated as immutable input by the
// categorization pipeline.
type GameMetadata struct {
	GameType       string `json:"game_type"`
	GameFullName   string `json:"game_full_name,omitempty"`
	Edition        string `json:"edition"`
	BookType       string `json:"book_type"`
	BookFullName   string `json:"book_full_name,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	CollectionName string `json:"collection_name"`
	ContentType    string `json:"content_type"` // "source_material" or "novel"
}

// Normalize fills the fields that must never be empty. GameType and Edition
// fall back to "Unknown" so collection names and prompts stay well-formed.
func (m *GameMetadata) Normalize() {
	if m.GameType == "" {
		m.GameType = "Unknown"
	}
	if m.Edition == "" {
		m.Edition = "Unknown"
	}
	if m.BookType == "" {
		m.BookType = "Core"
	}
	if m.ContentType == "" {
		m.ContentType = "source_material"
	}
}
