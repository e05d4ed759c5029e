// Package gamedetect identifies which game system a rulebook belongs to from
// sampled page content, with keyword heuristics backing an optional AI
// backend.
package gamedetect

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
)

const (
	// samplePages is how many leading pages feed detection.
	samplePages = 3
	// sampleChars caps the total detection sample.
	sampleChars = 3000
)

// Options carries caller overrides. Forced values replace detected ones and
// the collection name is regenerated to match.
type Options struct {
	ForceGameType string
	ForceEdition  string
	ContentType   string
}

// Detector resolves GameMetadata for a document. The backend is optional;
// without one the keyword signatures decide.
type Detector struct {
	logger  arbor.ILogger
	backend interfaces.Classifier
}

func New(logger arbor.ILogger, backend interfaces.Classifier) *Detector {
	return &Detector{logger: logger, backend: backend}
}

// Detect samples leading pages and resolves game metadata, applying any
// forced overrides last. The result is always normalized: GameType and
// Edition are never empty and CollectionName is always populated.
func (d *Detector) Detect(ctx context.Context, src interfaces.PageSource, filename string, opts Options) models.GameMetadata {
	sample := sampleContent(src)

	meta := d.analyze(ctx, sample)
	if meta.BookFullName == "" {
		meta.BookFullName = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	if opts.ForceGameType != "" {
		meta.GameType = opts.ForceGameType
	}
	if opts.ForceEdition != "" {
		meta.Edition = opts.ForceEdition
	}
	if opts.ContentType != "" {
		meta.ContentType = opts.ContentType
	}

	meta.Normalize()
	meta.CollectionName = CollectionName(meta)

	d.logger.Info().
		Str("game", meta.GameType).
		Str("edition", meta.Edition).
		Str("collection", meta.CollectionName).
		Msg("Game system detected")
	return meta
}

func (d *Detector) analyze(ctx context.Context, sample string) models.GameMetadata {
	if d.backend == nil {
		return detectByKeywords(sample)
	}

	response, err := d.backend.Classify(ctx, buildDetectionPrompt(sample))
	if err != nil {
		d.logger.Warn().Err(err).Str("backend", d.backend.Name()).Msg("Game detection backend failed")
		return detectByKeywords(sample)
	}

	meta, ok := parseDetectionResponse(response)
	if !ok {
		d.logger.Warn().Msg("Unusable game detection response, falling back to keyword signatures")
		return detectByKeywords(sample)
	}
	return meta
}

// sampleContent concatenates slices of the leading pages up to the cap.
func sampleContent(src interfaces.PageSource) string {
	pages := src.PageCount()
	if pages > samplePages {
		pages = samplePages
	}
	perPage := sampleChars / samplePages

	var sb strings.Builder
	for i := 0; i < pages; i++ {
		text, err := src.PageText(i)
		if err != nil {
			continue
		}
		if len(text) > perPage {
			text = text[:perPage]
		}
		sb.WriteString(text)
		if sb.Len() >= sampleChars {
			break
		}
	}

	sample := sb.String()
	if len(sample) > sampleChars {
		sample = sample[:sampleChars]
	}
	return sample
}

func buildDetectionPrompt(sample string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert in tabletop role-playing games. Identify the game system this rulebook excerpt belongs to.\n\n")
	sb.WriteString("EXCERPT:\n")
	sb.WriteString(sample)
	sb.WriteString("\n\n")
	sb.WriteString(`Respond in JSON format:
{
    "game_type": "Short system name (D&D, Pathfinder, Call of Cthulhu, Vampire, Werewolf, Cyberpunk, Shadowrun, or another)",
    "game_full_name": "Full official name",
    "edition": "Edition identifier (1st, 2nd, 3.5, 5th, etc.)",
    "book_type": "Core Rules, Supplement, Adventure, Bestiary, or similar",
    "book_full_name": "Full book title if identifiable",
    "publisher": "Publisher name if identifiable",
    "confidence": 0.9
}`)
	return sb.String()
}

func parseDetectionResponse(response string) (models.GameMetadata, bool) {
	if strings.TrimSpace(response) == "" {
		return models.GameMetadata{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(response), &raw); err != nil || raw == nil {
		return models.GameMetadata{}, false
	}

	field := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}

	meta := models.GameMetadata{
		GameType:     field("game_type"),
		GameFullName: field("game_full_name"),
		Edition:      field("edition"),
		BookType:     field("book_type"),
		BookFullName: field("book_full_name"),
		Publisher:    field("publisher"),
	}
	if meta.GameType == "" {
		return models.GameMetadata{}, false
	}
	return meta, true
}

// gameSignature pairs a system with the terms that identify it. Signatures
// are checked in order; the first system with any matching term wins.
type gameSignature struct {
	gameType string
	fullName string
	terms    []string
}

var gameSignatures = []gameSignature{
	{"Pathfinder", "Pathfinder Roleplaying Game", []string{"pathfinder", "golarion"}},
	{"Call of Cthulhu", "Call of Cthulhu", []string{"cthulhu", "mythos", "sanity points", "investigator"}},
	{"Vampire", "Vampire: The Masquerade", []string{"vampire", "camarilla", "masquerade", "kindred"}},
	{"Werewolf", "Werewolf: The Apocalypse", []string{"werewolf", "garou", "umbra"}},
	{"Shadowrun", "Shadowrun", []string{"shadowrun", "decker", "sixth world"}},
	{"Cyberpunk", "Cyberpunk", []string{"cyberpunk", "netrunner", "night city"}},
	{"D&D", "Dungeons & Dragons", []string{"dungeons & dragons", "dungeons and dragons", "dungeon master", "thac0", "armor class", "saving throw"}},
}

// editionSignature maps phrases to edition labels, checked in order.
var editionSignatures = []struct {
	term    string
	edition string
}{
	{"advanced dungeons & dragons", "2nd"},
	{"advanced dungeons and dragons", "2nd"},
	{"1st edition", "1st"},
	{"first edition", "1st"},
	{"2nd edition", "2nd"},
	{"second edition", "2nd"},
	{"3.5", "3.5"},
	{"3rd edition", "3rd"},
	{"third edition", "3rd"},
	{"4th edition", "4th"},
	{"fourth edition", "4th"},
	{"5th edition", "5th"},
	{"fifth edition", "5th"},
}

// detectByKeywords is the deterministic fallback: scan the sample for system
// and edition signatures.
func detectByKeywords(sample string) models.GameMetadata {
	lower := strings.ToLower(sample)

	var meta models.GameMetadata
	for _, sig := range gameSignatures {
		for _, term := range sig.terms {
			if strings.Contains(lower, term) {
				meta.GameType = sig.gameType
				meta.GameFullName = sig.fullName
				break
			}
		}
		if meta.GameType != "" {
			break
		}
	}

	for _, sig := range editionSignatures {
		if strings.Contains(lower, sig.term) {
			meta.Edition = sig.edition
			break
		}
	}

	return meta
}

// collectionPrefixes maps known systems to short collection prefixes.
var collectionPrefixes = map[string]string{
	"D&D":             "dnd",
	"Pathfinder":      "pf",
	"Call of Cthulhu": "coc",
	"Vampire":         "vtm",
	"Werewolf":        "wta",
	"Cyberpunk":       "cp",
	"Shadowrun":       "sr",
}

// CollectionPrefix returns the short prefix for a game type. Unknown systems
// get a compacted lowercase slug capped at five characters.
func CollectionPrefix(gameType string) string {
	if prefix, ok := collectionPrefixes[gameType]; ok {
		return prefix
	}
	slug := strings.ReplaceAll(strings.ToLower(gameType), " ", "")
	if len(slug) > 5 {
		slug = slug[:5]
	}
	return slug
}

// CollectionName derives the deterministic collection identifier from game
// metadata: prefix, edition with dots stripped, book type, all lowercase.
func CollectionName(meta models.GameMetadata) string {
	edition := strings.ToLower(strings.ReplaceAll(meta.Edition, ".", ""))
	edition = strings.ReplaceAll(edition, " ", "_")
	book := strings.ReplaceAll(strings.ToLower(meta.BookType), " ", "_")
	return fmt.Sprintf("%s_%s_%s", CollectionPrefix(meta.GameType), edition, book)
}
