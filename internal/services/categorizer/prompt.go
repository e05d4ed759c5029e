package categorizer

import (
	"fmt"
	"strings"

	"github.com/ternarybob/libram/internal/models"
)

// maxPromptContent caps how much page text is embedded in a prompt.
const maxPromptContent = 2000

// gameCategories holds per-system category vocabulary embedded into the
// categorization prompt. Keyed by GameMetadata.GameType.
var gameCategories = map[string]string{
	"D&D": `D&D SPECIFIC:
- Classes (Fighter, Wizard, Cleric, etc.)
- Races (Human, Elf, Dwarf, etc.)
- Spells by Level (1st Level Spells, 2nd Level Spells, etc.)
- Monsters/Creatures
- Treasure/Magic Items
- Dungeon Design
- Campaign Setting
- Saving Throws
- THAC0/Attack Tables (1st/2nd Ed)
- Feats (3rd+ Ed)`,

	"Pathfinder": `PATHFINDER SPECIFIC:
- Classes (Barbarian, Bard, Oracle, etc.)
- Archetypes
- Feats
- Spells by Level
- Creatures/Bestiary
- Combat Maneuvers
- Skill System
- Magic Items
- Adventure Paths
- Golarion Setting`,

	"Call of Cthulhu": `CALL OF CTHULHU SPECIFIC:
- Investigator Creation
- Skills System
- Sanity/Madness
- Mythos Creatures
- Spells/Rituals
- Investigation Rules
- Chase Rules
- Occupations
- Equipment (1920s/Modern)
- Scenarios/Adventures
- Keeper Advice`,

	"Vampire": `VAMPIRE SPECIFIC:
- Clans
- Disciplines
- Blood Pool/Vitae
- Humanity/Path
- Generation
- Coteries
- Camarilla/Sabbat
- Masquerade
- Feeding
- Combat (Frenzy, Torpor)
- Storyteller Advice`,

	"Werewolf": `WEREWOLF SPECIFIC:
- Tribes
- Auspices
- Gifts
- Rage/Gnosis
- Renown
- Pack Dynamics
- Umbra/Spirit World
- Garou Forms
- Rites
- Caerns
- Storyteller Advice`,
}

const genericCategories = "Game-specific categories will be determined based on content analysis."

// buildPrompt assembles the categorization prompt: game context, truncated
// content and the system's category vocabulary.
func buildPrompt(content string, meta models.GameMetadata) string {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent] + "..."
	}

	specific, ok := gameCategories[meta.GameType]
	if !ok {
		specific = genericCategories
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert in %s %s Edition content analysis.\n\n", meta.GameType, meta.Edition)
	sb.WriteString("GAME CONTEXT:\n")
	fmt.Fprintf(&sb, "- Game System: %s\n", meta.GameType)
	fmt.Fprintf(&sb, "- Edition: %s\n", meta.Edition)
	fmt.Fprintf(&sb, "- Book Type: %s\n", meta.BookType)
	publisher := meta.Publisher
	if publisher == "" {
		publisher = "Unknown"
	}
	fmt.Fprintf(&sb, "- Publisher: %s\n\n", publisher)
	sb.WriteString("CONTENT TO CATEGORIZE:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")
	sb.WriteString("Analyze this content and determine the most appropriate category. ")
	sb.WriteString("Consider the game system's unique characteristics and terminology.\n\n")
	fmt.Fprintf(&sb, "For %s %s, typical categories might include:\n\n", meta.GameType, meta.Edition)
	sb.WriteString(`GENERAL CATEGORIES (applicable to most RPGs):
- Character Creation
- Combat Rules
- Magic/Spells
- Equipment/Items
- Skills/Abilities
- Rules/Mechanics
- Tables/Charts
- Lore/Setting
- NPCs/Characters
- Adventures/Scenarios

GAME-SPECIFIC CATEGORIES:
`)
	sb.WriteString(specific)
	sb.WriteString("\n\n")
	sb.WriteString(`Provide your analysis in JSON format:
{
    "primary_category": "Most appropriate category name",
    "secondary_categories": ["List of other relevant categories"],
    "confidence": 0.95,
    "reasoning": "Brief explanation of categorization decision",
    "key_topics": ["List of main topics/concepts found"],
    "game_specific_elements": ["Game-specific terminology or mechanics identified"],
    "content_type": "Type of content (rules, description, table, example, etc.)"
}

Focus on accuracy and provide confidence scores based on how clearly the content fits the category.`)

	return sb.String()
}
