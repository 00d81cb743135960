package types

import "slices"

// Minigame identifiers, in unlock order.
const (
	GameSki      = "ski"
	GameSnowball = "snowball"
	GameSkating  = "skating"
	GameFishing  = "fishing"
)

// Playable character identifiers.
const (
	CharacterRose   = "rose"
	CharacterOliver = "oliver"
	CharacterMaple  = "maple"
)

// Difficulty identifiers.
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// Catalog lists the minigames, characters, and difficulties a release ships.
// Games are ordered: finishing one well unlocks the next.
type Catalog struct {
	Games        []string
	Characters   []string
	Difficulties []string
}

// DefaultCatalog returns the catalog for the current release.
func DefaultCatalog() Catalog {
	return Catalog{
		Games:        []string{GameSki, GameSnowball, GameSkating, GameFishing},
		Characters:   []string{CharacterRose, CharacterOliver, CharacterMaple},
		Difficulties: []string{DifficultyEasy, DifficultyNormal, DifficultyHard},
	}
}

// HasGame reports whether id is a catalog minigame.
func (c Catalog) HasGame(id string) bool { return slices.Contains(c.Games, id) }

// HasCharacter reports whether id is a catalog character.
func (c Catalog) HasCharacter(id string) bool { return slices.Contains(c.Characters, id) }

// HasDifficulty reports whether id is a catalog difficulty.
func (c Catalog) HasDifficulty(id string) bool { return slices.Contains(c.Difficulties, id) }

// NextGame returns the game unlocked after id, or "" if id is last or unknown.
func (c Catalog) NextGame(id string) string {
	i := slices.Index(c.Games, id)
	if i < 0 || i+1 >= len(c.Games) {
		return ""
	}
	return c.Games[i+1]
}
