package migrate

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

// Step describes one schema transform in the pipeline.
type Step struct {
	From    string
	To      string
	Summary string
}

// Steps lists the transforms in the order they apply.
var Steps = []Step{
	{From: types.SchemaV0, To: types.SchemaV1, Summary: "add achievements"},
	{From: types.SchemaV1, To: types.SchemaV2, Summary: "nest high scores by character and difficulty"},
}

var errMalformedEntry = errors.New("malformed score entry")

// upgradeV0 adds an empty achievements map.
func upgradeV0(d docV0) (docV1, error) {
	return docV1{
		SchemaVersion: types.SchemaV1,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Player:        d.Player,
		Settings:      d.Settings,
		Progress:      d.Progress,
		Achievements:  map[string]bool{},
		HighScores:    d.HighScores,
		Extra:         d.Extra,
	}, nil
}

// upgradeV1 moves each flat per-game list into the character/difficulty
// mapping. Entries without a character take the player's selected character
// (or the first catalog character); entries without a difficulty take normal
// (or the first catalog difficulty). Order within a key follows the ledger
// ordering.
func upgradeV1(d docV1, c types.Catalog) (types.SaveDocument, error) {
	doc := types.SaveDocument{
		SchemaVersion: types.SchemaV2,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Player:        d.Player,
		Settings:      d.Settings,
		Progress:      d.Progress,
		Achievements:  d.Achievements,
		HighScores:    types.HighScores{},
		Extra:         d.Extra,
	}

	fallbackChar := d.Player.SelectedCharacter
	if fallbackChar == "" && len(c.Characters) > 0 {
		fallbackChar = c.Characters[0]
	}
	fallbackDiff := types.DifficultyNormal
	if !c.HasDifficulty(fallbackDiff) && len(c.Difficulties) > 0 {
		fallbackDiff = c.Difficulties[0]
	}

	for _, game := range slices.Sorted(maps.Keys(d.HighScores)) {
		for i, e := range d.HighScores[game] {
			if e.Score < 0 {
				return types.SaveDocument{}, fmt.Errorf("%w: %s[%d]: negative score %d", errMalformedEntry, game, i, e.Score)
			}
			if e.Character == "" {
				e.Character = fallbackChar
			}
			if e.Difficulty == "" {
				e.Difficulty = fallbackDiff
			}
			if e.Character == "" {
				return types.SaveDocument{}, fmt.Errorf("%w: %s[%d]: no character", errMalformedEntry, game, i)
			}
			list := doc.HighScores.List(game, e.Character, e.Difficulty)
			doc.HighScores.Put(game, e.Character, e.Difficulty, append(list, e))
		}
	}
	return doc, nil
}
