package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	doc := Defaults()

	assert.Equal(t, CurrentSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, DefaultPlayerName, doc.Player.Name)
	assert.Empty(t, doc.Player.SelectedCharacter)
	assert.Empty(t, doc.Achievements)
	assert.NotNil(t, doc.Achievements)

	assert.True(t, doc.Progress.Minigames[GameSki], "first game starts unlocked")
	assert.False(t, doc.Progress.Minigames[GameSnowball])
	assert.False(t, doc.Progress.Minigames[GameFishing])

	list := doc.HighScores.List(GameSki, CharacterRose, DifficultyNormal)
	require.NotNil(t, list)
	assert.Empty(t, list)

	for _, game := range DefaultCatalog().Games {
		for _, char := range DefaultCatalog().Characters {
			assert.Len(t, doc.HighScores[game][char], len(DefaultCatalog().Difficulties))
		}
	}
}

func TestDefaultsEncodeEmptyListsAsArrays(t *testing.T) {
	data, err := json.Marshal(Defaults())
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	hs := generic["high_scores"].(map[string]any)
	list := hs["ski"].(map[string]any)["rose"].(map[string]any)["normal"]
	assert.Equal(t, []any{}, list)
}

func TestSaveDocumentPreservesUnknownMembers(t *testing.T) {
	input := `{
		"schema_version": "2.0.0",
		"cloud_slot": {"id": 7},
		"player": {"name": "Ada"},
		"settings": {"master_volume": 0.5, "subtitles": "large", "colorblind.mode": 2}
	}`

	doc := Defaults()
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	assert.Equal(t, "Ada", doc.Player.Name)
	assert.Equal(t, 0.5, doc.Settings.MasterVolume)
	assert.Equal(t, DefaultMusicVolume, doc.Settings.MusicVolume, "absent members keep defaults")
	assert.Equal(t, DefaultKeyBindings(), doc.Settings.KeyBindings)
	require.Contains(t, doc.Extra, "cloud_slot")
	require.Contains(t, doc.Settings.Extra, "subtitles")
	require.Contains(t, doc.Settings.Extra, "colorblind.mode")

	out, err := json.Marshal(doc)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, map[string]any{"id": float64(7)}, generic["cloud_slot"])
	settings := generic["settings"].(map[string]any)
	assert.Equal(t, "large", settings["subtitles"])
	assert.Equal(t, float64(2), settings["colorblind.mode"])
}

func TestSaveDocumentKeyBindingsMergeOntoDefaults(t *testing.T) {
	doc := Defaults()
	input := `{"settings": {"key_bindings": {"pause": "p", "jump": "k"}}}`
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	assert.Equal(t, "p", doc.Settings.KeyBindings["pause"])
	assert.Equal(t, "k", doc.Settings.KeyBindings["jump"])
	assert.Equal(t, "w", doc.Settings.KeyBindings["up"])
}

func TestSaveDocumentRoundTrip(t *testing.T) {
	when := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	doc := Defaults()
	doc.CreatedAt = when
	doc.UpdatedAt = when.Add(time.Hour)
	doc.Player.ProfileID = "0190f1e2-0000-7000-8000-000000000001"
	doc.Player.SelectedCharacter = CharacterMaple
	doc.Achievements["first_steps"] = true
	doc.HighScores.Put(GameSki, CharacterMaple, DifficultyHard, []ScoreEntry{
		{Score: 42, PlayerName: "Ada", Character: CharacterMaple, Difficulty: DifficultyHard, ElapsedSeconds: 61.5, Date: when},
	})
	doc.Extra = map[string]json.RawMessage{"future": json.RawMessage(`true`)}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	got := Defaults()
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc, got)
}

func TestSaveDocumentClone(t *testing.T) {
	doc := Defaults()
	doc.Extra = map[string]json.RawMessage{"x": json.RawMessage(`1`)}
	clone := doc.Clone()

	clone.Settings.KeyBindings["up"] = "i"
	clone.Progress.Flags[FlagSeenIntro] = true
	clone.Achievements["marathon"] = true
	clone.HighScores.Put(GameSki, CharacterRose, DifficultyEasy, []ScoreEntry{{Score: 1}})
	clone.Extra["x"][0] = '2'

	assert.Equal(t, "w", doc.Settings.KeyBindings["up"])
	assert.False(t, doc.Progress.Flags[FlagSeenIntro])
	assert.NotContains(t, doc.Achievements, "marathon")
	assert.Empty(t, doc.HighScores.List(GameSki, CharacterRose, DifficultyEasy))
	assert.Equal(t, json.RawMessage(`1`), doc.Extra["x"])
}

func TestHighScoresPutCreatesUnseenKeys(t *testing.T) {
	hs := HighScores{}
	assert.Nil(t, hs.List("kite", "newcomer", "extreme"))

	hs.Put("kite", "newcomer", "extreme", []ScoreEntry{{Score: 3}})
	assert.Len(t, hs.List("kite", "newcomer", "extreme"), 1)
}

func TestScoreEntryRanksBefore(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)

	tests := []struct {
		name string
		a, b ScoreEntry
		want bool
	}{
		{"higher score first", ScoreEntry{Score: 10, Date: late}, ScoreEntry{Score: 5, Date: early}, true},
		{"lower score after", ScoreEntry{Score: 5, Date: early}, ScoreEntry{Score: 10, Date: late}, false},
		{"tie broken by earlier date", ScoreEntry{Score: 7, Date: early}, ScoreEntry{Score: 7, Date: late}, true},
		{"tie later date after", ScoreEntry{Score: 7, Date: late}, ScoreEntry{Score: 7, Date: early}, false},
		{"identical entries are not ahead", ScoreEntry{Score: 7, Date: early}, ScoreEntry{Score: 7, Date: early}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.RanksBefore(tt.b))
		})
	}
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.True(t, c.HasGame(GameSki))
	assert.False(t, c.HasGame("kite"))
	assert.True(t, c.HasCharacter(CharacterRose))
	assert.True(t, c.HasDifficulty(DifficultyHard))
	assert.Equal(t, GameSnowball, c.NextGame(GameSki))
	assert.Equal(t, "", c.NextGame(GameFishing))
	assert.Equal(t, "", c.NextGame("kite"))
}

func TestBag(t *testing.T) {
	var nilBag Bag
	clone := nilBag.Clone()
	require.NotNil(t, clone)

	b := Bag{BagGame: GameSki, BagLastScore: 900}
	c := b.Clone()
	c[BagGame] = GameFishing
	assert.Equal(t, GameSki, b.String(BagGame))

	b.Merge(Bag{BagGame: GameSkating, BagRank: 2})
	assert.Equal(t, GameSkating, b.String(BagGame))
	n, ok := b.Int(BagRank)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = b.Int(BagGame)
	assert.False(t, ok)
	assert.True(t, b.Has(BagLastScore))
	assert.False(t, b.Has(BagNotice))
}
