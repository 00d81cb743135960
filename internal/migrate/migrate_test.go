package migrate

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

var day = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

const legacyV0 = `{
	"created_at": "2025-12-24T18:00:00Z",
	"updated_at": "2025-12-25T08:30:00Z",
	"player": {"name": "Nan", "selected_character": "oliver", "playtime_seconds": 3600},
	"settings": {"master_volume": 0.4, "fullscreen": true, "subtitles": "on"},
	"progress": {"flags": {"seen_intro": true}, "minigames": {"ski": true, "snowball": true}},
	"high_scores": {
		"ski": [
			{"score": 500, "player_name": "Nan", "character": "rose", "difficulty": "normal", "date": "2025-12-24T18:10:00Z"},
			{"score": 1500, "player_name": "Nan", "character": "rose", "difficulty": "normal", "date": "2025-12-24T18:20:00Z"},
			{"score": 900, "player_name": "Nan", "date": "2025-12-24T18:30:00Z"}
		]
	},
	"house_rules": {"candy": 3}
}`

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "missing is oldest", raw: `{}`, want: "v0.1.0"},
		{name: "null is oldest", raw: `{"schema_version": null}`, want: "v0.1.0"},
		{name: "empty is oldest", raw: `{"schema_version": ""}`, want: "v0.1.0"},
		{name: "blank is oldest", raw: `{"schema_version": "  "}`, want: "v0.1.0"},
		{name: "plain semver", raw: `{"schema_version": "1.0.0"}`, want: "v1.0.0"},
		{name: "v prefix accepted", raw: `{"schema_version": "v2.0.0"}`, want: "v2.0.0"},
		{name: "short form canonicalised", raw: `{"schema_version": "1.2"}`, want: "v1.2.0"},
		{name: "prerelease ignored", raw: `{"schema_version": "2.0.0-beta.1"}`, want: "v2.0.0"},
		{name: "number rejected", raw: `{"schema_version": 2}`, wantErr: ErrInvalidVersion},
		{name: "garbage rejected", raw: `{"schema_version": "two"}`, wantErr: ErrInvalidVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectVersion([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrateLegacyV0(t *testing.T) {
	m := New()
	doc, err := m.Migrate([]byte(legacyV0))
	require.NoError(t, err)

	assert.Equal(t, types.CurrentSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "Nan", doc.Player.Name)
	assert.Equal(t, 3600.0, doc.Player.PlaytimeSeconds)
	assert.Equal(t, time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC), doc.CreatedAt)

	// v0 -> v1 adds an empty achievements map.
	assert.NotNil(t, doc.Achievements)
	assert.Empty(t, doc.Achievements)

	// Members absent from the legacy file keep their defaults.
	assert.Equal(t, 0.4, doc.Settings.MasterVolume)
	assert.Equal(t, types.DefaultMusicVolume, doc.Settings.MusicVolume)
	assert.True(t, doc.Settings.Fullscreen)
	assert.Equal(t, types.DefaultKeyBindings(), doc.Settings.KeyBindings)
	assert.True(t, doc.Progress.Flags[types.FlagSeenIntro])
	assert.Contains(t, doc.Progress.Flags, types.FlagTutorialComplete)
	assert.True(t, doc.Progress.Minigames[types.GameSnowball])
	assert.False(t, doc.Progress.Minigames[types.GameFishing])

	// Unknown members survive.
	assert.JSONEq(t, `{"candy":3}`, string(doc.Extra["house_rules"]))
	assert.JSONEq(t, `"on"`, string(doc.Settings.Extra["subtitles"]))

	// v1 -> v2 flattens the list into the nested mapping, ranked.
	rose := doc.HighScores.List(types.GameSki, types.CharacterRose, types.DifficultyNormal)
	require.Len(t, rose, 2)
	assert.Equal(t, 1500, rose[0].Score)
	assert.Equal(t, 500, rose[1].Score)

	// The entry without character or difficulty lands under the selected
	// character at normal difficulty.
	oliver := doc.HighScores.List(types.GameSki, types.CharacterOliver, types.DifficultyNormal)
	require.Len(t, oliver, 1)
	assert.Equal(t, 900, oliver[0].Score)
	assert.Equal(t, types.CharacterOliver, oliver[0].Character)
	assert.Equal(t, types.DifficultyNormal, oliver[0].Difficulty)

	// Every catalog key exists.
	assert.NotNil(t, doc.HighScores.List(types.GameFishing, types.CharacterMaple, types.DifficultyHard))
}

func TestMigrateV1(t *testing.T) {
	raw := `{
		"schema_version": "1.0.0",
		"achievements": {"first_steps": true},
		"high_scores": {"skating": [{"score": 70, "character": "maple", "difficulty": "hard", "date": "2026-01-01T00:00:00Z"}]}
	}`
	doc, err := New().Migrate([]byte(raw))
	require.NoError(t, err)

	assert.True(t, doc.Achievements["first_steps"])
	list := doc.HighScores.List(types.GameSkating, types.CharacterMaple, types.DifficultyHard)
	require.Len(t, list, 1)
	assert.Equal(t, 70, list[0].Score)
}

func TestMigrateIntermediateVersionUsesEarlierShape(t *testing.T) {
	raw := `{"schema_version": "1.4.2", "high_scores": {"ski": [{"score": 5, "character": "rose"}]}}`
	doc, err := New().Migrate([]byte(raw))
	require.NoError(t, err)
	assert.Len(t, doc.HighScores.List(types.GameSki, types.CharacterRose, types.DifficultyNormal), 1)
}

func TestMigrateNewerVersionLoadsAsCurrent(t *testing.T) {
	raw := `{"schema_version": "3.1.0", "player": {"name": "Future"}, "pets": ["cat"]}`
	doc, err := New().Migrate([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, types.CurrentSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "Future", doc.Player.Name)
	assert.JSONEq(t, `["cat"]`, string(doc.Extra["pets"]))
}

func TestMigrateBlankVersionKeepsDocument(t *testing.T) {
	raw := `{"schema_version": "", "player": {"name": "Kept"}, "high_scores": {"ski": [{"score": 40, "character": "maple"}]}}`
	doc, err := New().Migrate([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, types.CurrentSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "Kept", doc.Player.Name)
	list := doc.HighScores.List(types.GameSki, types.CharacterMaple, types.DifficultyNormal)
	require.Len(t, list, 1)
	assert.Equal(t, 40, list[0].Score)
}

func TestMigrateFailuresReturnDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an object", raw: `[1,2,3]`},
		{name: "not json", raw: `{"schema_version": "2.0.0",`},
		{name: "invalid version", raw: `{"schema_version": "latest"}`},
		{name: "wrong shape for version", raw: `{"schema_version": "0.1.0", "high_scores": {"ski": {"rose": {}}}}`},
		{name: "negative legacy score", raw: `{"high_scores": {"ski": [{"score": -1, "character": "rose"}]}}`},
		{name: "bad timestamp", raw: `{"schema_version": "2.0.0", "created_at": "yesterday"}`},
		{name: "negative current score", raw: `{"schema_version": "2.0.0", "high_scores": {"ski": {"rose": {"normal": [{"score": -50}]}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			doc, err := m.Migrate([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrMigrationFailed)
			assert.Equal(t, m.Defaults(), doc, "never a partially migrated document")
		})
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	m := New()
	doc := m.Defaults()
	doc.CreatedAt = day
	doc.UpdatedAt = day.Add(time.Hour)
	doc.Player.ProfileID = "0190f1e2-0000-7000-8000-000000000001"
	doc.Player.SelectedCharacter = types.CharacterRose
	doc.Settings.Extra = map[string]json.RawMessage{"subtitles": json.RawMessage(`"on"`)}
	doc.Extra = map[string]json.RawMessage{"house_rules": json.RawMessage(`{"candy":3}`)}
	doc.Achievements["high_roller"] = true
	doc.HighScores.Put(types.GameSki, types.CharacterRose, types.DifficultyNormal, []types.ScoreEntry{
		{Score: 1500, PlayerName: "Ada", Character: "rose", Difficulty: "normal", ElapsedSeconds: 42.5, Date: day},
		{Score: 900, PlayerName: "Ada", Character: "rose", Difficulty: "normal", ElapsedSeconds: 40, Date: day},
	})

	data, err := Encode(doc)
	require.NoError(t, err)

	got, err := m.Migrate(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestMigrateIdempotent(t *testing.T) {
	inputs := map[string]string{
		"legacy v0": legacyV0,
		"empty":     `{}`,
		"current":   `{"schema_version": "2.0.0", "settings": {"music_volume": 7}}`,
		"unsorted":  `{"schema_version": "2.0.0", "high_scores": {"ski": {"rose": {"easy": [{"score": 1}, {"score": 3}, {"score": 2}]}}}}`,
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			m := New()
			once, err := m.Migrate([]byte(raw))
			require.NoError(t, err)

			data, err := Encode(once)
			require.NoError(t, err)
			twice, err := m.Migrate(data)
			require.NoError(t, err)

			assert.Equal(t, once, twice)

			again, err := Encode(twice)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again), "encoding is stable")
		})
	}
}

func TestMigrateNormalisesScoreLists(t *testing.T) {
	var entries []string
	for i := 0; i < 15; i++ {
		entries = append(entries, fmt.Sprintf(`{"score": %d, "date": "2026-01-01T00:00:%02dZ"}`, i*10, i))
	}
	raw := fmt.Sprintf(`{"schema_version": "2.0.0", "high_scores": {"ski": {"rose": {"easy": [%s]}}}}`, join(entries))

	doc, err := New(WithLimit(10)).Migrate([]byte(raw))
	require.NoError(t, err)

	list := doc.HighScores.List(types.GameSki, types.CharacterRose, types.DifficultyEasy)
	require.Len(t, list, 10)
	assert.Equal(t, 140, list[0].Score)
	assert.Equal(t, 50, list[9].Score)
	assert.Equal(t, types.CharacterRose, list[0].Character)
	assert.Equal(t, types.DifficultyEasy, list[0].Difficulty)
}

func TestMigrateClampsVolumes(t *testing.T) {
	raw := `{"schema_version": "2.0.0", "settings": {"master_volume": 3, "music_volume": -1}}`
	doc, err := New().Migrate([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 1.0, doc.Settings.MasterVolume)
	assert.Equal(t, 0.0, doc.Settings.MusicVolume)
}

func TestMigrateCustomCatalog(t *testing.T) {
	c := types.Catalog{Games: []string{"kite"}, Characters: []string{"bea"}, Difficulties: []string{"breezy"}}
	doc, err := New(WithCatalog(c)).Migrate([]byte(`{}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.HighScores.List("kite", "bea", "breezy"))
	assert.True(t, doc.Progress.Minigames["kite"])
}

func TestNormalizeListStableTies(t *testing.T) {
	a := types.ScoreEntry{Score: 10, PlayerName: "a", Date: day}
	b := types.ScoreEntry{Score: 10, PlayerName: "b", Date: day}
	c := types.ScoreEntry{Score: 10, PlayerName: "c", Date: day.Add(-time.Hour)}

	got := NormalizeList([]types.ScoreEntry{a, b, c}, "rose", "easy", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].PlayerName, "earlier date first")
	assert.Equal(t, "a", got[1].PlayerName, "equal keys keep input order")
	assert.Equal(t, "b", got[2].PlayerName)

	assert.NotNil(t, NormalizeList(nil, "rose", "easy", 10))
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
