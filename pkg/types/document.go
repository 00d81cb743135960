// Save document entity: the single persisted root of player progress.
package types

import (
	"encoding/json"
	"maps"
	"reflect"
	"time"

	"github.com/mesh-intelligence/funfair/internal/jsonx"
)

// Schema versions, oldest first. A document with no schema_version is treated
// as SchemaV0.
const (
	SchemaV0 = "0.1.0"
	SchemaV1 = "1.0.0"
	SchemaV2 = "2.0.0"

	CurrentSchemaVersion = SchemaV2
)

// Default settings values.
const (
	DefaultMasterVolume = 0.8
	DefaultMusicVolume  = 0.6
	DefaultSFXVolume    = 0.8
	DefaultPlayerName   = "Player"
)

// Progress flag names set by the shipped scenes.
const (
	FlagSeenIntro        = "seen_intro"
	FlagTutorialComplete = "tutorial_complete"
)

// SaveDocument is the root persisted entity. Members not known to this release
// are kept in Extra and written back unchanged.
type SaveDocument struct {
	SchemaVersion string          `json:"schema_version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Player        Player          `json:"player"`
	Settings      Settings        `json:"settings"`
	Progress      Progress        `json:"progress"`
	Achievements  map[string]bool `json:"achievements"`
	HighScores    HighScores      `json:"high_scores"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Player holds identity and cumulative play data.
type Player struct {
	ProfileID         string  `json:"profile_id"`
	Name              string  `json:"name"`
	SelectedCharacter string  `json:"selected_character"`
	PlaytimeSeconds   float64 `json:"playtime_seconds"`
}

// Settings holds audio, display, and input preferences. Members not known to
// this release are kept in Extra.
type Settings struct {
	MasterVolume float64           `json:"master_volume"`
	MusicVolume  float64           `json:"music_volume"`
	SFXVolume    float64           `json:"sfx_volume"`
	Fullscreen   bool              `json:"fullscreen"`
	KeyBindings  map[string]string `json:"key_bindings"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Progress holds feature flags and minigame unlocks.
type Progress struct {
	Flags     map[string]bool `json:"flags"`
	Minigames map[string]bool `json:"minigames"`
}

// HighScores maps game -> character -> difficulty -> entries, highest first.
type HighScores map[string]map[string]map[string][]ScoreEntry

// DefaultKeyBindings returns the action to key mapping for a new profile.
func DefaultKeyBindings() map[string]string {
	return map[string]string{
		"up":     "w",
		"down":   "s",
		"left":   "a",
		"right":  "d",
		"action": "space",
		"pause":  "escape",
	}
}

// Defaults returns a new document for the default catalog. Timestamps and the
// profile id are left zero; the session stamps them when it adopts the document.
func Defaults() SaveDocument {
	return DefaultsFor(DefaultCatalog())
}

// DefaultsFor returns a new document with an empty score list for every game,
// character, and difficulty in c, and only the first game unlocked.
func DefaultsFor(c Catalog) SaveDocument {
	doc := SaveDocument{
		SchemaVersion: CurrentSchemaVersion,
		Player: Player{
			Name: DefaultPlayerName,
		},
		Settings: Settings{
			MasterVolume: DefaultMasterVolume,
			MusicVolume:  DefaultMusicVolume,
			SFXVolume:    DefaultSFXVolume,
			KeyBindings:  DefaultKeyBindings(),
		},
		Progress: Progress{
			Flags: map[string]bool{
				FlagSeenIntro:        false,
				FlagTutorialComplete: false,
			},
			Minigames: make(map[string]bool, len(c.Games)),
		},
		Achievements: map[string]bool{},
		HighScores:   HighScores{},
	}
	for i, game := range c.Games {
		doc.Progress.Minigames[game] = i == 0
	}
	doc.HighScores.Ensure(c)
	return doc
}

// Ensure creates an empty list for every catalog key that has none.
func (h HighScores) Ensure(c Catalog) {
	for _, game := range c.Games {
		byChar := h[game]
		if byChar == nil {
			byChar = make(map[string]map[string][]ScoreEntry, len(c.Characters))
			h[game] = byChar
		}
		for _, char := range c.Characters {
			byDiff := byChar[char]
			if byDiff == nil {
				byDiff = make(map[string][]ScoreEntry, len(c.Difficulties))
				byChar[char] = byDiff
			}
			for _, diff := range c.Difficulties {
				if byDiff[diff] == nil {
					byDiff[diff] = []ScoreEntry{}
				}
			}
		}
	}
}

// List returns the stored list for a key, or nil if the key is unseen.
func (h HighScores) List(game, character, difficulty string) []ScoreEntry {
	return h[game][character][difficulty]
}

// Put stores list under a key, creating intermediate maps as needed.
func (h HighScores) Put(game, character, difficulty string, list []ScoreEntry) {
	byChar := h[game]
	if byChar == nil {
		byChar = make(map[string]map[string][]ScoreEntry)
		h[game] = byChar
	}
	byDiff := byChar[character]
	if byDiff == nil {
		byDiff = make(map[string][]ScoreEntry)
		byChar[character] = byDiff
	}
	byDiff[difficulty] = list
}

// Clone returns a deep copy of h.
func (h HighScores) Clone() HighScores {
	if h == nil {
		return nil
	}
	out := make(HighScores, len(h))
	for game, byChar := range h {
		if byChar == nil {
			out[game] = nil
			continue
		}
		chars := make(map[string]map[string][]ScoreEntry, len(byChar))
		for char, byDiff := range byChar {
			if byDiff == nil {
				chars[char] = nil
				continue
			}
			diffs := make(map[string][]ScoreEntry, len(byDiff))
			for diff, list := range byDiff {
				if list == nil {
					diffs[diff] = nil
					continue
				}
				diffs[diff] = append([]ScoreEntry{}, list...)
			}
			chars[char] = diffs
		}
		out[game] = chars
	}
	return out
}

// Clone returns a deep copy of d.
func (d SaveDocument) Clone() SaveDocument {
	out := d
	out.Settings = d.Settings.Clone()
	out.Progress = Progress{
		Flags:     maps.Clone(d.Progress.Flags),
		Minigames: maps.Clone(d.Progress.Minigames),
	}
	out.Achievements = maps.Clone(d.Achievements)
	out.HighScores = d.HighScores.Clone()
	out.Extra = cloneRaw(d.Extra)
	return out
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.KeyBindings = maps.Clone(s.KeyBindings)
	out.Extra = cloneRaw(s.Extra)
	return out
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// documentFields and settingsFields have the same layout as their public
// types but no JSON methods, so encoding/json handles the typed members.
type (
	documentFields SaveDocument
	settingsFields Settings
)

var (
	documentKeys = jsonx.KnownFields(reflect.TypeOf(documentFields{}))
	settingsKeys = jsonx.KnownFields(reflect.TypeOf(settingsFields{}))
)

// MarshalJSON encodes the typed members and then any preserved extras.
func (d SaveDocument) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(documentFields(d))
	if err != nil {
		return nil, err
	}
	return jsonx.WithUnknown(data, d.Extra)
}

// UnmarshalJSON decodes onto the existing value, so members absent from data
// keep whatever d already held. Unknown members are added to Extra.
func (d *SaveDocument) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*documentFields)(d)); err != nil {
		return err
	}
	d.Extra = mergeRaw(d.Extra, jsonx.Unknown(data, documentKeys))
	return nil
}

// MarshalJSON encodes the typed members and then any preserved extras.
func (s Settings) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(settingsFields(s))
	if err != nil {
		return nil, err
	}
	return jsonx.WithUnknown(data, s.Extra)
}

// UnmarshalJSON decodes onto the existing value; see SaveDocument.UnmarshalJSON.
func (s *Settings) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*settingsFields)(s)); err != nil {
		return err
	}
	s.Extra = mergeRaw(s.Extra, jsonx.Unknown(data, settingsKeys))
	return nil
}

func mergeRaw(dst, src map[string]json.RawMessage) map[string]json.RawMessage {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		return src
	}
	maps.Copy(dst, src)
	return dst
}

// PruneExtra drops preserved members whose names collide with typed members,
// which happens when a legacy document carried a member a later schema adopted.
// Empty extras are normalised to nil.
func (d *SaveDocument) PruneExtra() {
	d.Extra = pruneRaw(d.Extra, documentKeys)
	d.Settings.Extra = pruneRaw(d.Settings.Extra, settingsKeys)
}

func pruneRaw(m map[string]json.RawMessage, known map[string]bool) map[string]json.RawMessage {
	for k := range m {
		if known[k] {
			delete(m, k)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
