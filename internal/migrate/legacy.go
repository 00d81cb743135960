package migrate

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/mesh-intelligence/funfair/internal/jsonx"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// docV0 is the 0.1.0 document: no achievements, and one flat score list per
// game with character and difficulty stored on each entry.
type docV0 struct {
	SchemaVersion string                        `json:"schema_version"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
	Player        types.Player                  `json:"player"`
	Settings      types.Settings                `json:"settings"`
	Progress      types.Progress                `json:"progress"`
	HighScores    map[string][]types.ScoreEntry `json:"high_scores"`

	Extra map[string]json.RawMessage `json:"-"`
}

// docV1 is the 1.0.0 document: docV0 plus achievements.
type docV1 struct {
	SchemaVersion string                        `json:"schema_version"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
	Player        types.Player                  `json:"player"`
	Settings      types.Settings                `json:"settings"`
	Progress      types.Progress                `json:"progress"`
	Achievements  map[string]bool               `json:"achievements"`
	HighScores    map[string][]types.ScoreEntry `json:"high_scores"`

	Extra map[string]json.RawMessage `json:"-"`
}

var (
	v0Keys = jsonx.KnownFields(reflect.TypeOf(docV0{}))
	v1Keys = jsonx.KnownFields(reflect.TypeOf(docV1{}))
)

// decodeV0 decodes raw onto the player, settings, and progress of base so
// absent members keep their defaults.
func decodeV0(raw []byte, base types.SaveDocument) (docV0, error) {
	d := docV0{
		Player:   base.Player,
		Settings: base.Settings,
		Progress: base.Progress,
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return docV0{}, err
	}
	d.Extra = jsonx.Unknown(raw, v0Keys)
	return d, nil
}

// decodeV1 decodes raw onto the defaults in base; see decodeV0.
func decodeV1(raw []byte, base types.SaveDocument) (docV1, error) {
	d := docV1{
		Player:       base.Player,
		Settings:     base.Settings,
		Progress:     base.Progress,
		Achievements: base.Achievements,
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return docV1{}, err
	}
	d.Extra = jsonx.Unknown(raw, v1Keys)
	return d, nil
}

// decodeCurrent decodes raw onto base.
func decodeCurrent(raw []byte, base types.SaveDocument) (types.SaveDocument, error) {
	doc := base
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.SaveDocument{}, err
	}
	return doc, nil
}
