// Package migrate upgrades save documents of any earlier schema version to
// the current SaveDocument.
//
// The pipeline is an ordered chain of typed, pure transforms. The result is
// merged onto the default document, so members a document lacks take their
// defaults and members this release does not know are carried through. A
// failing transform yields the default document, never a partial one.
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"github.com/mesh-intelligence/funfair/internal/jsonx"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

const versionKey = "schema_version"

// Migration input errors.
var (
	ErrNotObject      = errors.New("document is not a JSON object")
	ErrInvalidVersion = errors.New("schema_version is not a semantic version")
)

// Migrator converts raw documents to the current schema.
type Migrator struct {
	catalog types.Catalog
	limit   int
	log     zerolog.Logger
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithCatalog sets the catalog whose score lists every document must carry.
func WithCatalog(c types.Catalog) Option {
	return func(m *Migrator) { m.catalog = c }
}

// WithLimit sets the score list bound applied during normalisation.
func WithLimit(n int) Option {
	return func(m *Migrator) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Migrator) { m.log = l }
}

// New returns a Migrator for the default catalog and score bound.
func New(opts ...Option) *Migrator {
	m := &Migrator{
		catalog: types.DefaultCatalog(),
		limit:   types.DefaultHighScoreLimit,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Defaults returns the default document for the migrator's catalog.
func (m *Migrator) Defaults() types.SaveDocument {
	return types.DefaultsFor(m.catalog)
}

// Migrate converts raw to the current schema. On failure it returns the
// default document and an error wrapping ErrMigrationFailed.
func (m *Migrator) Migrate(raw []byte) (types.SaveDocument, error) {
	doc, err := m.migrate(raw)
	if err != nil {
		return m.Defaults(), fmt.Errorf("%w: %w", types.ErrMigrationFailed, err)
	}
	return doc, nil
}

func (m *Migrator) migrate(raw []byte) (doc types.SaveDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panicked: %v", r)
		}
	}()

	if !jsonx.IsObject(raw) {
		return types.SaveDocument{}, ErrNotObject
	}
	version, err := DetectVersion(raw)
	if err != nil {
		return types.SaveDocument{}, err
	}

	base := m.Defaults()
	switch {
	case semver.Compare(version, semverOf(types.SchemaV1)) < 0:
		d0, err := decodeV0(raw, base)
		if err != nil {
			return types.SaveDocument{}, fmt.Errorf("decoding %s document: %w", types.SchemaV0, err)
		}
		d1, err := upgradeV0(d0)
		if err != nil {
			return types.SaveDocument{}, m.stepError(0, err)
		}
		m.logStep(0)
		if doc, err = upgradeV1(d1, m.catalog); err != nil {
			return types.SaveDocument{}, m.stepError(1, err)
		}
		m.logStep(1)
	case semver.Compare(version, semverOf(types.SchemaV2)) < 0:
		d1, err := decodeV1(raw, base)
		if err != nil {
			return types.SaveDocument{}, fmt.Errorf("decoding %s document: %w", types.SchemaV1, err)
		}
		if doc, err = upgradeV1(d1, m.catalog); err != nil {
			return types.SaveDocument{}, m.stepError(1, err)
		}
		m.logStep(1)
	default:
		if semver.Compare(version, semverOf(types.CurrentSchemaVersion)) > 0 {
			m.log.Warn().Str("version", strings.TrimPrefix(version, "v")).Msg("save written by a newer release, loading as current")
		}
		if doc, err = decodeCurrent(raw, base); err != nil {
			return types.SaveDocument{}, fmt.Errorf("decoding %s document: %w", types.CurrentSchemaVersion, err)
		}
	}

	if err := m.normalize(&doc); err != nil {
		return types.SaveDocument{}, err
	}
	return doc, nil
}

func (m *Migrator) stepError(i int, err error) error {
	return fmt.Errorf("%s -> %s: %w", Steps[i].From, Steps[i].To, err)
}

func (m *Migrator) logStep(i int) {
	m.log.Info().Str("from", Steps[i].From).Str("to", Steps[i].To).Msg(Steps[i].Summary)
}

// normalize brings a decoded document to its canonical current shape. It is
// idempotent. Score lists holding a negative score are rejected.
func (m *Migrator) normalize(doc *types.SaveDocument) error {
	defaults := m.Defaults()
	doc.SchemaVersion = types.CurrentSchemaVersion

	if doc.Achievements == nil {
		doc.Achievements = map[string]bool{}
	}
	if doc.Progress.Flags == nil {
		doc.Progress.Flags = defaults.Progress.Flags
	}
	if doc.Progress.Minigames == nil {
		doc.Progress.Minigames = map[string]bool{}
	}
	for game, unlocked := range defaults.Progress.Minigames {
		if _, ok := doc.Progress.Minigames[game]; !ok {
			doc.Progress.Minigames[game] = unlocked
		}
	}
	if doc.Settings.KeyBindings == nil {
		doc.Settings.KeyBindings = defaults.Settings.KeyBindings
	}
	doc.Settings.MasterVolume = clampVolume(doc.Settings.MasterVolume)
	doc.Settings.MusicVolume = clampVolume(doc.Settings.MusicVolume)
	doc.Settings.SFXVolume = clampVolume(doc.Settings.SFXVolume)
	if doc.Player.PlaytimeSeconds < 0 || math.IsNaN(doc.Player.PlaytimeSeconds) {
		doc.Player.PlaytimeSeconds = 0
	}

	if doc.HighScores == nil {
		doc.HighScores = types.HighScores{}
	}
	for game, byChar := range doc.HighScores {
		if byChar == nil {
			delete(doc.HighScores, game)
			continue
		}
		for char, byDiff := range byChar {
			if byDiff == nil {
				delete(byChar, char)
				continue
			}
			for diff, list := range byDiff {
				for i, e := range list {
					if e.Score < 0 {
						return fmt.Errorf("%w: %s/%s/%s[%d]: negative score %d", errMalformedEntry, game, char, diff, i, e.Score)
					}
				}
				byDiff[diff] = NormalizeList(list, char, diff, m.limit)
			}
		}
	}
	doc.HighScores.Ensure(m.catalog)
	doc.PruneExtra()
	return nil
}

// NormalizeList returns list ordered by rank, bounded to limit, with entry
// character and difficulty filled from the list key when empty. A nil list
// becomes empty.
func NormalizeList(list []types.ScoreEntry, character, difficulty string, limit int) []types.ScoreEntry {
	out := make([]types.ScoreEntry, 0, len(list))
	for _, e := range list {
		if e.Character == "" {
			e.Character = character
		}
		if e.Difficulty == "" {
			e.Difficulty = difficulty
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b types.ScoreEntry) int {
		switch {
		case a.RanksBefore(b):
			return -1
		case b.RanksBefore(a):
			return 1
		default:
			return 0
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clampVolume(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DetectVersion returns the canonical semantic version ("vX.Y.Z") declared by
// raw. A missing, null or blank schema_version is the oldest known version.
// Pre-release and build suffixes are ignored.
func DetectVersion(raw []byte) (string, error) {
	s, ok := jsonx.String(raw, versionKey)
	if !ok {
		var field struct {
			Version json.RawMessage `json:"schema_version"`
		}
		if err := json.Unmarshal(raw, &field); err != nil {
			return "", err
		}
		if len(field.Version) == 0 || string(field.Version) == "null" {
			return semverOf(types.SchemaV0), nil
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidVersion, field.Version)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return semverOf(types.SchemaV0), nil
	}
	v := semverOf(s)
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	canon := semver.Canonical(v)
	if pre := semver.Prerelease(canon); pre != "" {
		canon = strings.TrimSuffix(canon, pre)
	}
	return canon, nil
}

func semverOf(s string) string {
	if strings.HasPrefix(s, "v") {
		return s
	}
	return "v" + s
}

// Encode serialises doc as indented JSON, the on-disk save format.
func Encode(doc types.SaveDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
