// Package session is the SaveManager facade: it owns the in-memory save
// document, exposes typed accessors to gameplay code, and talks to the save
// store and migrator only at load, save, and checkpoint points.
//
// A Session is used from the game loop goroutine only. Setters never write
// to disk; persistence failures are returned as values and recorded for a
// non-blocking notice, never raised as fatal errors.
package session

import (
	"errors"
	"maps"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/funfair/internal/migrate"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// UnlockScore is the score that unlocks the next minigame in the catalog.
const UnlockScore = 1000

// Reason names why a save happened.
type Reason string

// Save reasons.
const (
	ReasonExplicit  Reason = "explicit"
	ReasonSceneExit Reason = "scene_exit"
	ReasonInterval  Reason = "interval"
	ReasonShutdown  Reason = "shutdown"
)

// Load sources.
const (
	SourceDefaults = "defaults"
	SourceStore    = "store"
	SourceBackup   = "backup"
)

// SaveStatus describes the most recent save attempt.
type SaveStatus struct {
	At     time.Time
	Reason Reason
	Err    error
}

// OK reports whether the save succeeded.
func (s SaveStatus) OK() bool { return s.Err == nil }

// LoadStatus describes how the current document was obtained.
type LoadStatus struct {
	Source string
	Err    error
}

// ScoreRecorder receives every score the ledger accepts or rejects for
// rank, e.g. to keep an all-time history.
type ScoreRecorder interface {
	RecordScore(game string, e types.ScoreEntry) error
}

// Session holds the save document for one running game.
type Session struct {
	store    types.SaveStore
	migrator *migrate.Migrator
	catalog  types.Catalog
	limit    int
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
	recorder ScoreRecorder

	autosave  time.Duration
	sinceSave time.Duration

	doc      types.SaveDocument
	ledger   *Ledger
	loaded   bool
	dirty    bool
	lastSave SaveStatus
	lastLoad LoadStatus
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithCatalog sets the catalog of games, characters, and difficulties.
func WithCatalog(c types.Catalog) Option {
	return func(s *Session) { s.catalog = c }
}

// WithHighScoreLimit sets the score list bound.
func WithHighScoreLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithAutosaveInterval sets the interval checkpoint period. Zero disables it.
func WithAutosaveInterval(d time.Duration) Option {
	return func(s *Session) { s.autosave = d }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator sets the profile id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) { s.newID = gen }
}

// WithScoreRecorder sets a recorder notified of every submitted score.
func WithScoreRecorder(r ScoreRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// New returns a Session over store. Call Load before using accessors.
func New(store types.SaveStore, opts ...Option) *Session {
	s := &Session{
		store:    store,
		catalog:  types.DefaultCatalog(),
		limit:    types.DefaultHighScoreLimit,
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    generateUUID,
		autosave: types.DefaultAutosaveInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.migrator = migrate.New(
		migrate.WithCatalog(s.catalog),
		migrate.WithLimit(s.limit),
		migrate.WithLogger(s.log),
	)
	s.doc = s.migrator.Defaults()
	s.ledger = NewLedger(s.doc.HighScores, s.limit)
	return s
}

// generateUUID generates a new UUID v7 for profile ids.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Load reads the stored document and makes it current. Missing or corrupt
// saves and failed migrations all yield the default document; the outcome is
// available from LastLoad. The returned document is a copy.
func (s *Session) Load() types.SaveDocument {
	raw, err := s.store.Read()
	switch {
	case errors.Is(err, types.ErrNotFound):
		s.log.Info().Msg("no save found, starting fresh")
		s.adopt(s.migrator.Defaults())
		s.lastLoad = LoadStatus{Source: SourceDefaults}
	case err != nil:
		s.log.Warn().Err(err).Msg("save unreadable, starting fresh")
		s.adopt(s.migrator.Defaults())
		s.lastLoad = LoadStatus{Source: SourceDefaults, Err: err}
	default:
		doc, merr := s.migrator.Migrate(raw.Data)
		if merr != nil {
			s.log.Error().Err(merr).Msg("save could not be migrated, starting fresh")
		}
		s.adopt(doc)
		source := SourceStore
		if raw.Origin == types.OriginBackup {
			source = SourceBackup
		}
		if merr != nil {
			source = SourceDefaults
		}
		s.lastLoad = LoadStatus{Source: source, Err: merr}
		if source == SourceBackup {
			// Rewrite the primary from the recovered copy at the next checkpoint.
			s.dirty = true
		}
	}
	s.loaded = true
	s.sinceSave = 0
	return s.doc.Clone()
}

// adopt makes doc current, stamping creation time and profile id when missing.
func (s *Session) adopt(doc types.SaveDocument) {
	s.dirty = false
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now().UTC()
		s.dirty = true
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	if doc.Player.ProfileID == "" {
		doc.Player.ProfileID = s.newID()
		s.dirty = true
	}
	if doc.HighScores == nil {
		doc.HighScores = types.HighScores{}
	}
	s.doc = doc
	s.ledger = NewLedger(s.doc.HighScores, s.limit)
}

// Loaded reports whether Load has run.
func (s *Session) Loaded() bool { return s.loaded }

// LastLoad returns how the current document was obtained.
func (s *Session) LastLoad() LoadStatus { return s.lastLoad }

// LastSave returns the most recent save attempt.
func (s *Session) LastSave() SaveStatus { return s.lastSave }

// Dirty reports whether the document changed since the last successful save.
func (s *Session) Dirty() bool { return s.dirty }

// Save writes the document now. It stamps updated_at, encodes, and hands the
// bytes to the store. A failure is returned and recorded; play continues and
// the next checkpoint retries.
func (s *Session) Save() error {
	return s.save(ReasonExplicit)
}

func (s *Session) save(reason Reason) error {
	now := s.now().UTC()
	s.doc.UpdatedAt = now
	s.sinceSave = 0

	data, err := migrate.Encode(s.doc)
	if err == nil {
		err = s.store.Write(data)
	}
	s.lastSave = SaveStatus{At: now, Reason: reason, Err: err}
	if err != nil {
		s.log.Warn().Err(err).Str("reason", string(reason)).Msg("save failed, progress kept in memory")
		return err
	}
	s.dirty = false
	s.log.Debug().Str("reason", string(reason)).Msg("saved")
	return nil
}

// Checkpoint saves if the document changed since the last successful save.
func (s *Session) Checkpoint(reason Reason) error {
	if !s.dirty {
		return nil
	}
	return s.save(reason)
}

// Tick advances the autosave timer by dt and runs an interval checkpoint when
// it expires.
func (s *Session) Tick(dt time.Duration) error {
	if s.autosave <= 0 {
		return nil
	}
	s.sinceSave += dt
	if s.sinceSave < s.autosave {
		return nil
	}
	s.sinceSave = 0
	return s.Checkpoint(ReasonInterval)
}

// Document returns a copy of the current document.
func (s *Session) Document() types.SaveDocument { return s.doc.Clone() }

// Catalog returns the session catalog.
func (s *Session) Catalog() types.Catalog { return s.catalog }

// ProfileID returns the player's profile id.
func (s *Session) ProfileID() string { return s.doc.Player.ProfileID }

// Settings returns a copy of the settings.
func (s *Session) Settings() types.Settings { return s.doc.Settings.Clone() }

// SetMasterVolume sets the master volume, clamped to 0..1.
func (s *Session) SetMasterVolume(v float64) {
	s.doc.Settings.MasterVolume = clamp01(v)
	s.dirty = true
}

// SetMusicVolume sets the music volume, clamped to 0..1.
func (s *Session) SetMusicVolume(v float64) {
	s.doc.Settings.MusicVolume = clamp01(v)
	s.dirty = true
}

// SetSFXVolume sets the sound effects volume, clamped to 0..1.
func (s *Session) SetSFXVolume(v float64) {
	s.doc.Settings.SFXVolume = clamp01(v)
	s.dirty = true
}

// SetFullscreen sets the fullscreen flag.
func (s *Session) SetFullscreen(on bool) {
	s.doc.Settings.Fullscreen = on
	s.dirty = true
}

// BindKey binds action to key. An empty key removes the binding.
func (s *Session) BindKey(action, key string) {
	if s.doc.Settings.KeyBindings == nil {
		s.doc.Settings.KeyBindings = map[string]string{}
	}
	if key == "" {
		delete(s.doc.Settings.KeyBindings, action)
	} else {
		s.doc.Settings.KeyBindings[action] = key
	}
	s.dirty = true
}

// Flag returns a progress flag.
func (s *Session) Flag(name string) bool { return s.doc.Progress.Flags[name] }

// SetFlag sets a progress flag.
func (s *Session) SetFlag(name string, v bool) {
	if s.doc.Progress.Flags == nil {
		s.doc.Progress.Flags = map[string]bool{}
	}
	s.doc.Progress.Flags[name] = v
	s.dirty = true
}

// IsUnlocked reports whether a minigame is unlocked.
func (s *Session) IsUnlocked(game string) bool { return s.doc.Progress.Minigames[game] }

// Unlock unlocks a catalog minigame.
func (s *Session) Unlock(game string) error {
	if !s.catalog.HasGame(game) {
		return types.ErrUnknownGame
	}
	if s.doc.Progress.Minigames == nil {
		s.doc.Progress.Minigames = map[string]bool{}
	}
	if !s.doc.Progress.Minigames[game] {
		s.doc.Progress.Minigames[game] = true
		s.dirty = true
	}
	return nil
}

// UnlockedGames returns the unlocked minigames in catalog order.
func (s *Session) UnlockedGames() []string {
	var out []string
	for _, game := range s.catalog.Games {
		if s.doc.Progress.Minigames[game] {
			out = append(out, game)
		}
	}
	return out
}

// SelectedCharacter returns the selected character id, or "".
func (s *Session) SelectedCharacter() string { return s.doc.Player.SelectedCharacter }

// SelectCharacter selects a catalog character.
func (s *Session) SelectCharacter(id string) error {
	if !s.catalog.HasCharacter(id) {
		return types.ErrUnknownCharacter
	}
	s.doc.Player.SelectedCharacter = id
	s.dirty = true
	return nil
}

// PlayerName returns the player's display name.
func (s *Session) PlayerName() string { return s.doc.Player.Name }

// SetPlayerName sets the player's display name. Empty names are ignored.
func (s *Session) SetPlayerName(name string) {
	if name == "" {
		return
	}
	s.doc.Player.Name = name
	s.dirty = true
}

// Playtime returns cumulative play time.
func (s *Session) Playtime() time.Duration {
	return time.Duration(s.doc.Player.PlaytimeSeconds * float64(time.Second))
}

// AddPlaytime adds d to cumulative play time.
func (s *Session) AddPlaytime(d time.Duration) {
	if d <= 0 {
		return
	}
	s.doc.Player.PlaytimeSeconds += d.Seconds()
	s.dirty = true
}

// Achievements returns a copy of the achievement map.
func (s *Session) Achievements() map[string]bool { return maps.Clone(s.doc.Achievements) }

// EvaluateAchievements unlocks every registered achievement whose condition
// now holds and returns the ids unlocked by this call.
func (s *Session) EvaluateAchievements() []string {
	st := StatsOf(s.doc, s.catalog)
	var unlocked []string
	for _, a := range Registry {
		if s.doc.Achievements[a.ID()] || !a.Unlocked(st) {
			continue
		}
		if s.doc.Achievements == nil {
			s.doc.Achievements = map[string]bool{}
		}
		s.doc.Achievements[a.ID()] = true
		unlocked = append(unlocked, a.ID())
		s.dirty = true
	}
	return unlocked
}

// Ledger returns the high score ledger over the current document.
func (s *Session) Ledger() *Ledger { return s.ledger }

// TopScores returns the ranked list for a key.
func (s *Session) TopScores(game, character, difficulty string) []types.ScoreEntry {
	return s.ledger.TopScores(game, character, difficulty)
}

// AddScore files a finished round. The entry date defaults to now and the
// player name to the profile name. It returns the 1-based rank, or 0 if the
// score did not place. A score of at least UnlockScore unlocks the next
// catalog minigame. The recorder, if any, sees every valid entry.
func (s *Session) AddScore(game, character, difficulty string, e types.ScoreEntry) (int, error) {
	if e.Date.IsZero() {
		e.Date = s.now().UTC()
	}
	if e.PlayerName == "" {
		e.PlayerName = s.doc.Player.Name
	}
	rank, err := s.ledger.AddScore(game, character, difficulty, e)
	if err != nil {
		return 0, err
	}
	if rank > 0 {
		s.dirty = true
	}
	if s.recorder != nil {
		if e.Character == "" {
			e.Character = character
		}
		if e.Difficulty == "" {
			e.Difficulty = difficulty
		}
		if rerr := s.recorder.RecordScore(game, e); rerr != nil {
			s.log.Warn().Err(rerr).Str("game", game).Msg("score history not recorded")
		}
	}
	if e.Score >= UnlockScore {
		if next := s.catalog.NextGame(game); next != "" && !s.IsUnlocked(next) {
			_ = s.Unlock(next)
			s.log.Info().Str("game", next).Msg("minigame unlocked")
		}
	}
	return rank, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
