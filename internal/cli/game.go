package cli

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/funfair/internal/archive"
	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/internal/store"
)

// game bundles the persistence pieces a command needs. Close releases them.
type game struct {
	store   *store.File
	session *session.Session
	archive *archive.Archive
}

// openGame opens the save store and, when enabled, the score archive, then
// loads the session. An unavailable archive is logged and skipped.
func openGame(s settings, log zerolog.Logger) *game {
	g := &game{store: store.NewFile(s.SaveDir, store.WithLogger(log))}

	opts := []session.Option{
		session.WithLogger(log),
		session.WithHighScoreLimit(s.HighScoreLimit),
		session.WithAutosaveInterval(s.AutosaveInterval),
	}
	if s.History {
		arc, err := archive.Open(s.historyPath(), archive.WithLogger(log))
		if err != nil {
			log.Warn().Err(err).Msg("score history unavailable")
		} else {
			g.archive = arc
			opts = append(opts, session.WithScoreRecorder(arc))
		}
	}

	g.session = session.New(g.store, opts...)
	g.session.Load()
	if g.archive != nil {
		g.archive.SetProfile(g.session.ProfileID())
	}
	return g
}

// Close closes the archive, if open.
func (g *game) Close() error {
	if g.archive == nil {
		return nil
	}
	return g.archive.Close()
}
