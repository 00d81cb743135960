// Package scenes holds the shipped text scenes: title, character select,
// hub, one shell per minigame, and the pause overlay. Each scene reads and
// writes player progress only through the injected session.
package scenes

import (
	"fmt"

	"github.com/mesh-intelligence/funfair/internal/scene"
	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// Scene names.
const (
	Title      = "title"
	CharSelect = "charselect"
	Hub        = "hub"
	Pause      = "pause"
)

// Register adds every shipped scene to m. Menu scenes are built now;
// minigame shells are built on first visit.
func Register(m *scene.Manager, s *session.Session) error {
	eager := []struct {
		name  string
		scene types.Scene
	}{
		{Title, NewTitle(s)},
		{CharSelect, NewCharSelect(s)},
		{Hub, NewHub(s)},
		{Pause, NewPause(s)},
	}
	for _, e := range eager {
		if err := m.RegisterScene(e.name, e.scene); err != nil {
			return err
		}
	}
	for _, game := range s.Catalog().Games {
		if err := m.Register(game, func() types.Scene { return NewMinigame(game, s) }); err != nil {
			return err
		}
	}
	return nil
}

// Entry returns the scene a session should start in when the title screen
// is skipped.
func Entry(s *session.Session) string {
	if s.SelectedCharacter() == "" {
		return CharSelect
	}
	return Hub
}

// saveNotice saves and returns a line describing the outcome.
func saveNotice(s *session.Session) string {
	if err := s.Save(); err != nil {
		return fmt.Sprintf("Could not save (%v). Progress is kept until the next save.", err)
	}
	return "Game saved."
}

// noticeFor describes a failed save, if the last one failed.
func noticeFor(s *session.Session) string {
	if st := s.LastSave(); !st.At.IsZero() && !st.OK() {
		return "Last save failed; your progress will be saved at the next checkpoint."
	}
	return ""
}

// unknown is the reply to an input a scene does not handle.
func unknown(in types.Input) string {
	return fmt.Sprintf("Unknown command %q.", in.Action)
}
