package scenes

import (
	"time"

	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// TitleScene greets the player.
type TitleScene struct {
	session *session.Session
	notice  string
}

// NewTitle returns the title scene.
func NewTitle(s *session.Session) *TitleScene {
	return &TitleScene{session: s}
}

func (t *TitleScene) OnEnter(string, types.Bag) { t.notice = "" }

func (t *TitleScene) OnExit() types.Bag {
	t.session.SetFlag(types.FlagSeenIntro, true)
	return nil
}

func (t *TitleScene) HandleInput(in types.Input) types.Request {
	switch in.Action {
	case "start":
		return types.Change(Entry(t.session), nil)
	case "new":
		return types.Change(CharSelect, nil)
	default:
		t.notice = unknown(in)
		return types.Stay
	}
}

func (t *TitleScene) Update(time.Duration) types.Request { return types.Stay }

func (t *TitleScene) Render(s types.Surface) {
	s.DrawText("== FUNFAIR ==")
	if t.session.Flag(types.FlagSeenIntro) {
		s.DrawText("Welcome back, " + t.session.PlayerName() + "!")
	}
	s.DrawText("start    continue to the fair")
	s.DrawText("new      pick a character")
	s.DrawText("quit     leave")
	if t.notice != "" {
		s.DrawText(t.notice)
	}
}
