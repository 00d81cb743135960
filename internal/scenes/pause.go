package scenes

import (
	"time"

	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// PauseScene is the overlay pushed over a running minigame.
type PauseScene struct {
	session *session.Session
	game    string
	notice  string
}

// NewPause returns the pause overlay.
func NewPause(s *session.Session) *PauseScene {
	return &PauseScene{session: s}
}

func (p *PauseScene) OnEnter(_ string, bag types.Bag) {
	p.game = bag.String(types.BagGame)
	p.notice = ""
}

func (p *PauseScene) OnExit() types.Bag { return nil }

func (p *PauseScene) HandleInput(in types.Input) types.Request {
	switch in.Action {
	case "resume":
		return types.Pop()
	case "save":
		p.notice = saveNotice(p.session)
		return types.Stay
	case "hub":
		return types.Change(Hub, types.Bag{types.BagNotice: "Round abandoned."})
	default:
		p.notice = unknown(in)
		return types.Stay
	}
}

func (p *PauseScene) Update(time.Duration) types.Request { return types.Stay }

func (p *PauseScene) Render(s types.Surface) {
	s.DrawText("-- paused: " + p.game + " --")
	s.DrawText("resume   save   hub")
	if p.notice != "" {
		s.DrawText(p.notice)
	}
}
