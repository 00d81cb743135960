package scenes

import (
	"errors"
	"strings"
	"time"

	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// CharSelectScene lets the player pick a character and name.
type CharSelectScene struct {
	session *session.Session
	picked  string
	notice  string
}

// NewCharSelect returns the character select scene.
func NewCharSelect(s *session.Session) *CharSelectScene {
	return &CharSelectScene{session: s}
}

func (c *CharSelectScene) OnEnter(string, types.Bag) {
	c.picked = ""
	c.notice = ""
}

func (c *CharSelectScene) OnExit() types.Bag {
	if c.picked == "" {
		return nil
	}
	return types.Bag{types.BagCharacter: c.picked}
}

func (c *CharSelectScene) HandleInput(in types.Input) types.Request {
	switch in.Action {
	case "pick":
		id := in.Arg(0)
		if err := c.session.SelectCharacter(id); err != nil {
			if errors.Is(err, types.ErrUnknownCharacter) {
				c.notice = "No such character: " + id
			} else {
				c.notice = err.Error()
			}
			return types.Stay
		}
		c.picked = id
		return types.Change(Hub, nil)
	case "name":
		if name := strings.Join(in.Args, " "); name != "" {
			c.session.SetPlayerName(name)
			c.notice = "Hello, " + name + "!"
		}
		return types.Stay
	case "back":
		return types.Change(Title, nil)
	default:
		c.notice = unknown(in)
		return types.Stay
	}
}

func (c *CharSelectScene) Update(time.Duration) types.Request { return types.Stay }

func (c *CharSelectScene) Render(s types.Surface) {
	s.DrawText("== Choose your character ==")
	current := c.session.SelectedCharacter()
	for _, id := range c.session.Catalog().Characters {
		mark := "  "
		if id == current {
			mark = "* "
		}
		s.DrawText(mark + id)
	}
	s.DrawText("pick <character>   name <your name>   back")
	if c.notice != "" {
		s.DrawText(c.notice)
	}
}
