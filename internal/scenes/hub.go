package scenes

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// HubScene is the fairground: it lists unlocked minigames and reports the
// last result handed over in the transition bag.
type HubScene struct {
	session *session.Session
	lines   []string
	notice  string
	playing types.Bag
}

// NewHub returns the hub scene.
func NewHub(s *session.Session) *HubScene {
	return &HubScene{session: s}
}

func (h *HubScene) OnEnter(previous string, bag types.Bag) {
	h.lines = h.lines[:0]
	h.notice = bag.String(types.BagNotice)
	h.playing = nil

	if char := bag.String(types.BagCharacter); char != "" && previous == CharSelect {
		h.lines = append(h.lines, "You are playing as "+char+".")
	}
	if score, ok := bag.Int(types.BagLastScore); ok {
		line := fmt.Sprintf("%s: you scored %d", bag.String(types.BagGame), score)
		if rank, ok := bag.Int(types.BagRank); ok && rank > 0 {
			line += fmt.Sprintf(", rank #%d!", rank)
		} else {
			line += "."
		}
		h.lines = append(h.lines, line)
	}
	if n := noticeFor(h.session); n != "" && h.notice == "" {
		h.notice = n
	}
}

func (h *HubScene) OnExit() types.Bag {
	out := h.playing
	h.playing = nil
	return out
}

func (h *HubScene) HandleInput(in types.Input) types.Request {
	h.notice = ""
	switch in.Action {
	case "play":
		return h.play(in.Arg(0), in.Arg(1))
	case "scores":
		h.showScores(in.Arg(0), in.Arg(1))
		return types.Stay
	case "save":
		h.notice = saveNotice(h.session)
		return types.Stay
	case "character":
		return types.Change(CharSelect, nil)
	case "title":
		return types.Change(Title, nil)
	default:
		h.notice = unknown(in)
		return types.Stay
	}
}

func (h *HubScene) play(game, difficulty string) types.Request {
	catalog := h.session.Catalog()
	if difficulty == "" {
		difficulty = types.DifficultyNormal
	}
	switch {
	case !catalog.HasGame(game):
		h.notice = "No such minigame: " + game
	case !h.session.IsUnlocked(game):
		h.notice = game + " is still locked."
	case !catalog.HasDifficulty(difficulty):
		h.notice = "No such difficulty: " + difficulty
	case h.session.SelectedCharacter() == "":
		return types.Change(CharSelect, nil)
	default:
		h.playing = types.Bag{
			types.BagGame:       game,
			types.BagDifficulty: difficulty,
			types.BagCharacter:  h.session.SelectedCharacter(),
		}
		return types.Change(game, nil)
	}
	return types.Stay
}

func (h *HubScene) showScores(game, difficulty string) {
	if difficulty == "" {
		difficulty = types.DifficultyNormal
	}
	char := h.session.SelectedCharacter()
	top := h.session.TopScores(game, char, difficulty)
	if len(top) == 0 {
		h.notice = fmt.Sprintf("No scores yet for %s/%s/%s.", game, char, difficulty)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Top scores %s/%s/%s:", game, char, difficulty)
	for i, e := range top {
		fmt.Fprintf(&b, "\n  %2d. %6d  %s", i+1, e.Score, e.PlayerName)
	}
	h.notice = b.String()
}

func (h *HubScene) Update(time.Duration) types.Request { return types.Stay }

func (h *HubScene) Render(s types.Surface) {
	s.DrawText("== Fairground ==")
	for _, l := range h.lines {
		s.DrawText(l)
	}
	for _, game := range h.session.Catalog().Games {
		state := "locked"
		if h.session.IsUnlocked(game) {
			state = "open"
		}
		s.DrawText(fmt.Sprintf("  %-10s %s", game, state))
	}
	s.DrawText("play <game> [difficulty]   scores <game> [difficulty]   save   character   title   quit")
	if h.notice != "" {
		s.DrawText(h.notice)
	}
}
