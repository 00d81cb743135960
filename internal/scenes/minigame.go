package scenes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// MinigameScene is the shell around one minigame. The round ends when the
// player reports a score; the result goes back to the hub in the bag.
type MinigameScene struct {
	game       string
	session    *session.Session
	character  string
	difficulty string
	elapsed    time.Duration
	result     types.Bag
	notice     string
}

// NewMinigame returns the shell for game.
func NewMinigame(game string, s *session.Session) *MinigameScene {
	return &MinigameScene{game: game, session: s}
}

func (g *MinigameScene) OnEnter(_ string, bag types.Bag) {
	g.character = bag.String(types.BagCharacter)
	if g.character == "" {
		g.character = g.session.SelectedCharacter()
	}
	g.difficulty = bag.String(types.BagDifficulty)
	if g.difficulty == "" {
		g.difficulty = types.DifficultyNormal
	}
	g.elapsed = 0
	g.result = nil
	g.notice = ""
}

func (g *MinigameScene) OnExit() types.Bag {
	g.session.AddPlaytime(g.elapsed)
	out := g.result
	g.result = nil
	return out
}

func (g *MinigameScene) HandleInput(in types.Input) types.Request {
	switch in.Action {
	case "score":
		n, err := strconv.Atoi(in.Arg(0))
		if err != nil || n < 0 {
			g.notice = "score needs a whole number of points"
			return types.Stay
		}
		return g.finish(n)
	case "pause":
		return types.Push(Pause, types.Bag{types.BagGame: g.game})
	case "forfeit":
		return types.Change(Hub, types.Bag{types.BagNotice: "Round abandoned."})
	default:
		g.notice = unknown(in)
		return types.Stay
	}
}

func (g *MinigameScene) finish(score int) types.Request {
	entry := types.ScoreEntry{
		Score:          score,
		ElapsedSeconds: g.elapsed.Seconds(),
	}
	rank, err := g.session.AddScore(g.game, g.character, g.difficulty, entry)
	if err != nil {
		g.notice = err.Error()
		return types.Stay
	}
	g.result = types.Bag{
		types.BagGame:      g.game,
		types.BagLastScore: score,
		types.BagRank:      rank,
	}
	if ids := g.session.EvaluateAchievements(); len(ids) > 0 {
		titles := make([]string, 0, len(ids))
		for _, id := range ids {
			if a, ok := session.Lookup(id); ok {
				titles = append(titles, a.Title())
			}
		}
		g.result[types.BagNotice] = "Achievement unlocked: " + strings.Join(titles, ", ")
	}
	return types.Change(Hub, nil)
}

func (g *MinigameScene) Update(dt time.Duration) types.Request {
	g.elapsed += dt
	return types.Stay
}

func (g *MinigameScene) Render(s types.Surface) {
	s.DrawText(fmt.Sprintf("== %s (%s, %s) ==", g.game, g.character, g.difficulty))
	if best, ok := g.session.Ledger().Best(g.game, g.character, g.difficulty); ok {
		s.DrawText(fmt.Sprintf("Best: %d by %s", best.Score, best.PlayerName))
	}
	s.DrawText("score <points>   pause   forfeit")
	if g.notice != "" {
		s.DrawText(g.notice)
	}
}
