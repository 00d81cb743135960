package session

import (
	"time"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

// Stats summarises a document for achievement checks.
type Stats struct {
	Scores        int
	BestScore     int
	GamesPlayed   int
	CatalogGames  int
	UnlockedGames int
	Playtime      time.Duration
}

// StatsOf derives Stats from doc.
func StatsOf(doc types.SaveDocument, c types.Catalog) Stats {
	st := Stats{
		CatalogGames: len(c.Games),
		Playtime:     time.Duration(doc.Player.PlaytimeSeconds * float64(time.Second)),
	}
	for game, byChar := range doc.HighScores {
		played := false
		for _, byDiff := range byChar {
			for _, list := range byDiff {
				st.Scores += len(list)
				if len(list) > 0 {
					played = true
					st.BestScore = max(st.BestScore, list[0].Score)
				}
			}
		}
		if played && c.HasGame(game) {
			st.GamesPlayed++
		}
	}
	for _, game := range c.Games {
		if doc.Progress.Minigames[game] {
			st.UnlockedGames++
		}
	}
	return st
}

// Achievement is one unlockable award.
type Achievement interface {
	ID() string
	Title() string
	Unlocked(st Stats) bool
}

type firstSteps struct{}

func (firstSteps) ID() string             { return "first_steps" }
func (firstSteps) Title() string          { return "First Steps" }
func (firstSteps) Unlocked(st Stats) bool { return st.Scores > 0 }

type highRoller struct{ threshold int }

func (highRoller) ID() string               { return "high_roller" }
func (highRoller) Title() string            { return "High Roller" }
func (a highRoller) Unlocked(st Stats) bool { return st.BestScore >= a.threshold }

type explorer struct{}

func (explorer) ID() string    { return "explorer" }
func (explorer) Title() string { return "Explorer" }
func (explorer) Unlocked(st Stats) bool {
	return st.CatalogGames > 0 && st.GamesPlayed >= st.CatalogGames
}

type marathon struct{ playtime time.Duration }

func (marathon) ID() string               { return "marathon" }
func (marathon) Title() string            { return "Marathon" }
func (a marathon) Unlocked(st Stats) bool { return st.Playtime >= a.playtime }

// Registry is the fixed set of achievements, in display order.
var Registry = []Achievement{
	firstSteps{},
	highRoller{threshold: 1000},
	explorer{},
	marathon{playtime: time.Hour},
}

// Lookup returns the registered achievement with id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range Registry {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}
