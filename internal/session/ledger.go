package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

// Ledger keeps the ranked, bounded score lists inside a document's high
// score mapping. It writes through to the mapping it was built on.
type Ledger struct {
	scores types.HighScores
	limit  int
}

// NewLedger returns a ledger over scores with lists bounded at limit.
// A non-positive limit uses types.DefaultHighScoreLimit.
func NewLedger(scores types.HighScores, limit int) *Ledger {
	if limit <= 0 {
		limit = types.DefaultHighScoreLimit
	}
	return &Ledger{scores: scores, limit: limit}
}

// Limit returns the list bound.
func (l *Ledger) Limit() int { return l.limit }

// AddScore inserts e into the list for (game, character, difficulty) and
// returns its 1-based rank, or 0 if it did not make the cut. Entries rank by
// score descending then date ascending; an entry equal to an existing one
// goes after it. Lists for unseen keys are created on first insert.
//
// e.Character and e.Difficulty are filled from the key when empty and must
// match it otherwise.
func (l *Ledger) AddScore(game, character, difficulty string, e types.ScoreEntry) (int, error) {
	if game == "" || character == "" || difficulty == "" {
		return 0, fmt.Errorf("%w: empty key %q/%q/%q", types.ErrInvalidScore, game, character, difficulty)
	}
	if e.Score < 0 {
		return 0, fmt.Errorf("%w: negative score %d", types.ErrInvalidScore, e.Score)
	}
	if e.Character == "" {
		e.Character = character
	}
	if e.Difficulty == "" {
		e.Difficulty = difficulty
	}
	if e.Character != character || e.Difficulty != difficulty {
		return 0, fmt.Errorf("%w: entry for %s/%s filed under %s/%s",
			types.ErrInvalidScore, e.Character, e.Difficulty, character, difficulty)
	}

	list := l.scores.List(game, character, difficulty)
	i := rankIndex(list, e)
	if i >= l.limit {
		return 0, nil
	}

	next := make([]types.ScoreEntry, 0, min(len(list)+1, l.limit))
	next = append(next, list[:i]...)
	next = append(next, e)
	next = append(next, list[i:]...)
	if len(next) > l.limit {
		next = next[:l.limit]
	}
	l.scores.Put(game, character, difficulty, next)
	return i + 1, nil
}

// rankIndex returns the position e would take in list.
func rankIndex(list []types.ScoreEntry, e types.ScoreEntry) int {
	return sort.Search(len(list), func(i int) bool { return e.RanksBefore(list[i]) })
}

// TopScores returns a copy of the list for a key, highest first. Unseen keys
// return an empty list.
func (l *Ledger) TopScores(game, character, difficulty string) []types.ScoreEntry {
	return append([]types.ScoreEntry{}, l.scores.List(game, character, difficulty)...)
}

// Qualifies reports whether a score achieved at the given time would place.
func (l *Ledger) Qualifies(game, character, difficulty string, score int, at time.Time) bool {
	if score < 0 {
		return false
	}
	list := l.scores.List(game, character, difficulty)
	return rankIndex(list, types.ScoreEntry{Score: score, Date: at}) < l.limit
}

// Best returns the top entry for a key.
func (l *Ledger) Best(game, character, difficulty string) (types.ScoreEntry, bool) {
	list := l.scores.List(game, character, difficulty)
	if len(list) == 0 {
		return types.ScoreEntry{}, false
	}
	return list[0], true
}
