package types

import "time"

// ScoreEntry is one finished minigame round. Entries are immutable once
// appended to a ledger list.
type ScoreEntry struct {
	Score          int       `json:"score"`
	PlayerName     string    `json:"player_name"`
	Character      string    `json:"character"`
	Difficulty     string    `json:"difficulty"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Date           time.Time `json:"date"`
}

// RanksBefore reports whether e sorts strictly ahead of other: higher score
// first, then earlier date. Entries with equal score and date do not rank
// before each other, which keeps insertion stable.
func (e ScoreEntry) RanksBefore(other ScoreEntry) bool {
	if e.Score != other.Score {
		return e.Score > other.Score
	}
	return e.Date.Before(other.Date)
}
