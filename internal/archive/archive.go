// Package archive keeps an append-only history of every finished round in a
// SQLite database next to the save file. The save document only holds the
// bounded top lists; the archive holds everything, for the scores history
// command. It is optional: the game plays the same without it.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

// timeLayout is fixed width so played_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrClosed is returned by operations on a closed archive.
var ErrClosed = errors.New("score archive is closed")

// Record is one archived round.
type Record struct {
	ID         string           `json:"id"`
	ProfileID  string           `json:"profile_id"`
	Game       string           `json:"game"`
	Character  string           `json:"character"`
	Difficulty string           `json:"difficulty"`
	Entry      types.ScoreEntry `json:"entry"`
}

// Filter selects records for History. Empty fields match everything. A
// Limit of zero returns every match.
type Filter struct {
	Game       string
	Character  string
	Difficulty string
	Since      time.Time
	Limit      int
}

// Archive is a SQLite-backed score history. It is safe for concurrent use.
type Archive struct {
	mu      sync.RWMutex
	db      *sql.DB
	profile string
	log     zerolog.Logger
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Archive) { a.log = l }
}

// WithProfile sets the profile id stamped on recorded rounds.
func WithProfile(id string) Option {
	return func(a *Archive) { a.profile = id }
}

// Open opens or creates the archive database at path and applies the schema.
func Open(path string, opts ...Option) (*Archive, error) {
	a := &Archive{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	// One connection keeps writes serialised inside database/sql.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying archive schema: %w", err)
		}
	}
	a.db = db
	a.log.Debug().Str("path", path).Msg("score archive opened")
	return a, nil
}

// SetProfile changes the profile id stamped on later records.
func (a *Archive) SetProfile(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = id
}

// RecordScore archives one round. It satisfies session.ScoreRecorder.
func (a *Archive) RecordScore(game string, e types.ScoreEntry) error {
	_, err := a.Record(context.Background(), game, e)
	return err
}

// Record archives one round and returns its id. The entry must carry its
// character and difficulty.
func (a *Archive) Record(ctx context.Context, game string, e types.ScoreEntry) (string, error) {
	if game == "" || e.Character == "" || e.Difficulty == "" || e.Score < 0 {
		return "", types.ErrInvalidScore
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.db == nil {
		return "", ErrClosed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	played := e.Date
	if played.IsZero() {
		played = time.Now()
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO scores (score_id, profile_id, game, character, difficulty, player_name, score, elapsed_seconds, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), a.profile, game, e.Character, e.Difficulty, e.PlayerName,
		e.Score, e.ElapsedSeconds, played.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("archiving score: %w", err)
	}
	return id.String(), nil
}

// History returns matching records, most recent first.
func (a *Archive) History(ctx context.Context, f Filter) ([]Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.db == nil {
		return nil, ErrClosed
	}

	where, args := f.clauses()
	query := `SELECT score_id, profile_id, game, character, difficulty, player_name, score, elapsed_seconds, played_at
		FROM scores` + where + ` ORDER BY played_at DESC, score_id DESC`
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying score history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := hydrateRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score history: %w", err)
	}
	return out, nil
}

// Count returns the number of matching records, ignoring Limit.
func (a *Archive) Count(ctx context.Context, f Filter) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.db == nil {
		return 0, ErrClosed
	}
	where, args := f.clauses()
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scores"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting score history: %w", err)
	}
	return n, nil
}

// Close closes the database. Closing twice is a no-op.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (f Filter) clauses() (string, []any) {
	var conds []string
	var args []any
	add := func(col, val string) {
		if val != "" {
			conds = append(conds, col+" = ?")
			args = append(args, val)
		}
	}
	add("game", f.Game)
	add("character", f.Character)
	add("difficulty", f.Difficulty)
	if !f.Since.IsZero() {
		conds = append(conds, "played_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func hydrateRecord(rows *sql.Rows) (Record, error) {
	var (
		r        Record
		playedAt string
	)
	err := rows.Scan(&r.ID, &r.ProfileID, &r.Game, &r.Character, &r.Difficulty,
		&r.Entry.PlayerName, &r.Entry.Score, &r.Entry.ElapsedSeconds, &playedAt)
	if err != nil {
		return Record{}, fmt.Errorf("scanning score row: %w", err)
	}
	r.Entry.Character = r.Character
	r.Entry.Difficulty = r.Difficulty
	r.Entry.Date, err = time.Parse(timeLayout, playedAt)
	if err != nil {
		return Record{}, fmt.Errorf("parsing played_at %q: %w", playedAt, err)
	}
	return r, nil
}
