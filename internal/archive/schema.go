package archive

// Schema DDL. Statements are idempotent so Open can run them on every start.
const (
	createScores = `CREATE TABLE IF NOT EXISTS scores (
    score_id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL,
    game TEXT NOT NULL,
    character TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    player_name TEXT NOT NULL,
    score INTEGER NOT NULL,
    elapsed_seconds REAL NOT NULL,
    played_at TEXT NOT NULL
);`

	createScoresKeyIndex = `CREATE INDEX IF NOT EXISTS idx_scores_key
    ON scores (game, character, difficulty, score DESC);`

	createScoresPlayedIndex = `CREATE INDEX IF NOT EXISTS idx_scores_played_at
    ON scores (played_at);`
)

var schemaStatements = []string{
	createScores,
	createScoresKeyIndex,
	createScoresPlayedIndex,
}
