package types

import "maps"

// Bag is ephemeral data handed from an exiting scene to the entering scene for
// exactly one transition. It is never persisted.
type Bag map[string]any

// Standard bag keys used by the shipped scenes.
const (
	BagCharacter  = "character"
	BagGame       = "game"
	BagDifficulty = "difficulty"
	BagLastScore  = "last_score"
	BagRank       = "rank"
	BagNotice     = "notice"
)

// Clone returns a shallow copy of b. A nil bag clones to an empty bag.
func (b Bag) Clone() Bag {
	if b == nil {
		return Bag{}
	}
	return maps.Clone(b)
}

// Merge copies the entries of other into b, overwriting existing keys.
func (b Bag) Merge(other Bag) {
	maps.Copy(b, other)
}

// String returns the string stored under key, or "".
func (b Bag) String(key string) string {
	s, _ := b[key].(string)
	return s
}

// Int returns the int stored under key and whether it was present as an int.
func (b Bag) Int(key string) (int, bool) {
	switch v := b[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// Has reports whether key is present.
func (b Bag) Has(key string) bool {
	_, ok := b[key]
	return ok
}
