package types

import "errors"

// Persistence errors. NotFound and Corrupt resolve to defaults, IOFailure is
// reported to the caller, MigrationFailed resolves to defaults.
var (
	ErrNotFound        = errors.New("save document not found")
	ErrCorrupt         = errors.New("save document is corrupt")
	ErrIOFailure       = errors.New("save document could not be written")
	ErrMigrationFailed = errors.New("save document migration failed")
)

// Session accessor errors.
var (
	ErrInvalidScore     = errors.New("invalid score entry")
	ErrUnknownCharacter = errors.New("character is not in the catalog")
	ErrUnknownGame      = errors.New("minigame is not in the catalog")
)

// Scene graph errors. ErrUnknownScene is a configuration defect and is the
// only error class that should stop the process.
var (
	ErrUnknownScene   = errors.New("scene is not registered")
	ErrDuplicateScene = errors.New("scene is already registered")
	ErrEmptyStack     = errors.New("scene stack is empty")
	ErrSceneActive    = errors.New("scene is already on the stack")
	ErrNotStarted     = errors.New("scene manager has not started")
)
