package types

import (
	"errors"
	"time"
)

// Config holds the runtime parameters of a funfair session.
type Config struct {
	SaveDir          string        `json:"save_dir" yaml:"save_dir"`
	DataDir          string        `json:"data_dir" yaml:"data_dir"`
	AutosaveInterval time.Duration `json:"autosave_interval" yaml:"autosave_interval"`
	SaveOnSceneExit  bool          `json:"save_on_scene_exit" yaml:"save_on_scene_exit"`
	HighScoreLimit   int           `json:"high_score_limit" yaml:"high_score_limit"`
	StartScene       string        `json:"start_scene" yaml:"start_scene"`
	LogLevel         string        `json:"log_level" yaml:"log_level"`
	History          bool          `json:"history" yaml:"history"`
}

// Configuration defaults.
const (
	DefaultAutosaveInterval = 2 * time.Minute
	DefaultHighScoreLimit   = 10
	DefaultStartScene       = "title"
	DefaultLogLevel         = "info"
)

// Config validation errors.
var (
	ErrSaveDirEmpty            = errors.New("save directory must not be empty")
	ErrHighScoreLimitInvalid   = errors.New("high score limit must be positive")
	ErrAutosaveIntervalInvalid = errors.New("autosave interval must not be negative")
	ErrStartSceneEmpty         = errors.New("start scene must not be empty")
)

// DefaultConfig returns a Config with every field but the directories set.
func DefaultConfig() Config {
	return Config{
		AutosaveInterval: DefaultAutosaveInterval,
		SaveOnSceneExit:  true,
		HighScoreLimit:   DefaultHighScoreLimit,
		StartScene:       DefaultStartScene,
		LogLevel:         DefaultLogLevel,
		History:          true,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. A zero AutosaveInterval disables timed saves.
func (c Config) Validate() error {
	if c.SaveDir == "" {
		return ErrSaveDirEmpty
	}
	if c.HighScoreLimit <= 0 {
		return ErrHighScoreLimitInvalid
	}
	if c.AutosaveInterval < 0 {
		return ErrAutosaveIntervalInvalid
	}
	if c.StartScene == "" {
		return ErrStartSceneEmpty
	}
	return nil
}
