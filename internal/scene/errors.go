package scene

import (
	"fmt"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

// ConfigError reports a scene graph wiring defect: a transition to a scene
// that was never registered, pushing a scene that is already active, or
// popping the last scene. It is the only error
// class that stops the game.
type ConfigError struct {
	Op    string
	Scene string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Scene == "" {
		return fmt.Sprintf("scene %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("scene %s %q: %v", e.Op, e.Scene, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func unknownScene(op, name string) error {
	return &ConfigError{Op: op, Scene: name, Err: types.ErrUnknownScene}
}
