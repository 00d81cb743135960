// Package engine runs the single-threaded game loop: input, update, render,
// and save checkpoints. All scene and session calls happen on the goroutine
// that calls Step, Advance, or Run.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/funfair/internal/scene"
	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// QuitAction ends the loop from any scene.
const QuitAction = "quit"

// DefaultFrame is the update period used by Run.
const DefaultFrame = 100 * time.Millisecond

// Loop drives a scene graph over a session.
type Loop struct {
	graph      *scene.Manager
	session    *session.Session
	surface    types.Surface
	log        zerolog.Logger
	frame      time.Duration
	saveOnExit bool
	done       bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(lp *Loop) { lp.log = l }
}

// WithFrame sets the update period used by Run.
func WithFrame(d time.Duration) Option {
	return func(lp *Loop) {
		if d > 0 {
			lp.frame = d
		}
	}
}

// WithSaveOnSceneExit turns the scene change checkpoint on or off.
func WithSaveOnSceneExit(on bool) Option {
	return func(lp *Loop) { lp.saveOnExit = on }
}

// New returns a Loop that renders to surface. It installs a transition hook
// on graph that checkpoints the session after every scene change.
func New(graph *scene.Manager, s *session.Session, surface types.Surface, opts ...Option) *Loop {
	lp := &Loop{
		graph:      graph,
		session:    s,
		surface:    surface,
		log:        zerolog.Nop(),
		frame:      DefaultFrame,
		saveOnExit: true,
	}
	for _, opt := range opts {
		opt(lp)
	}
	graph.AddHook(lp.onTransition)
	return lp
}

func (lp *Loop) onTransition(kind types.RequestKind, from, to string) {
	if kind != types.RequestChange || from == "" || !lp.saveOnExit {
		return
	}
	if err := lp.session.Checkpoint(session.ReasonSceneExit); err != nil {
		lp.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("scene exit checkpoint failed")
	}
}

// Start enters the initial scene and draws the first frame.
func (lp *Loop) Start(initial string, bag types.Bag) error {
	if err := lp.graph.Start(initial, bag); err != nil {
		return err
	}
	lp.graph.Render(lp.surface)
	return nil
}

// Done reports whether the player quit.
func (lp *Loop) Done() bool { return lp.done }

// ParseInput splits a command line into an Input. Blank lines yield false.
func ParseInput(line string) (types.Input, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return types.Input{}, false
	}
	return types.Input{Action: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// Step handles one line of input and redraws. The quit action checkpoints
// and marks the loop done. Only scene graph configuration errors are
// returned; save failures are logged and play continues.
func (lp *Loop) Step(line string) error {
	in, ok := ParseInput(line)
	if !ok {
		return nil
	}
	if in.Action == QuitAction {
		lp.Shutdown()
		return nil
	}
	if err := lp.graph.HandleInput(in); err != nil {
		return err
	}
	lp.graph.Render(lp.surface)
	return nil
}

// Advance updates the top scene by dt and runs the autosave timer.
func (lp *Loop) Advance(dt time.Duration) error {
	if err := lp.graph.Update(dt); err != nil {
		return err
	}
	if err := lp.session.Tick(dt); err != nil {
		lp.log.Warn().Err(err).Msg("autosave failed")
	}
	return nil
}

// Shutdown writes pending progress and marks the loop done.
func (lp *Loop) Shutdown() {
	if lp.done {
		return
	}
	lp.done = true
	if err := lp.session.Checkpoint(session.ReasonShutdown); err != nil {
		lp.log.Error().Err(err).Msg("final save failed")
	}
}

// Run processes lines until quit, the channel closes, or ctx is cancelled,
// advancing scenes once per frame in between. It always checkpoints before
// returning.
func (lp *Loop) Run(ctx context.Context, lines <-chan string) error {
	ticker := time.NewTicker(lp.frame)
	defer ticker.Stop()
	defer lp.Shutdown()

	last := time.Now()
	for !lp.done {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := lp.Step(line); err != nil {
				return err
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := lp.Advance(dt); err != nil {
				return err
			}
		}
	}
	return nil
}
