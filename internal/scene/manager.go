// Package scene implements the scene graph: a state machine over named
// scenes with a one-shot transition bag and a pause overlay stack.
package scene

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/funfair/pkg/types"
)

// Factory builds a scene on its first visit.
type Factory func() types.Scene

// TransitionHook runs after every completed change, push, or pop. from is
// the scene that was on top before, to the scene on top after.
type TransitionHook func(kind types.RequestKind, from, to string)

// Manager owns the registered scenes and the active stack. The bottom of the
// stack is the current scene; anything above it is an overlay. It is used
// from the game loop goroutine only.
type Manager struct {
	factories map[string]Factory
	built     map[string]types.Scene
	stack     []string
	hooks     []TransitionHook
	log       zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithTransitionHook adds a hook run after each transition.
func WithTransitionHook(h TransitionHook) Option {
	return func(m *Manager) { m.hooks = append(m.hooks, h) }
}

// New returns an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		factories: make(map[string]Factory),
		built:     make(map[string]types.Scene),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a scene that is constructed on first visit.
func (m *Manager) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("register %q: name and factory are required", name)
	}
	if m.registered(name) {
		return fmt.Errorf("register %q: %w", name, types.ErrDuplicateScene)
	}
	m.factories[name] = f
	return nil
}

// RegisterScene adds an already constructed scene.
func (m *Manager) RegisterScene(name string, s types.Scene) error {
	if name == "" || s == nil {
		return fmt.Errorf("register %q: name and scene are required", name)
	}
	if m.registered(name) {
		return fmt.Errorf("register %q: %w", name, types.ErrDuplicateScene)
	}
	m.built[name] = s
	return nil
}

// AddHook adds a transition hook after construction.
func (m *Manager) AddHook(h TransitionHook) {
	m.hooks = append(m.hooks, h)
}

func (m *Manager) registered(name string) bool {
	_, lazy := m.factories[name]
	_, eager := m.built[name]
	return lazy || eager
}

// Registered reports whether name is a known scene.
func (m *Manager) Registered(name string) bool { return m.registered(name) }

// lookup returns the scene for name, building it if needed.
func (m *Manager) lookup(op, name string) (types.Scene, error) {
	if s, ok := m.built[name]; ok {
		return s, nil
	}
	f, ok := m.factories[name]
	if !ok {
		return nil, unknownScene(op, name)
	}
	s := f()
	if s == nil {
		return nil, unknownScene(op, name)
	}
	m.built[name] = s
	m.log.Debug().Str("scene", name).Msg("scene constructed")
	return s, nil
}

// Start enters the initial scene with bag. It may be called once.
func (m *Manager) Start(initial string, bag types.Bag) error {
	if len(m.stack) > 0 {
		return fmt.Errorf("start %q: already started at %q", initial, m.Current())
	}
	s, err := m.lookup("start", initial)
	if err != nil {
		return err
	}
	s.OnEnter("", bag.Clone())
	m.stack = []string{initial}
	m.log.Debug().Str("scene", initial).Msg("scene graph started")
	m.fire(types.RequestChange, "", initial)
	return nil
}

// Current returns the scene at the bottom of the stack, or "" before Start.
func (m *Manager) Current() string {
	if len(m.stack) == 0 {
		return ""
	}
	return m.stack[0]
}

// Top returns the scene receiving input: the topmost overlay or the current
// scene.
func (m *Manager) Top() string {
	if len(m.stack) == 0 {
		return ""
	}
	return m.stack[len(m.stack)-1]
}

// Stack returns a copy of the stack, bottom first.
func (m *Manager) Stack() []string {
	return append([]string(nil), m.stack...)
}

// Paused reports whether an overlay is suspending the current scene.
func (m *Manager) Paused() bool { return len(m.stack) > 1 }

func (m *Manager) top() (types.Scene, error) {
	if len(m.stack) == 0 {
		return nil, types.ErrNotStarted
	}
	return m.built[m.Top()], nil
}

// HandleInput delivers in to the top scene and applies its request.
func (m *Manager) HandleInput(in types.Input) error {
	s, err := m.top()
	if err != nil {
		return err
	}
	return m.Apply(s.HandleInput(in))
}

// Update advances the top scene only; suspended scenes do not update.
func (m *Manager) Update(dt time.Duration) error {
	s, err := m.top()
	if err != nil {
		return err
	}
	return m.Apply(s.Update(dt))
}

// Render draws every scene on the stack, bottom to top.
func (m *Manager) Render(surface types.Surface) {
	for _, name := range m.stack {
		m.built[name].Render(surface)
	}
}

// Apply carries out a request returned by a scene.
func (m *Manager) Apply(req types.Request) error {
	switch req.Kind {
	case types.RequestStay:
		return nil
	case types.RequestChange:
		return m.TransitionTo(req.Target, req.Bag)
	case types.RequestPush:
		return m.Push(req.Target, req.Bag)
	case types.RequestPop:
		return m.Pop()
	default:
		return fmt.Errorf("apply: unknown request kind %d", req.Kind)
	}
}

// TransitionTo replaces the whole stack with target. Every scene on the
// stack exits, top first; their exit bags are merged over bag and the merged
// bag is handed to target. The target is resolved before anything exits, so
// a bad name leaves the graph unchanged.
func (m *Manager) TransitionTo(target string, bag types.Bag) error {
	if len(m.stack) == 0 {
		return types.ErrNotStarted
	}
	next, err := m.lookup("change", target)
	if err != nil {
		return err
	}

	from := m.Top()
	merged := bag.Clone()
	for i := len(m.stack) - 1; i >= 0; i-- {
		merged.Merge(m.built[m.stack[i]].OnExit())
	}
	m.stack = m.stack[:0]

	next.OnEnter(from, merged)
	m.stack = append(m.stack, target)
	m.log.Debug().Str("from", from).Str("to", target).Msg("scene change")
	m.fire(types.RequestChange, from, target)
	return nil
}

// Push suspends the stack under the overlay target. The suspended scene gets
// no OnExit now and no OnEnter when the overlay is popped. A scene already on
// the stack cannot be pushed again.
func (m *Manager) Push(target string, bag types.Bag) error {
	if len(m.stack) == 0 {
		return types.ErrNotStarted
	}
	if slices.Contains(m.stack, target) {
		return &ConfigError{Op: "push", Scene: target, Err: types.ErrSceneActive}
	}
	overlay, err := m.lookup("push", target)
	if err != nil {
		return err
	}
	from := m.Top()
	overlay.OnEnter(from, bag.Clone())
	m.stack = append(m.stack, target)
	m.log.Debug().Str("from", from).Str("overlay", target).Msg("scene push")
	m.fire(types.RequestPush, from, target)
	return nil
}

// Pop exits the top overlay and resumes the scene beneath it. The overlay's
// exit bag is discarded. Popping the only scene is a ConfigError.
func (m *Manager) Pop() error {
	if len(m.stack) == 0 {
		return types.ErrNotStarted
	}
	if len(m.stack) == 1 {
		return &ConfigError{Op: "pop", Scene: m.Top(), Err: types.ErrEmptyStack}
	}
	from := m.Top()
	m.built[from].OnExit()
	m.stack = m.stack[:len(m.stack)-1]
	m.log.Debug().Str("overlay", from).Str("resumed", m.Top()).Msg("scene pop")
	m.fire(types.RequestPop, from, m.Top())
	return nil
}

func (m *Manager) fire(kind types.RequestKind, from, to string) {
	for _, h := range m.hooks {
		h(kind, from, to)
	}
}
