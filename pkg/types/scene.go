package types

import "time"

// Input is one mapped player action delivered to the active scene.
// Args carry action arguments, e.g. a character id or a score.
type Input struct {
	Action string
	Args   []string
}

// Arg returns the i-th argument or "" if absent.
func (in Input) Arg(i int) string {
	if i < 0 || i >= len(in.Args) {
		return ""
	}
	return in.Args[i]
}

// Surface is the drawing target handed to Scene.Render.
type Surface interface {
	DrawText(line string)
}

// Scene is one screen of the game. Scenes are constructed once and re-entered
// many times.
type Scene interface {
	// HandleInput reacts to one input and may request a transition.
	HandleInput(in Input) Request

	// Update advances the scene by dt and may request a transition. Scenes
	// beneath an overlay receive no updates.
	Update(dt time.Duration) Request

	// Render draws the scene.
	Render(s Surface)

	// OnEnter is called when the scene becomes active through a change or a
	// push. previous is the name of the scene being left ("" at start). The
	// scene must not keep bag past its own OnExit.
	OnEnter(previous string, bag Bag)

	// OnExit is called when the scene is left and returns entries to hand to
	// the next scene. It may return nil.
	OnExit() Bag
}

// RequestKind enumerates scene graph operations a scene can ask for.
type RequestKind int

const (
	// RequestStay keeps the current scene.
	RequestStay RequestKind = iota
	// RequestChange replaces the whole stack with the target scene.
	RequestChange
	// RequestPush suspends the current scene under an overlay.
	RequestPush
	// RequestPop removes the overlay and resumes the scene beneath it.
	RequestPop
)

// String returns a readable request kind.
func (k RequestKind) String() string {
	switch k {
	case RequestStay:
		return "stay"
	case RequestChange:
		return "change"
	case RequestPush:
		return "push"
	case RequestPop:
		return "pop"
	default:
		return "unknown"
	}
}

// Request is returned by HandleInput and Update.
type Request struct {
	Kind   RequestKind
	Target string
	Bag    Bag
}

// Stay is the zero request.
var Stay = Request{}

// Change asks for a transition to target carrying bag.
func Change(target string, bag Bag) Request {
	return Request{Kind: RequestChange, Target: target, Bag: bag}
}

// Push asks for target to be pushed as an overlay.
func Push(target string, bag Bag) Request {
	return Request{Kind: RequestPush, Target: target, Bag: bag}
}

// Pop asks for the top overlay to be removed.
func Pop() Request {
	return Request{Kind: RequestPop}
}
