package nav

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/simple-todo/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	// ErrEmptyID is returned when registering a destination without an id.
	ErrEmptyID = errors.New("nav: empty destination id")
	// ErrDuplicateID is returned when a second owner claims an id.
	ErrDuplicateID = errors.New("nav: destination id owned by another component")
)

// Root is the identifier of the root view.
const Root = ""

// View is a navigable screen.
type View interface {
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}

// Appearer is implemented by views that need to act when they become
// visible, such as registering links or starting a load.
type Appearer interface {
	Appear() tea.Cmd
}

// Builder constructs a destination view on first resolve.
type Builder func() View

type destination struct {
	owner string
	build Builder
	view  View
}

// State is the navigation registry plus the current selection.
type State struct {
	destinations map[string]*destination
	knownIDs     []string
	current      string
	payload      Payload
	generation   uint64
	last         Transition
	duration     time.Duration
	easing       Easing
}

// Option customises a State.
type Option func(*State)

// WithTransition overrides the slide duration and curve. A zero duration
// disables animation.
func WithTransition(d time.Duration, easing Easing) Option {
	return func(s *State) {
		s.duration = d
		s.easing = easing
	}
}

// New returns an empty navigation state positioned at the root.
func New(opts ...Option) *State {
	s := &State{
		destinations: make(map[string]*destination),
		duration:     TransitionDuration,
		easing:       EaseInOut,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores build under id for owner. Re-registering from the same
// owner replaces the destination and discards any view already built from
// the previous builder. A different owner claiming an id fails with
// ErrDuplicateID and leaves the existing destination untouched.
func (s *State) Register(id, owner string, build Builder) error {
	if id == "" {
		return ErrEmptyID
	}
	if build == nil {
		return fmt.Errorf("nav: nil builder for %q", id)
	}
	if existing, ok := s.destinations[id]; ok {
		if existing.owner != owner {
			events.Nav.Duplicate(id, owner, existing.owner)
			return fmt.Errorf("%w: %q claimed by %q, requested by %q", ErrDuplicateID, id, existing.owner, owner)
		}
		existing.build = build
		existing.view = nil
		events.Nav.Register(id, owner, true)
		return nil
	}
	s.destinations[id] = &destination{owner: owner, build: build}
	s.knownIDs = append(s.knownIDs, id)
	events.Nav.Register(id, owner, false)
	return nil
}

// Registered reports whether id has a destination.
func (s *State) Registered(id string) bool {
	_, ok := s.destinations[id]
	return ok
}

// Resolve returns the view registered under id, building it on first use.
func (s *State) Resolve(id string) (View, bool) {
	d, ok := s.destinations[id]
	if !ok {
		return nil, false
	}
	if d.view == nil {
		d.view = d.build()
		if d.view == nil {
			return nil, false
		}
	}
	return d.view, true
}

// ResolveCurrent resolves the current selection. It reports false at the
// root and when the current id has no destination.
func (s *State) ResolveCurrent() (View, bool) {
	if s.current == Root {
		return nil, false
	}
	return s.Resolve(s.current)
}

// Current returns the selected id, or Root.
func (s *State) Current() string {
	return s.current
}

// Dangling reports whether the current id points at nothing registered.
func (s *State) Dangling() bool {
	return s.current != Root && !s.Registered(s.current)
}

// KnownIDs returns registered ids in first-registration order.
func (s *State) KnownIDs() []string {
	out := make([]string, len(s.knownIDs))
	copy(out, s.knownIDs)
	return out
}

// Payload returns the payload carried by the last push.
func (s *State) Payload() Payload {
	return s.payload
}

// Generation increases on every selection change.
func (s *State) Generation() uint64 {
	return s.generation
}

// LastTransition describes the most recent selection change.
func (s *State) LastTransition() Transition {
	return s.last
}

// Push selects id and leaves the payload untouched.
func (s *State) Push(id string) {
	events.Nav.Push(s.current, id, false)
	s.move(id, s.duration)
}

// PushWithPayload selects id and replaces the payload wholesale.
func (s *State) PushWithPayload(id string, payload Payload) {
	events.Nav.Push(s.current, id, true)
	s.payload = payload
	s.move(id, s.duration)
}

// PopTo selects id (Root for the root view) and always clears the payload,
// even when id is already current.
func (s *State) PopTo(id string) {
	events.Nav.PopTo(s.current, id)
	s.payload = Payload{}
	s.move(id, s.duration)
}

// Reset returns to the root without animation and clears the payload.
func (s *State) Reset() {
	events.Nav.Reset(s.current, events.NavReasonBlur)
	s.payload = Payload{}
	s.move(Root, 0)
}

func (s *State) move(id string, d time.Duration) {
	from := s.current
	s.current = id
	s.generation++
	s.last = Transition{
		From:       from,
		To:         id,
		Duration:   d,
		Easing:     s.easing,
		Generation: s.generation,
	}
	events.Nav.Transition(from, id, s.generation)
}
