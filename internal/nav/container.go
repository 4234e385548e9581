package nav

import (
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const frameInterval = time.Second / 60

type frameMsg struct {
	generation uint64
	at         time.Time
}

// Container renders the current destination of a State, falling back to the
// root view, and animates selection changes.
type Container struct {
	state  *State
	root   View
	width  int
	height int
	now    func() time.Time

	seen         uint64
	fallbackSeen uint64
	lastFrame    string

	slide *slide
}

type slide struct {
	transition Transition
	outgoing   string
	started    time.Time
	elapsed    time.Duration
}

// NewContainer returns a container showing root whenever nothing resolvable
// is selected in state.
func NewContainer(state *State, root View) *Container {
	return &Container{
		state: state,
		root:  root,
		now:   time.Now,
		seen:  state.Generation(),
	}
}

// SetClock replaces the time source used for animation frames.
func (c *Container) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// State exposes the navigation state the container observes.
func (c *Container) State() *State {
	return c.state
}

// SetSize records the drawable area.
func (c *Container) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Init makes the initially active view appear.
func (c *Container) Init() tea.Cmd {
	return appear(c.Active())
}

// Active returns the view that currently receives input.
func (c *Container) Active() View {
	if view, ok := c.state.ResolveCurrent(); ok {
		return view
	}
	if c.state.Dangling() && c.fallbackSeen != c.state.Generation() {
		c.fallbackSeen = c.state.Generation()
		events.Nav.Fallback(c.state.Current(), events.NavReasonDangling)
	}
	return c.root
}

// AtRoot reports whether the root view is showing.
func (c *Container) AtRoot() bool {
	return c.Active() == c.root
}

// Animating reports whether a slide is in progress.
func (c *Container) Animating() bool {
	return c.slide != nil
}

// Escape pops back to the root view.
func (c *Container) Escape() tea.Cmd {
	if c.state.Current() == Root {
		return nil
	}
	c.state.PopTo(Root)
	return c.sync()
}

// Update routes msg to the active view and reacts to selection changes.
func (c *Container) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameMsg:
		return c.advance(msg)
	case tea.WindowSizeMsg:
		c.SetSize(msg.Width, msg.Height)
	case tea.BlurMsg:
		events.UI.Focus(false)
		if c.state.Current() != Root {
			c.state.Reset()
		}
		return c.sync()
	case tea.FocusMsg:
		events.UI.Focus(true)
	}
	cmd := c.Active().Update(msg)
	return tea.Batch(cmd, c.sync())
}

// Sync picks up selection changes made outside Update.
func (c *Container) Sync() tea.Cmd {
	return c.sync()
}

func (c *Container) sync() tea.Cmd {
	gen := c.state.Generation()
	if gen == c.seen {
		return nil
	}
	c.seen = gen
	transition := c.state.LastTransition()
	cmds := []tea.Cmd{appear(c.Active())}
	if transition.Animated() && c.lastFrame != "" {
		c.slide = &slide{
			transition: transition,
			outgoing:   c.lastFrame,
			started:    c.now(),
		}
		cmds = append(cmds, c.tick(gen))
	} else {
		c.slide = nil
	}
	return tea.Batch(cmds...)
}

func (c *Container) tick(gen uint64) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{generation: gen, at: t}
	})
}

func (c *Container) advance(msg frameMsg) tea.Cmd {
	if c.slide == nil || msg.generation != c.slide.transition.Generation {
		return nil
	}
	c.slide.elapsed = msg.at.Sub(c.slide.started)
	if c.slide.elapsed >= c.slide.transition.Duration {
		c.slide = nil
		return nil
	}
	return c.tick(msg.generation)
}

// View renders the active view, composited with the outgoing frame while a
// slide is running.
func (c *Container) View() string {
	incoming := c.Active().View(c.width, c.height)
	if c.slide == nil {
		c.lastFrame = incoming
		return incoming
	}
	progress := c.slide.transition.Progress(c.slide.elapsed)
	frame := composeSlide(c.slide.outgoing, incoming, c.width, progress)
	c.lastFrame = incoming
	return frame
}

// composeSlide draws incoming sliding in from the right over outgoing.
func composeSlide(outgoing, incoming string, width int, progress float64) string {
	if width <= 0 || progress >= 1 {
		return incoming
	}
	edge := width - int(float64(width)*progress)
	if edge < 0 {
		edge = 0
	}
	if edge > width {
		edge = width
	}
	outLines := strings.Split(outgoing, "\n")
	inLines := strings.Split(incoming, "\n")
	rows := len(outLines)
	if len(inLines) > rows {
		rows = len(inLines)
	}
	out := make([]string, rows)
	for i := 0; i < rows; i++ {
		var left, right string
		if i < len(outLines) {
			left = truncate.String(outLines[i], uint(edge))
		}
		if pad := edge - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		if i < len(inLines) {
			right = truncate.String(inLines[i], uint(width-edge))
		}
		out[i] = left + right
	}
	return strings.Join(out, "\n")
}

func appear(v View) tea.Cmd {
	if a, ok := v.(Appearer); ok {
		return a.Appear()
	}
	return nil
}
