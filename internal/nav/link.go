package nav

import (
	"github.com/atomicstack/simple-todo/internal/logging/events"
	"github.com/atomicstack/simple-todo/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"
)

// LinkActivatedMsg is emitted whenever a link is activated, whether or not
// it navigated.
type LinkActivatedMsg struct {
	ID    string
	Owner string
}

// Link is a selectable row that registers a destination and selects it when
// activated.
type Link struct {
	id           string
	owner        string
	content      string
	destination  Builder
	focusColor   lipgloss.TerminalColor
	autoNavigate bool
	payload      *Payload
	hovered      bool
}

// LinkOption customises a Link.
type LinkOption func(*Link)

// WithID gives the link a stable identifier. Without it every link gets a
// fresh random id.
func WithID(id string) LinkOption {
	return func(l *Link) {
		if id != "" {
			l.id = id
		}
	}
}

// WithOwner sets the owner token used when registering the destination.
func WithOwner(owner string) LinkOption {
	return func(l *Link) {
		l.owner = owner
	}
}

// WithFocusColor sets the background drawn while hovered.
func WithFocusColor(color lipgloss.TerminalColor) LinkOption {
	return func(l *Link) {
		if color != nil {
			l.focusColor = color
		}
	}
}

// WithAutoNavigate controls whether activation selects the destination.
func WithAutoNavigate(auto bool) LinkOption {
	return func(l *Link) {
		l.autoNavigate = auto
	}
}

// WithPayload makes activation push the payload along with the id.
func WithPayload(p Payload) LinkOption {
	return func(l *Link) {
		l.payload = &p
	}
}

// NewLink builds a link showing content that navigates to destination.
func NewLink(content string, destination Builder, opts ...LinkOption) *Link {
	l := &Link{
		id:           uuid.NewString(),
		content:      content,
		destination:  destination,
		focusColor:   theme.LinkFocusColor,
		autoNavigate: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Link) ID() string            { return l.id }
func (l *Link) Content() string       { return l.content }
func (l *Link) AutoNavigate() bool    { return l.autoNavigate }
func (l *Link) Hovered() bool         { return l.hovered }
func (l *Link) SetHovered(hover bool) { l.hovered = hover }

// SetContent replaces the rendered label.
func (l *Link) SetContent(content string) {
	l.content = content
}

// Appear registers the destination. Call it each time the owning view
// appears.
func (l *Link) Appear(s *State) error {
	if l.destination == nil {
		return nil
	}
	return s.Register(l.id, l.owner, l.destination)
}

// Activate selects the destination when the link auto-navigates and always
// returns a command reporting the activation.
func (l *Link) Activate(s *State) tea.Cmd {
	events.UI.LinkActivate(l.owner, l.id, l.autoNavigate)
	if l.autoNavigate && s != nil {
		if l.payload != nil {
			s.PushWithPayload(l.id, *l.payload)
		} else {
			s.Push(l.id)
		}
	}
	msg := LinkActivatedMsg{ID: l.id, Owner: l.owner}
	return func() tea.Msg { return msg }
}

// Render draws the link in a cell of the given width.
func (l *Link) Render(width int) string {
	text := l.content
	if width > 0 {
		text = truncate.StringWithTail(text, uint(width), "…")
	}
	style := lipgloss.NewStyle()
	if width > 0 {
		style = style.Width(width)
	}
	if l.hovered {
		style = style.Background(l.focusColor).Bold(true)
	}
	return style.Render(text)
}
