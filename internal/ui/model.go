package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/simple-todo/internal/backend"
	"github.com/atomicstack/simple-todo/internal/data/dispatcher"
	"github.com/atomicstack/simple-todo/internal/logging/events"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/state"
	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/theme"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/atomicstack/simple-todo/internal/ui/command"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "main menu"
	infoDuration        = 5 * time.Second
)

var styles = theme.Default()

// cursorMode applies to the filter caret and form inputs.
var cursorMode = cursor.CursorBlink

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []uistate.Item) *level {
	return uistate.NewLevel(id, title, items)
}

// Deps are the collaborators the UI is assembled from.
type Deps struct {
	Nav        *nav.State
	Tasks      *task.Store
	Tracker    tracker.Tracker
	Watcher    *backend.Watcher
	SocketPath string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Now        func() time.Time
}

// Model implements the Bubble Tea model for the to-do popup.
type Model struct {
	nav       *nav.State
	container *nav.Container
	root      *rootView

	store   *task.Store
	tracker tracker.Tracker
	backend *backend.Watcher

	tasks      state.TaskStore
	issues     state.IssueStore
	dispatcher *dispatcher.Dispatcher
	bus        *command.Bus
	cancel     context.CancelFunc

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	socketPath  string
	now         func() time.Time

	errMsg     string
	infoMsg    string
	infoExpire time.Time
	// storeWarning is the last task poll error, cleared by the next good poll.
	storeWarning string

	filterCursor      cursor.Model
	filterFocused     bool
	filterCursorDirty bool
	serial            uint64

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI with the root menu and the given collaborators.
func NewModel(deps Deps) *Model {
	navState := deps.Nav
	if navState == nil {
		navState = nav.New()
	}
	tr := deps.Tracker
	if tr == nil {
		tr = tracker.Disabled{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	tasks := state.NewTaskStore()
	tasks.SetClock(now)
	issues := state.NewIssueStore()
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		nav:        navState,
		store:      deps.Tasks,
		tracker:    tr,
		backend:    deps.Watcher,
		tasks:      tasks,
		issues:     issues,
		dispatcher: dispatcher.New(tasks, issues),
		bus:        command.New(ctx),
		cancel:     cancel,
		showFooter: deps.ShowFooter,
		verbose:    deps.Verbose,
		socketPath: deps.SocketPath,
		now:        now,
	}
	if deps.Width > 0 {
		m.width = deps.Width
		m.fixedWidth = true
	}
	if deps.Height > 0 {
		m.height = deps.Height
		m.fixedHeight = true
	}
	m.root = newRootView(m)
	m.container = nav.NewContainer(navState, m.root)
	m.container.SetClock(now)
	m.container.SetSize(m.width, m.height)

	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	c.SetMode(cursorMode)
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTasksCmd()}
	if m.backend != nil {
		cmds = append(cmds, listenBackend(m.backend))
	}
	if cmd := m.container.Init(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.filterFocused = true
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.route(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, m.finishUpdate(cmds)
}

// route sends msg to its typed handler, or to the navigation container which
// forwards it to the active view.
func (m *Model) route(msg tea.Msg) tea.Cmd {
	if handler := m.handlerFor(msg); handler != nil {
		return handler(msg)
	}
	return m.container.Update(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResult,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(tasksLoadedMsg{}):    m.handleTasksLoadedMsg,
		reflect.TypeOf(taskSavedMsg{}):      m.handleTaskSavedMsg,
		reflect.TypeOf(taskDeletedMsg{}):    m.handleTaskDeletedMsg,
		reflect.TypeOf(tasksSyncedMsg{}):    m.handleTasksSyncedMsg,
		reflect.TypeOf(issueMissingMsg{}):   m.handleIssueMissingMsg,
		reflect.TypeOf(actionErrorMsg{}):    m.handleActionErrorMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if m.filterFocused {
			if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// escaper is implemented by views that consume esc before it navigates back.
type escaper interface {
	Escape() bool
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		if e, ok := m.container.Active().(escaper); ok && e.Escape() {
			return nil
		}
		if m.container.AtRoot() {
			return m.quit()
		}
		m.errMsg = ""
		m.forceClearInfo()
		return m.container.Escape()
	}
	return m.container.Update(keyMsg)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.container.SetSize(m.width, m.height)
	return nil
}

func (m *Model) handleCommandResult(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if !m.bus.Current(res) {
		events.Command.Skip(res.ID, "stale")
		return nil
	}
	if res.Msg == nil {
		return nil
	}
	return m.route(res.Msg)
}

func (m *Model) quit() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	return m.container.View()
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = m.now().Add(infoDuration)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && m.now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
