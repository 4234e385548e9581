package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/logging/events"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/tmux"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/atomicstack/simple-todo/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoStore = errors.New("task store unavailable")

type tasksLoadedMsg struct {
	tasks []task.Task
	err   error
}

// taskSavedMsg reports a stored task. When open is set the task detail is
// shown afterwards, unless navigation moved on since the request (gen).
type taskSavedMsg struct {
	task    task.Task
	created bool
	open    bool
	gen     uint64
}

type taskDeletedMsg struct {
	ids []string
}

type tasksSyncedMsg struct {
	updated []task.Task
	linked  int
}

type issueMissingMsg struct {
	key string
}

type actionErrorMsg struct {
	label string
	err   error
}

func (m *Model) loadTasksCmd() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return m.bus.Execute(command.Request{ID: "tasks:load", Label: "load tasks", Handler: func(ctx context.Context) tea.Msg {
		tasks, err := store.List(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}})
}

func (m *Model) handleTasksLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(tasksLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.err != nil {
		logging.Error(loaded.err)
		m.errMsg = loaded.err.Error()
		return nil
	}
	m.tasks.SetEntries(loaded.tasks)
	m.refreshActive()
	return nil
}

// saveTaskCmd stores t. Validation failures surface as actionErrorMsg.
func (m *Model) saveTaskCmd(t task.Task, open bool) tea.Cmd {
	store := m.store
	_, exists := m.tasks.Find(t.ID)
	return m.bus.Execute(command.Request{ID: "task:save:" + t.ID, Label: "save " + t.Title, Handler: func(ctx context.Context) tea.Msg {
		if store == nil {
			return actionErrorMsg{label: "save task", err: errNoStore}
		}
		saved, err := store.SaveTask(ctx, t)
		if err != nil {
			return actionErrorMsg{label: "save task", err: err}
		}
		return taskSavedMsg{task: saved, created: !exists, open: open}
	}})
}

func (m *Model) toggleTasksCmd(ids []string) tea.Cmd {
	store := m.store
	if len(ids) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		id := id
		cmds = append(cmds, m.bus.Execute(command.Request{ID: "task:toggle:" + id, Label: "toggle", Handler: func(ctx context.Context) tea.Msg {
			if store == nil {
				return actionErrorMsg{label: "toggle task", err: errNoStore}
			}
			updated, err := store.ToggleCompleted(ctx, id)
			if err != nil {
				return actionErrorMsg{label: "toggle task", err: err}
			}
			return taskSavedMsg{task: updated}
		}}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) deleteTasksCmd(ids []string) tea.Cmd {
	store := m.store
	if len(ids) == 0 {
		return nil
	}
	return m.bus.Execute(command.Request{ID: m.uniqueID("task:delete"), Label: fmt.Sprintf("delete %d", len(ids)), Handler: func(ctx context.Context) tea.Msg {
		if store == nil {
			return actionErrorMsg{label: "delete task", err: errNoStore}
		}
		deleted := make([]string, 0, len(ids))
		for _, id := range ids {
			if err := store.Delete(ctx, id); err != nil && !errors.Is(err, task.ErrNotFound) {
				return actionErrorMsg{label: "delete task", err: err}
			}
			deleted = append(deleted, id)
		}
		return taskDeletedMsg{ids: deleted}
	}})
}

// createFromIssueCmd loads the issue detail and stores a new task linked to
// it, then opens the task if the user is still where the request was made.
func (m *Model) createFromIssueCmd(key string) tea.Cmd {
	store := m.store
	tr := m.tracker
	gen := m.nav.Generation()
	return m.bus.Execute(command.Request{ID: "issue:create:" + key, Label: "new task from " + key, Handler: func(ctx context.Context) tea.Msg {
		detail, err := tr.IssueDetail(ctx, key)
		if errors.Is(err, tracker.ErrIssueNotFound) {
			return issueMissingMsg{key: key}
		}
		if err != nil {
			return actionErrorMsg{label: "load " + key, err: err}
		}
		if store == nil {
			return actionErrorMsg{label: "save task", err: errNoStore}
		}
		t := task.New(detail.Summary)
		if t.Title == "" {
			t.Title = detail.Key
		}
		t.Notes = detail.Description
		t.LinkTracker(detail.Key, detail.Status)
		saved, err := store.SaveTask(ctx, t)
		if err != nil {
			return actionErrorMsg{label: "save task", err: err}
		}
		events.Task.Link(saved.ID, saved.TrackerKey)
		return taskSavedMsg{task: saved, created: true, open: true, gen: gen}
	}})
}

// syncTrackerCmd refreshes the tracker status of linked tasks and stores the
// ones that changed.
func (m *Model) syncTrackerCmd(tasks []task.Task) tea.Cmd {
	store := m.store
	tr := m.tracker
	return m.bus.Execute(command.Request{ID: m.uniqueID("tracker:sync"), Label: "sync tracker status", Handler: func(ctx context.Context) tea.Msg {
		linked := 0
		for _, t := range tasks {
			if t.TrackerKey != "" {
				linked++
			}
		}
		changed, err := tracker.RefreshStatuses(ctx, tr, tasks, tracker.DefaultSyncConcurrency)
		if err != nil {
			return actionErrorMsg{label: "sync tracker status", err: err}
		}
		if store == nil && len(changed) > 0 {
			return actionErrorMsg{label: "save task", err: errNoStore}
		}
		saved := make([]task.Task, 0, len(changed))
		for _, t := range changed {
			stored, err := store.SaveTask(ctx, t)
			if err != nil {
				return actionErrorMsg{label: "save task", err: err}
			}
			saved = append(saved, stored)
		}
		return tasksSyncedMsg{updated: saved, linked: linked}
	}})
}

func (m *Model) handleTaskSavedMsg(msg tea.Msg) tea.Cmd {
	saved, ok := msg.(taskSavedMsg)
	if !ok {
		return nil
	}
	m.tasks.Upsert(saved.task)
	m.errMsg = ""
	events.Action.Success(saved.task.Title)
	if saved.created && m.verbose {
		m.setInfo(fmt.Sprintf("Created %s", saved.task.Title))
	}
	cmds := []tea.Cmd{m.afterMutation()}
	if saved.open && saved.gen != m.nav.Generation() {
		events.Nav.Stale(detailID(saved.task.ID), saved.gen, m.nav.Generation())
		saved.open = false
	}
	if saved.open {
		cmds = append(cmds, m.openTask(saved.task.ID))
	} else {
		m.refreshActive()
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleTaskDeletedMsg(msg tea.Msg) tea.Cmd {
	deleted, ok := msg.(taskDeletedMsg)
	if !ok {
		return nil
	}
	current := m.nav.Current()
	var cmd tea.Cmd
	for _, id := range deleted.ids {
		m.tasks.Remove(id)
		if current == detailID(id) || current == editID(id) {
			m.nav.PopTo(destTasks)
			cmd = m.container.Sync()
		}
	}
	if m.verbose {
		m.setInfo(fmt.Sprintf("Deleted %d task(s)", len(deleted.ids)))
	}
	m.refreshActive()
	return tea.Batch(cmd, m.afterMutation())
}

func (m *Model) handleTasksSyncedMsg(msg tea.Msg) tea.Cmd {
	synced, ok := msg.(tasksSyncedMsg)
	if !ok {
		return nil
	}
	for _, t := range synced.updated {
		m.tasks.Upsert(t)
	}
	events.Tracker.Sync(synced.linked, len(synced.updated))
	m.setInfo(fmt.Sprintf("Synced %d of %d linked tasks", len(synced.updated), synced.linked))
	m.refreshActive()
	if len(synced.updated) == 0 {
		return nil
	}
	return m.afterMutation()
}

func (m *Model) handleIssueMissingMsg(msg tea.Msg) tea.Cmd {
	missing, ok := msg.(issueMissingMsg)
	if !ok {
		return nil
	}
	return m.toast(fmt.Sprintf("Issue not found: %s", missing.key))
}

func (m *Model) handleActionErrorMsg(msg tea.Msg) tea.Cmd {
	failed, ok := msg.(actionErrorMsg)
	if !ok {
		return nil
	}
	err := failed.err
	if failed.label != "" {
		err = fmt.Errorf("%s: %w", failed.label, failed.err)
	}
	logging.Error(err)
	events.Action.Error(err)
	m.forceClearInfo()
	m.errMsg = err.Error()
	return nil
}

// openTask registers the detail view for id and selects it.
func (m *Model) openTask(id string) tea.Cmd {
	link := m.detailLink(id)
	if err := link.Appear(m.nav); err != nil {
		logging.Error(err)
		m.errMsg = err.Error()
		return nil
	}
	return tea.Batch(link.Activate(m.nav), m.container.Sync())
}

// uniqueID returns a command bus ID that no other request shares, for
// requests whose results must all be applied.
func (m *Model) uniqueID(prefix string) string {
	m.serial++
	return fmt.Sprintf("%s:%d", prefix, m.serial)
}

// afterMutation wakes the watcher and redraws the tmux status line.
func (m *Model) afterMutation() tea.Cmd {
	if m.backend != nil {
		m.backend.Refresh()
	}
	socket := m.socketPath
	if socket == "" {
		return nil
	}
	return func() tea.Msg {
		if err := tmux.RefreshStatus(socket); err != nil {
			logging.Error(err)
		}
		return nil
	}
}

// toast shows text in the info line and, inside tmux, on the status line.
func (m *Model) toast(text string) tea.Cmd {
	m.setInfo(text)
	events.UI.Toast(text)
	socket := m.socketPath
	if socket == "" || !tmux.Inside() {
		return nil
	}
	return func() tea.Msg {
		if err := tmux.Toast(socket, text, tmux.DefaultToastDuration); err != nil {
			logging.Error(err)
		}
		return nil
	}
}

func (m *Model) detailLink(id string) *nav.Link {
	return newDetailLink(m, id, "")
}
