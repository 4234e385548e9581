package ui

import (
	"github.com/atomicstack/simple-todo/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

type backendEventMsg struct {
	event backend.Event
}

// backendDoneMsg arrives once the watcher has stopped and its channel closed.
type backendDoneMsg struct{}

// listenBackend waits for the next watcher event. Each handled event
// re-arms it, so exactly one listener is outstanding.
func listenBackend(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		if evt, ok := <-w.Events(); ok {
			return backendEventMsg{event: evt}
		}
		return backendDoneMsg{}
	}
}

// refresher is implemented by views that redraw from the shared stores.
type refresher interface {
	Refresh()
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	em, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	evt := em.event
	if evt.Kind == backend.KindTasks {
		m.storeWarning = ""
		if evt.Err != nil {
			m.storeWarning = evt.Err.Error()
		}
	}
	if res := m.dispatcher.Handle(evt); res.TasksUpdated || res.IssuesUpdated {
		m.refreshActive()
	}
	if m.backend == nil {
		return nil
	}
	return listenBackend(m.backend)
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// refreshActive redraws the visible view from the stores. Hidden views catch
// up when they next appear.
func (m *Model) refreshActive() {
	if r, ok := m.container.Active().(refresher); ok {
		r.Refresh()
	}
}
