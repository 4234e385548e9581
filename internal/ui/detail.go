package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/task"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

const detailHelp = "↑/↓ move  enter select  space done  e edit  ctrl+r sync  ctrl+d delete  esc back"

// Action rows on the detail view report activation without navigating.
const (
	actionToggle = "detail:toggle"
	actionSync   = "detail:sync"
	actionDelete = "detail:delete"
)

type taskDetailView struct {
	m     *Model
	id    string
	level *level
	links map[string]*nav.Link
}

func newTaskDetailView(m *Model, id string) *taskDetailView {
	v := &taskDetailView{m: m, id: id, links: map[string]*nav.Link{}}
	v.links[actionToggle] = nav.NewLink("Mark done", nil,
		nav.WithID(actionToggle), nav.WithOwner(ownerTaskDetail), nav.WithAutoNavigate(false))
	v.links[actionSync] = nav.NewLink("Refresh tracker status", nil,
		nav.WithID(actionSync), nav.WithOwner(ownerTaskDetail), nav.WithAutoNavigate(false))
	v.links[actionDelete] = nav.NewLink("Delete", nil,
		nav.WithID(actionDelete), nav.WithOwner(ownerTaskDetail), nav.WithAutoNavigate(false))
	v.level = newLevel(detailID(id), "Task", nil)
	return v
}

// Appear picks up the task id pushed with the selection and registers the
// edit destination.
func (v *taskDetailView) Appear() tea.Cmd {
	if id, ok := nav.Lookup(v.m.nav.Payload(), taskIDKey); ok && id != "" {
		v.id = id
	}
	v.Refresh()
	if link := v.links[editID(v.id)]; link != nil {
		if err := link.Appear(v.m.nav); err != nil {
			logging.Error(err)
			v.m.errMsg = err.Error()
		}
	}
	return nil
}

func (v *taskDetailView) current() (task.Task, bool) {
	return v.m.tasks.Find(v.id)
}

// Refresh rebuilds the action rows for the task's current state.
func (v *taskDetailView) Refresh() {
	t, ok := v.current()
	if !ok {
		v.level.UpdateItems(nil)
		return
	}
	editKey := editID(t.ID)
	if _, exists := v.links[editKey]; !exists {
		id := t.ID
		v.links[editKey] = nav.NewLink("Edit →", func() nav.View { return newTaskFormView(v.m, id) },
			nav.WithID(editKey), nav.WithOwner(ownerTaskForm),
			nav.WithPayload(nav.NewPayload(nav.Set(taskIDKey, id))))
	}
	toggle := "Mark done"
	if t.Completed {
		toggle = "Mark not done"
	}
	items := []uistate.Item{
		{ID: actionToggle, Label: toggle},
		{ID: editKey, Label: "Edit →"},
	}
	if t.TrackerKey != "" {
		items = append(items, uistate.Item{ID: actionSync, Label: "Refresh tracker status"})
	}
	items = append(items, uistate.Item{ID: actionDelete, Label: "Delete"})
	v.level.UpdateItems(items)
}

func (v *taskDetailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case nav.LinkActivatedMsg:
		return v.handleAction(msg.ID)
	case tea.KeyMsg:
		key := msg.String()
		if moveCursor(v.level, key, len(v.level.Items)) {
			return nil
		}
		switch key {
		case "enter":
			item, ok := v.level.Current()
			if !ok {
				return nil
			}
			if link := v.links[item.ID]; link != nil {
				return link.Activate(v.m.nav)
			}
		case " ":
			return v.handleAction(actionToggle)
		case "ctrl+r":
			return v.handleAction(actionSync)
		case "ctrl+d":
			return v.handleAction(actionDelete)
		case "e":
			if link := v.links[editID(v.id)]; link != nil {
				return link.Activate(v.m.nav)
			}
		}
	}
	return nil
}

func (v *taskDetailView) handleAction(id string) tea.Cmd {
	t, ok := v.current()
	if !ok {
		return nil
	}
	switch id {
	case actionToggle:
		return v.m.toggleTasksCmd([]string{t.ID})
	case actionSync:
		if t.TrackerKey == "" {
			return nil
		}
		return v.m.syncTrackerCmd([]task.Task{t})
	case actionDelete:
		return v.m.deleteTasksCmd([]string{t.ID})
	}
	return nil
}

func (v *taskDetailView) View(width, height int) string {
	t, ok := v.current()
	if !ok {
		body := []styledLine{{text: "Task not found", style: styles.Info}}
		return v.m.renderFrame(frame{title: "task", body: body, help: detailHelp}, width, height)
	}
	body := detailLines(t, v.m.now())
	body = append(body, styledLine{})
	rows := listLines(v.level, func(item uistate.Item) (*nav.Link, string) {
		return v.links[item.ID], item.Label
	}, width, v.m.listRows(height, len(body)))
	body = append(body, rows...)
	return v.m.renderFrame(frame{title: "task", body: body, help: detailHelp}, width, height)
}

func detailLines(t task.Task, now time.Time) []styledLine {
	field := func(label, value string) styledLine {
		return styledLine{text: render(styles.DetailLabel, fmt.Sprintf("%-9s", label)) + " " + render(styles.DetailValue, value), raw: true}
	}
	state := "Open"
	if t.Completed {
		state = "Done"
		if t.CompletedAt != nil {
			state += " " + humanize.RelTime(*t.CompletedAt, now, "ago", "from now")
		}
	} else if t.Overdue(now) {
		state = render(styles.TaskOverdue, "Overdue")
	}
	lines := []styledLine{
		field("Title", t.Title),
		field("Status", state),
	}
	if t.Due != nil {
		lines = append(lines, field("Due", t.Due.Format("2006-01-02 15:04")+" ("+dueText(*t.Due, now)+")"))
	}
	if t.TrackerKey != "" {
		tracker := t.TrackerKey
		if t.TrackerStatus != "" {
			tracker += " · " + t.TrackerStatus
		}
		lines = append(lines, field("Tracker", tracker))
	}
	if notes := strings.TrimSpace(t.Notes); notes != "" {
		for i, line := range strings.Split(notes, "\n") {
			label := ""
			if i == 0 {
				label = "Notes"
			}
			lines = append(lines, field(label, line))
		}
	}
	if !t.CreatedAt.IsZero() {
		lines = append(lines, field("Created", humanize.RelTime(t.CreatedAt, now, "ago", "from now")))
	}
	return lines
}
