package ui

import (
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/task"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const taskListHelp = "↑/↓ move  enter open  space done  tab mark  ctrl+d delete  esc back"

// taskIDKey carries the selected task id to the detail and edit views.
var taskIDKey = nav.NewKey[string]("task.id")

func detailID(taskID string) string { return "task:" + taskID }

func editID(taskID string) string { return "task:edit:" + taskID }

// newDetailLink builds the link to a task's detail view. Every list that
// shows tasks uses the same owner so they can share destinations.
func newDetailLink(m *Model, taskID, content string) *nav.Link {
	return nav.NewLink(content, func() nav.View { return newTaskDetailView(m, taskID) },
		nav.WithID(detailID(taskID)),
		nav.WithOwner(ownerTaskDetail),
		nav.WithPayload(nav.NewPayload(nav.Set(taskIDKey, taskID))),
	)
}

type taskListView struct {
	m     *Model
	level *level
	links map[string]*nav.Link
}

func newTaskListView(m *Model) *taskListView {
	v := &taskListView{m: m, links: map[string]*nav.Link{}}
	v.level = newLevel(destTasks, "Tasks", nil)
	v.level.MultiSelect = true
	return v
}

func (v *taskListView) row(item uistate.Item) (*nav.Link, string) {
	t, ok := v.m.tasks.Find(item.ID)
	if !ok {
		return v.links[item.ID], item.Label
	}
	return v.links[item.ID], taskLabel(t, v.m.now(), true)
}

func (v *taskListView) Appear() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh rebuilds rows from the task store and registers a detail
// destination for each task.
func (v *taskListView) Refresh() {
	now := v.m.now()
	entries := v.m.tasks.Entries()
	items := make([]uistate.Item, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, t := range entries {
		label := taskLabel(t, now, false)
		link, ok := v.links[t.ID]
		if !ok {
			link = newDetailLink(v.m, t.ID, label)
			v.links[t.ID] = link
		}
		if err := link.Appear(v.m.nav); err != nil {
			logging.Error(err)
		}
		seen[t.ID] = struct{}{}
		items = append(items, uistate.Item{ID: t.ID, Label: label, Search: taskSearchText(t)})
	}
	for id := range v.links {
		if _, ok := seen[id]; !ok {
			delete(v.links, id)
		}
	}
	v.level.UpdateItems(items)
}

// Escape clears the filter before leaving the list.
func (v *taskListView) Escape() bool {
	return v.m.clearFilter(v.level)
}

func (v *taskListView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	if moveCursor(v.level, key, v.m.listRows(v.m.height, 0)) {
		return nil
	}
	switch key {
	case " ":
		return v.m.toggleTasksCmd(v.targets())
	case "tab":
		v.level.ToggleMarkAtCursor()
		return nil
	case "ctrl+d":
		ids := v.targets()
		v.level.ClearMarks()
		return v.m.deleteTasksCmd(ids)
	case "enter":
		item, ok := v.level.Current()
		if !ok {
			return nil
		}
		link := v.links[item.ID]
		if link == nil {
			return nil
		}
		return link.Activate(v.m.nav)
	}
	v.m.handleTextInput(v.level, keyMsg, false)
	return nil
}

// targets returns the marked tasks, or the task under the cursor.
func (v *taskListView) targets() []string {
	if selected := v.level.MarkedItems(); len(selected) > 0 {
		ids := make([]string, 0, len(selected))
		for _, item := range selected {
			ids = append(ids, item.ID)
		}
		return ids
	}
	if item, ok := v.level.Current(); ok {
		return []string{item.ID}
	}
	return nil
}

func (v *taskListView) View(width, height int) string {
	body := listLines(v.level, v.row, width, v.m.listRows(height, 0))
	return v.m.renderFrame(frame{title: "tasks", body: body, filter: v.level, help: taskListHelp}, width, height)
}

// taskLabel is the one-line rendering of t used in lists.
func taskLabel(t task.Task, now time.Time, styled bool) string {
	paint := func(style *lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return render(style, text)
	}
	check := "☐"
	title := t.Title
	switch {
	case t.Completed:
		check = "✔"
		title = paint(styles.TaskDone, title)
	case t.Overdue(now):
		title = paint(styles.TaskOverdue, title)
	}
	parts := []string{check + " " + title}
	if t.Due != nil && !t.Completed {
		parts = append(parts, paint(styles.TaskDue, dueText(*t.Due, now)))
	}
	if t.TrackerKey != "" {
		parts = append(parts, "["+t.TrackerKey+"]")
	}
	return strings.Join(parts, "  ")
}

func dueText(due, now time.Time) string {
	rel := humanize.RelTime(due, now, "ago", "from now")
	if due.Before(now) {
		return "overdue, due " + rel
	}
	return "due " + rel
}

func taskSearchText(t task.Task) string {
	return strings.TrimSpace(t.Notes + " " + t.TrackerKey + " " + t.TrackerStatus)
}
