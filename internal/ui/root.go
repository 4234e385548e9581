package ui

import (
	"fmt"

	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/nav"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// Destination ids and owner tokens registered with the navigation state.
const (
	destTasks   = "tasks"
	destNewTask = "task:new"
	destIssues  = "issues"

	ownerRoot       = "root"
	ownerTaskDetail = "task-detail"
	ownerTaskForm   = "task-form"
	ownerIssues     = "issues"
)

const rootHelp = "↑/↓ move  enter select  q quit"

// rootView is the menu shown whenever nothing else is selected.
type rootView struct {
	m     *Model
	level *level
	links map[string]*nav.Link
}

func newRootView(m *Model) *rootView {
	v := &rootView{m: m, links: map[string]*nav.Link{}}
	links := []*nav.Link{
		nav.NewLink("Tasks", func() nav.View { return newTaskListView(m) },
			nav.WithID(destTasks), nav.WithOwner(ownerRoot)),
		nav.NewLink("New task", func() nav.View { return newTaskFormView(m, "") },
			nav.WithID(destNewTask), nav.WithOwner(ownerRoot)),
		nav.NewLink("Issue tracker", func() nav.View { return newIssueListView(m) },
			nav.WithID(destIssues), nav.WithOwner(ownerRoot)),
	}
	items := make([]uistate.Item, 0, len(links))
	for _, link := range links {
		v.links[link.ID()] = link
		items = append(items, uistate.Item{ID: link.ID(), Label: link.Content()})
	}
	v.level = newLevel("root", "Main Menu", items)
	return v
}

// Appear registers the menu destinations.
func (v *rootView) Appear() tea.Cmd {
	for _, item := range v.level.Full {
		if err := v.links[item.ID].Appear(v.m.nav); err != nil {
			logging.Error(err)
			v.m.errMsg = err.Error()
		}
	}
	return nil
}

func (v *rootView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	if moveCursor(v.level, key, len(v.level.Items)) {
		return nil
	}
	switch key {
	case "q":
		return v.m.quit()
	case "enter", "right", "l":
		item, ok := v.level.Current()
		if !ok {
			return nil
		}
		return v.links[item.ID].Activate(v.m.nav)
	}
	return nil
}

func (v *rootView) View(width, height int) string {
	open := v.m.tasks.TotalTasks() - v.m.tasks.CompletedTasks()
	label := "Tasks"
	if v.m.tasks.Loaded() {
		label = fmt.Sprintf("Tasks (%d open)", open)
	}
	for i := range v.level.Items {
		if v.level.Items[i].ID == destTasks {
			v.level.Items[i].Label = label
		}
	}
	body := listLines(v.level, func(item uistate.Item) (*nav.Link, string) {
		return v.links[item.ID], item.Label
	}, width, v.m.listRows(height, 0))
	return v.m.renderFrame(frame{title: defaultRootTitle, body: body, help: rootHelp}, width, height)
}
