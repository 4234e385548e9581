package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const formHelp = "tab next field  enter save  ctrl+s save  esc cancel"

const (
	fieldTitle = iota
	fieldNotes
	fieldDue
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Notes", "Due"}

// taskFormView creates a task (empty id) or edits an existing one.
type taskFormView struct {
	m      *Model
	id     string
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
	loc    *time.Location
}

func newTaskFormView(m *Model, id string) *taskFormView {
	v := &taskFormView{m: m, id: id, loc: time.Local}
	for i := range v.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Cursor.SetMode(cursorMode)
		v.inputs[i] = ti
	}
	v.inputs[fieldTitle].CharLimit = 200
	v.inputs[fieldTitle].Placeholder = "What needs doing?"
	v.inputs[fieldNotes].Placeholder = "optional"
	v.inputs[fieldDue].Placeholder = "YYYY-MM-DD or YYYY-MM-DD HH:MM"
	v.inputs[fieldDue].CharLimit = 16
	return v
}

// Appear resets the inputs from the stored task, or clears them for a new
// task.
func (v *taskFormView) Appear() tea.Cmd {
	if v.id != "" {
		if id, ok := nav.Lookup(v.m.nav.Payload(), taskIDKey); ok && id != "" {
			v.id = id
		}
	}
	v.err = ""
	for i := range v.inputs {
		v.inputs[i].SetValue("")
	}
	if t, ok := v.existing(); ok {
		v.inputs[fieldTitle].SetValue(t.Title)
		v.inputs[fieldNotes].SetValue(t.Notes)
		if t.Due != nil {
			v.inputs[fieldDue].SetValue(t.Due.In(v.loc).Format("2006-01-02 15:04"))
		}
	}
	v.setFocus(fieldTitle)
	return nil
}

func (v *taskFormView) existing() (task.Task, bool) {
	if v.id == "" {
		return task.Task{}, false
	}
	return v.m.tasks.Find(v.id)
}

func (v *taskFormView) setFocus(idx int) {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	v.focus = idx
	for i := range v.inputs {
		if i == idx {
			v.inputs[i].Focus()
			v.inputs[i].CursorEnd()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *taskFormView) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			v.setFocus(v.focus + 1)
			return nil
		case "shift+tab", "up":
			v.setFocus(v.focus - 1)
			return nil
		case "enter":
			if v.focus < fieldCount-1 {
				v.setFocus(v.focus + 1)
				return nil
			}
			return v.submit()
		case "ctrl+s":
			return v.submit()
		}
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		v.err = ""
	}
	return cmd
}

func (v *taskFormView) submit() tea.Cmd {
	t, err := v.build()
	if err != nil {
		v.err = err.Error()
		return nil
	}
	v.err = ""
	return v.m.saveTaskCmd(t, true)
}

// build validates the inputs and returns the task to store.
func (v *taskFormView) build() (task.Task, error) {
	title := strings.TrimSpace(v.inputs[fieldTitle].Value())
	if title == "" {
		v.setFocus(fieldTitle)
		return task.Task{}, errors.New("title is required")
	}
	due, err := task.ParseDue(v.inputs[fieldDue].Value(), v.loc)
	if err != nil {
		v.setFocus(fieldDue)
		return task.Task{}, err
	}
	t, ok := v.existing()
	if !ok {
		t = task.New(title)
	}
	t.Title = title
	t.Notes = strings.TrimSpace(v.inputs[fieldNotes].Value())
	t.Due = due
	return t, t.Validate()
}

func (v *taskFormView) View(width, height int) string {
	title := "new task"
	if _, ok := v.existing(); ok {
		title = "edit task"
	}
	body := make([]styledLine, 0, fieldCount*2+2)
	for i := range v.inputs {
		labelStyle := styles.FormLabel
		if i == v.focus {
			labelStyle = styles.FormFocused
		}
		label := render(labelStyle, fmt.Sprintf("%-6s", fieldLabels[i]))
		body = append(body, styledLine{text: label + " " + v.inputs[i].View(), raw: true})
	}
	if v.err != "" {
		body = append(body, styledLine{})
		body = append(body, styledLine{text: v.err, style: styles.Error})
	}
	return v.m.renderFrame(frame{title: title, body: body, help: formHelp}, width, height)
}
