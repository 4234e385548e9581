package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/atomicstack/simple-todo/internal/format/table"
	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/logging/events"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/atomicstack/simple-todo/internal/ui/command"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const issueListHelp = "↑/↓ move  enter open  / search  ctrl+r sync linked  esc back"

const (
	actionDetail  = "Detail →"
	actionNewTask = "New task →"
)

var issueColumns = []table.Column{
	{Align: table.AlignLeft},
	{Align: table.AlignLeft, Flex: true, Min: 8},
	{Align: table.AlignLeft, Flex: true, Min: 6},
	{Align: table.AlignLeft},
}

// issuesLoadedMsg answers the load started by the issue list with the same
// sequence number.
type issuesLoadedMsg struct {
	seq    uint64
	issues []tracker.Issue
	err    error
}

type issueListView struct {
	m       *Model
	level   *level
	links   map[string]*nav.Link
	seq     uint64
	loading bool
	search  bool
	spinner spinner.Model
}

func newIssueListView(m *Model) *issueListView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if styles.Loading != nil {
		s.Style = *styles.Loading
	}
	return &issueListView{
		m:       m,
		level:   newLevel(destIssues, "Issues", nil),
		links:   map[string]*nav.Link{},
		spinner: s,
	}
}

// Appear starts a fresh load. Results of earlier loads are ignored.
func (v *issueListView) Appear() tea.Cmd {
	v.seq++
	v.loading = true
	v.Refresh()
	events.Tracker.Load(destIssues, v.seq)
	return tea.Batch(v.spinner.Tick, v.loadCmd(v.seq))
}

func (v *issueListView) loadCmd(seq uint64) tea.Cmd {
	tr := v.m.tracker
	return v.m.bus.Execute(command.Request{ID: "issues:load", Label: "my issues", Handler: func(ctx context.Context) tea.Msg {
		issues, err := tr.MyIssues(ctx)
		return issuesLoadedMsg{seq: seq, issues: issues, err: err}
	}})
}

// Refresh rebuilds rows from the issue store. Issues that a local task
// already references link to that task's detail view; the rest offer to
// create one.
func (v *issueListView) Refresh() {
	issues := v.m.issues.Entries()
	items := make([]uistate.Item, 0, len(issues))
	links := make(map[string]*nav.Link, len(issues))
	for _, issue := range issues {
		link := v.linkFor(issue)
		if err := link.Appear(v.m.nav); err != nil {
			logging.Error(err)
		}
		links[issue.Key] = link
		items = append(items, uistate.Item{ID: issue.Key, Label: issue.Key + " " + issue.Summary, Search: issue.Status})
	}
	v.links = links
	v.level.UpdateItems(items)
}

func (v *issueListView) linkFor(issue tracker.Issue) *nav.Link {
	if found, t := v.m.tasks.HasTask(issue.Key); found && t != nil {
		return newDetailLink(v.m, t.ID, actionDetail)
	}
	return nav.NewLink(actionNewTask, nil,
		nav.WithID("issue:"+issue.Key),
		nav.WithOwner(ownerIssues),
		nav.WithAutoNavigate(false))
}

// Escape leaves search mode before leaving the view.
func (v *issueListView) Escape() bool {
	if !v.search {
		return false
	}
	v.toggleSearch()
	return true
}

func (v *issueListView) toggleSearch() {
	v.search = !v.search
	if !v.search {
		v.m.clearFilter(v.level)
	}
}

func (v *issueListView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case issuesLoadedMsg:
		return v.handleLoaded(msg)
	case spinner.TickMsg:
		if !v.loading {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *issueListView) handleLoaded(msg issuesLoadedMsg) tea.Cmd {
	if msg.seq != v.seq {
		events.Tracker.Stale(destIssues, msg.seq, v.seq)
		return nil
	}
	v.loading = false
	if msg.err != nil {
		if !errors.Is(msg.err, tracker.ErrNotConfigured) {
			logging.Error(msg.err)
		}
		v.m.issues.SetErr(msg.err)
		return nil
	}
	v.m.issues.SetEntries(msg.issues)
	v.Refresh()
	return nil
}

func (v *issueListView) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if moveCursor(v.level, key, v.m.listRows(v.m.height, 1)) {
		return nil
	}
	switch key {
	case "/":
		v.toggleSearch()
		return nil
	case "ctrl+r":
		return v.m.syncTrackerCmd(v.m.tasks.Entries())
	case "enter":
		item, ok := v.level.Current()
		if !ok {
			return nil
		}
		link := v.links[item.ID]
		if link == nil {
			return nil
		}
		cmd := link.Activate(v.m.nav)
		if link.AutoNavigate() {
			return cmd
		}
		return tea.Batch(cmd, v.m.createFromIssueCmd(item.ID))
	}
	if v.search {
		v.m.handleTextInput(v.level, msg, true)
	}
	return nil
}

func (v *issueListView) View(width, height int) string {
	body := make([]styledLine, 0, len(v.level.Items)+2)
	var filter *level
	if v.search {
		filter = v.level
	}
	switch {
	case v.loading && len(v.level.Full) == 0:
		body = append(body, styledLine{text: v.spinner.View() + " Loading issues…", raw: true})
	case v.m.issues.Err() != nil && len(v.level.Full) == 0:
		body = append(body, styledLine{text: issueErrorText(v.m.issues.Err()), style: styles.Error})
	default:
		body = append(body, v.tableLines(width, height)...)
	}
	return v.m.renderFrame(frame{title: "issues", body: body, filter: filter, help: issueListHelp}, width, height)
}

// tableLines lays out the visible issues as Key / Summary / Status / Action
// columns with a header row.
func (v *issueListView) tableLines(width, height int) []styledLine {
	issues := make(map[string]tracker.Issue)
	for _, issue := range v.m.issues.Entries() {
		issues[issue.Key] = issue
	}
	rows := make([][]string, 0, len(v.level.Items)+1)
	rows = append(rows, []string{"Key", "Summary", "Status", "Action"})
	for _, item := range v.level.Items {
		issue := issues[item.ID]
		action := actionNewTask
		if link := v.links[item.ID]; link != nil && link.AutoNavigate() {
			action = actionDetail
		}
		rows = append(rows, []string{issue.Key, issue.Summary, issue.Status, action})
	}
	cellWidth := width - 2
	if cellWidth < 0 {
		cellWidth = 0
	}
	formatted := table.Fit(rows, issueColumns, cellWidth)
	byKey := make(map[string]string, len(v.level.Items))
	for i, item := range v.level.Items {
		byKey[item.ID] = formatted[i+1]
	}
	header := styledLine{text: "  " + formatted[0], style: styles.Header}
	if v.loading {
		header = styledLine{text: "  " + formatted[0] + " " + v.spinner.View(), raw: true}
	}
	lines := []styledLine{header}
	rowsFit := v.m.listRows(height, 1)
	lines = append(lines, listLines(v.level, func(item uistate.Item) (*nav.Link, string) {
		return v.links[item.ID], strings.TrimRight(byKey[item.ID], " ")
	}, width, rowsFit)...)
	return lines
}

func issueErrorText(err error) string {
	switch {
	case errors.Is(err, tracker.ErrNotConfigured):
		return "Issue tracker not configured (set --tracker-url and SIMPLE_TODO_TRACKER_TOKEN)"
	case errors.Is(err, tracker.ErrAuthFailed):
		return "Issue tracker rejected the credentials"
	default:
		return err.Error()
	}
}
