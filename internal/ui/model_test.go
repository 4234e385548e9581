package ui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/simple-todo/internal/backend"
	"github.com/atomicstack/simple-todo/internal/kv"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestMain(m *testing.M) {
	cursorMode = cursor.CursorStatic
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// fakeTracker serves canned issues. Missing detail keys report
// ErrIssueNotFound.
type fakeTracker struct {
	issues  []tracker.Issue
	details map[string]tracker.IssueDetail
	err     error
}

func (f *fakeTracker) MyIssues(context.Context) ([]tracker.Issue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.issues, nil
}

func (f *fakeTracker) IssueDetail(_ context.Context, key string) (tracker.IssueDetail, error) {
	if f.err != nil {
		return tracker.IssueDetail{}, f.err
	}
	detail, ok := f.details[key]
	if !ok {
		return tracker.IssueDetail{}, tracker.ErrIssueNotFound
	}
	return detail, nil
}

func newTestStore(t *testing.T, tasks ...task.Task) *task.Store {
	t.Helper()
	backing, err := kv.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { backing.Close() })
	store := task.NewStore(backing)
	store.SetClock(fixedNow)
	for _, tk := range tasks {
		if _, err := store.SaveTask(context.Background(), tk); err != nil {
			t.Fatalf("seed task %q: %v", tk.Title, err)
		}
	}
	return store
}

func newTestHarness(t *testing.T, tr tracker.Tracker, tasks ...task.Task) (*Harness, *task.Store) {
	t.Helper()
	store := newTestStore(t, tasks...)
	model := NewModel(Deps{
		Nav:     nav.New(nav.WithTransition(0, nil)),
		Tasks:   store,
		Tracker: tr,
		Width:   80,
		Height:  24,
		Now:     fixedNow,
	})
	return NewHarness(model), store
}

func storedTasks(t *testing.T, store *task.Store) []task.Task {
	t.Helper()
	tasks, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	return tasks
}

func dueAt(d time.Duration) *time.Time {
	due := testNow.Add(d)
	return &due
}

// openRootItem moves the root cursor to id and selects it.
func openRootItem(t *testing.T, h *Harness, id string) {
	t.Helper()
	if !h.Model().container.AtRoot() {
		t.Fatalf("expected root view before opening %s", id)
	}
	if !h.Model().root.level.Select(id) {
		t.Fatalf("root has no item %s", id)
	}
	h.Key("enter")
	if got := h.Model().nav.Current(); got != id {
		t.Fatalf("expected current %q, got %q", id, got)
	}
}

func TestRootViewShowsAllClearWhenEmpty(t *testing.T) {
	h, _ := newTestHarness(t, nil)
	view := h.View()
	for _, want := range []string{"✔ All Clear", "main menu", "Tasks (0 open)", "New task", "Issue tracker"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestHeaderPrefersOverdueWithoutGlyph(t *testing.T) {
	late := task.New("file taxes")
	late.Due = dueAt(-48 * time.Hour)
	done := task.New("water plants")
	done.SetCompleted(true, testNow)
	h, _ := newTestHarness(t, nil, late, done)

	header := strings.SplitN(h.View(), "\n", 2)[0]
	if !strings.Contains(header, "‼️1 tasks overdue") {
		t.Fatalf("expected overdue summary, got %q", header)
	}
	if strings.Contains(header, "☰") || strings.Contains(header, "✔") {
		t.Fatalf("overdue summary should carry no glyph, got %q", header)
	}
}

func TestHeaderCountsRemainingTasks(t *testing.T) {
	open := task.New("write report")
	done := task.New("water plants")
	done.SetCompleted(true, testNow)
	h, _ := newTestHarness(t, nil, open, done)
	if header := strings.SplitN(h.View(), "\n", 2)[0]; !strings.Contains(header, "☰ 1 tasks") {
		t.Fatalf("expected in-progress summary, got %q", header)
	}
}

func TestEscAtRootQuits(t *testing.T) {
	h, _ := newTestHarness(t, nil)
	h.Key("esc")
	if !h.Quit() {
		t.Fatalf("expected esc at root to quit")
	}
}

func TestEscReturnsToRoot(t *testing.T) {
	h, _ := newTestHarness(t, nil, task.New("write report"))
	openRootItem(t, h, destTasks)
	if view := h.View(); !strings.Contains(view, "main menu→tasks") {
		t.Fatalf("expected breadcrumb in view:\n%s", view)
	}
	h.Key("esc")
	if h.Quit() {
		t.Fatalf("esc below root should not quit")
	}
	if got := h.Model().nav.Current(); got != nav.Root {
		t.Fatalf("expected root after esc, got %q", got)
	}
}

func TestBlurResetsSelectionToRoot(t *testing.T) {
	tk := task.New("write report")
	h, _ := newTestHarness(t, nil, tk)
	openRootItem(t, h, destTasks)
	h.Key("enter")
	if got := h.Model().nav.Current(); got != detailID(tk.ID) {
		t.Fatalf("expected task detail, got %q", got)
	}

	h.Send(tea.BlurMsg{})
	m := h.Model()
	if m.nav.Current() != nav.Root || !m.container.AtRoot() {
		t.Fatalf("expected blur to reset to root, current %q", m.nav.Current())
	}
	if !m.nav.Payload().Empty() {
		t.Fatalf("expected payload cleared on blur")
	}
}

func TestDanglingSelectionFallsBackToRoot(t *testing.T) {
	h, _ := newTestHarness(t, nil)
	h.Model().nav.Push("nowhere")
	h.Model().container.Sync()
	if !h.Model().container.AtRoot() {
		t.Fatalf("expected root view for an unregistered selection")
	}
	if view := h.View(); !strings.Contains(view, "Issue tracker") {
		t.Fatalf("expected root menu to render, got:\n%s", view)
	}
}

func TestStaleCommandResultIsDropped(t *testing.T) {
	first := task.New("write report")
	h, store := newTestHarness(t, nil, first)
	m := h.Model()

	older := m.loadTasksCmd()
	olderMsg := older()
	if _, err := store.SaveTask(context.Background(), task.New("buy milk")); err != nil {
		t.Fatalf("save: %v", err)
	}
	newer := m.loadTasksCmd()
	h.Send(newer())
	if got := m.tasks.TotalTasks(); got != 2 {
		t.Fatalf("expected 2 tasks after newer load, got %d", got)
	}
	h.Send(olderMsg)
	if got := m.tasks.TotalTasks(); got != 2 {
		t.Fatalf("expected stale load to be ignored, got %d tasks", got)
	}
}

func TestBackendSnapshotRefreshesVisibleList(t *testing.T) {
	h, _ := newTestHarness(t, nil)
	openRootItem(t, h, destTasks)

	added := task.New("from another popup")
	added.CreatedAt = testNow
	h.Send(backendEventMsg{event: backend.Event{
		Kind: backend.KindTasks,
		Data: backend.TaskSnapshot{Tasks: []task.Task{added}, At: testNow},
	}})
	if view := h.View(); !strings.Contains(view, "from another popup") {
		t.Fatalf("expected polled task in list:\n%s", view)
	}
}

func TestBackendErrorShowsWarning(t *testing.T) {
	h, _ := newTestHarness(t, nil)
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTasks, Err: errors.New("database is locked")}})
	if view := h.View(); !strings.Contains(view, "Warning: database is locked") {
		t.Fatalf("expected backend warning:\n%s", view)
	}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTasks, Data: backend.TaskSnapshot{}}})
	if view := h.View(); strings.Contains(view, "Warning:") {
		t.Fatalf("expected warning cleared after a good poll:\n%s", view)
	}
}

func TestWindowSizeRespectsFixedDimensions(t *testing.T) {
	h, _ := newTestHarness(t, nil)
	h.Send(tea.WindowSizeMsg{Width: 200, Height: 60})
	if m := h.Model(); m.width != 80 || m.height != 24 {
		t.Fatalf("expected fixed 80x24, got %dx%d", m.width, m.height)
	}
}

func TestInfoMessageExpires(t *testing.T) {
	now := testNow
	m := NewModel(Deps{Nav: nav.New(nav.WithTransition(0, nil)), Now: func() time.Time { return now }})
	m.setInfo("saved")
	if got := m.currentInfo(); got != "saved" {
		t.Fatalf("expected info, got %q", got)
	}
	now = now.Add(infoDuration + time.Second)
	if got := m.currentInfo(); got != "" {
		t.Fatalf("expected info to expire, got %q", got)
	}
}
