package state

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/tracker"
)

func TestTaskStoreAggregates(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	store := NewTaskStore()
	store.SetClock(func() time.Time { return now })

	if store.TotalTasks() != 0 || store.CompletedTasks() != 0 || store.OverdueTasks() != 0 {
		t.Fatalf("expected zero aggregates on empty store")
	}

	done := task.New("done")
	done.Completed = true
	late := task.New("late")
	late.Due = &past
	open := task.New("open")
	open.LinkTracker("OPS-9", "To Do")
	store.SetEntries([]task.Task{done, late, open})

	if got := store.TotalTasks(); got != 3 {
		t.Fatalf("expected 3 tasks, got %d", got)
	}
	if got := store.CompletedTasks(); got != 1 {
		t.Fatalf("expected 1 completed, got %d", got)
	}
	if got := store.OverdueTasks(); got != 1 {
		t.Fatalf("expected 1 overdue, got %d", got)
	}
	ok, ref := store.HasTask("ops-9")
	if !ok || ref == nil || ref.ID != open.ID {
		t.Fatalf("expected tracker lookup to find open task, got %v %#v", ok, ref)
	}
	if ok, _ := store.HasTask(""); ok {
		t.Fatalf("expected empty key lookup to miss")
	}
}

func TestTaskStoreUpsertAndRemove(t *testing.T) {
	store := NewTaskStore()
	if store.Loaded() {
		t.Fatalf("expected store to start unloaded")
	}
	a := task.New("a")
	store.SetEntries([]task.Task{a})
	a.Title = "renamed"
	store.Upsert(a)
	got, ok := store.Find(a.ID)
	if !ok || got.Title != "renamed" {
		t.Fatalf("expected upsert to replace title, got %#v", got)
	}
	b := task.New("b")
	store.Upsert(b)
	if len(store.Entries()) != 2 {
		t.Fatalf("expected upsert to append new task")
	}
	store.Remove(a.ID)
	if _, ok := store.Find(a.ID); ok {
		t.Fatalf("expected task removed")
	}
}

func TestIssueStoreKeepsEntriesOnError(t *testing.T) {
	store := NewIssueStore()
	store.SetEntries([]tracker.Issue{{Key: "OPS-1"}})
	store.SetErr(errors.New("offline"))
	if len(store.Entries()) != 1 || store.Err() == nil || !store.Loaded() {
		t.Fatalf("unexpected issue store state: %#v %v", store.Entries(), store.Err())
	}
	store.SetEntries(nil)
	if store.Err() != nil {
		t.Fatalf("expected successful load to clear error")
	}
}
