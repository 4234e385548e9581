package state

import (
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/task"
)

// TaskStore holds the latest task snapshot read by the views.
type TaskStore interface {
	Entries() []task.Task
	SetEntries([]task.Task)
	Find(id string) (task.Task, bool)
	Upsert(task.Task)
	Remove(id string)
	Loaded() bool
	TotalTasks() int
	CompletedTasks() int
	OverdueTasks() int
	HasTask(externalID string) (bool, *task.Task)
	SetClock(func() time.Time)
}

type taskStore struct {
	entries []task.Task
	loaded  bool
	now     func() time.Time
}

func NewTaskStore() TaskStore {
	return &taskStore{now: time.Now}
}

func (s *taskStore) Entries() []task.Task {
	return cloneTasks(s.entries)
}

func (s *taskStore) SetEntries(entries []task.Task) {
	s.entries = cloneTasks(entries)
	task.Sort(s.entries)
	s.loaded = true
}

func (s *taskStore) Find(id string) (task.Task, bool) {
	for _, t := range s.entries {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// Upsert applies a local mutation ahead of the next backend snapshot.
func (s *taskStore) Upsert(t task.Task) {
	for i := range s.entries {
		if s.entries[i].ID == t.ID {
			s.entries[i] = t
			task.Sort(s.entries)
			return
		}
	}
	s.entries = append(s.entries, t)
	task.Sort(s.entries)
}

func (s *taskStore) Remove(id string) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *taskStore) Loaded() bool {
	return s.loaded
}

func (s *taskStore) counts() task.Counts {
	return task.Aggregate(s.entries, s.now())
}

func (s *taskStore) TotalTasks() int     { return s.counts().Total }
func (s *taskStore) CompletedTasks() int { return s.counts().Completed }
func (s *taskStore) OverdueTasks() int   { return s.counts().Overdue }

func (s *taskStore) HasTask(externalID string) (bool, *task.Task) {
	if strings.TrimSpace(externalID) == "" {
		return false, nil
	}
	return task.FindByTrackerKey(s.entries, externalID)
}

func (s *taskStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func cloneTasks(entries []task.Task) []task.Task {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]task.Task, len(entries))
	copy(dup, entries)
	return dup
}
