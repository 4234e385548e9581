// Package task holds the to-do model and its persistent store.
package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrInvalidTask = errors.New("invalid task")
)

// Task is a single to-do entry, optionally linked to a tracker issue.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Notes         string     `json:"notes,omitempty"`
	Due           *time.Time `json:"due,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	TrackerKey    string     `json:"tracker_key,omitempty"`
	TrackerStatus string     `json:"tracker_status,omitempty"`
}

// New returns a task with a fresh identifier.
func New(title string) Task {
	return Task{ID: uuid.NewString(), Title: strings.TrimSpace(title)}
}

// Validate reports whether the task can be stored.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	return nil
}

// Overdue reports whether the task is incomplete and past its due time.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.Due != nil && t.Due.Before(now)
}

// LinkTracker associates the task with an external issue.
func (t *Task) LinkTracker(key, status string) {
	t.TrackerKey = strings.TrimSpace(key)
	t.TrackerStatus = strings.TrimSpace(status)
}

// SetCompleted toggles completion and stamps CompletedAt.
func (t *Task) SetCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		stamp := now
		t.CompletedAt = &stamp
		return
	}
	t.CompletedAt = nil
}

// Counts are the derived totals shown by the status summary.
type Counts struct {
	Total     int
	Completed int
	Overdue   int
}

func (c Counts) TotalTasks() int     { return c.Total }
func (c Counts) CompletedTasks() int { return c.Completed }
func (c Counts) OverdueTasks() int   { return c.Overdue }

// Remaining is the number of incomplete tasks.
func (c Counts) Remaining() int {
	return c.Total - c.Completed
}

// Aggregate computes Counts for tasks at time now.
func Aggregate(tasks []Task, now time.Time) Counts {
	var c Counts
	for _, t := range tasks {
		c.Total++
		if t.Completed {
			c.Completed++
		}
		if t.Overdue(now) {
			c.Overdue++
		}
	}
	return c
}

// Sort orders tasks for display: open before completed, then by due date
// (undated last), then by creation time.
func Sort(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch {
		case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		case a.Due != nil && b.Due == nil:
			return true
		case a.Due == nil && b.Due != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// FindByTrackerKey returns the first task linked to key.
func FindByTrackerKey(tasks []Task, key string) (bool, *Task) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, nil
	}
	for i := range tasks {
		if strings.EqualFold(tasks[i].TrackerKey, key) {
			found := tasks[i]
			return true, &found
		}
	}
	return false, nil
}

// ParseDue parses the due-date formats accepted by the task form. An empty
// string yields nil.
func ParseDue(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	layouts := []string{"2006-01-02 15:04", "2006-01-02"}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			if layout == "2006-01-02" {
				parsed = parsed.Add(24*time.Hour - time.Second)
			}
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: due date %q must be YYYY-MM-DD or YYYY-MM-DD HH:MM", ErrInvalidTask, value)
}
