package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/kv"
	"github.com/atomicstack/simple-todo/internal/logging/events"
)

const keyPrefix = "task:"

// Store persists tasks as JSON values in a kv.Store.
type Store struct {
	kv  *kv.Store
	now func() time.Time
}

// NewStore wraps a key-value store.
func NewStore(backing *kv.Store) *Store {
	return &Store{kv: backing, now: time.Now}
}

// SetClock overrides the time source; used by tests.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns every task in display order.
func (s *Store) List(ctx context.Context) ([]Task, error) {
	entries, err := s.kv.Scan(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]Task, 0, len(entries))
	for _, entry := range entries {
		var t Task
		if err := json.Unmarshal(entry.Value, &t); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
		}
		tasks = append(tasks, t)
	}
	Sort(tasks)
	return tasks, nil
}

// Get loads a single task.
func (s *Store) Get(ctx context.Context, id string) (Task, error) {
	raw, err := s.kv.Get(ctx, keyPrefix+id)
	if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrEmptyKey) {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Task{}, err
	}
	var t Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	return t, nil
}

// SaveTask validates and writes t, stamping CreatedAt/UpdatedAt. It returns
// the stored copy.
func (s *Store) SaveTask(ctx context.Context, t Task) (Task, error) {
	t, raw, created, err := s.encode(t)
	if err != nil {
		return Task{}, err
	}
	if err := s.kv.Put(ctx, keyPrefix+t.ID, raw); err != nil {
		return Task{}, err
	}
	events.Task.Save(t.ID, t.Title, created)
	return t, nil
}

// ToggleCompleted flips completion for id and returns the stored task. The
// read and the write share one transaction.
func (s *Store) ToggleCompleted(ctx context.Context, id string) (Task, error) {
	var stored Task
	err := s.kv.Update(ctx, keyPrefix+id, func(old []byte) ([]byte, error) {
		var t Task
		if err := json.Unmarshal(old, &t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", id, err)
		}
		t.SetCompleted(!t.Completed, s.now())
		t, raw, _, err := s.encode(t)
		if err != nil {
			return nil, err
		}
		stored = t
		return raw, nil
	})
	if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrEmptyKey) {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Task{}, err
	}
	events.Task.Toggle(id, stored.Completed)
	events.Task.Save(stored.ID, stored.Title, false)
	return stored, nil
}

func (s *Store) encode(t Task) (Task, []byte, bool, error) {
	t.Title = strings.TrimSpace(t.Title)
	if err := t.Validate(); err != nil {
		return Task{}, nil, false, err
	}
	now := s.now()
	created := t.CreatedAt.IsZero()
	if created {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	raw, err := json.Marshal(t)
	if err != nil {
		return Task{}, nil, false, fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	return t, raw, created, nil
}

// Delete removes id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, keyPrefix+id); err != nil {
		if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrEmptyKey) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	events.Task.Delete(id)
	return nil
}

// HasTask reports whether a task is linked to the external issue key.
func (s *Store) HasTask(ctx context.Context, externalID string) (bool, *Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return false, nil, err
	}
	ok, t := FindByTrackerKey(tasks, externalID)
	return ok, t, nil
}

// Counts aggregates the stored tasks at the store clock's current time.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Aggregate(tasks, s.now()), nil
}
