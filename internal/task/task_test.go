package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestAggregateCountsOverdueOnlyForOpenTasks(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	tasks := []Task{
		{ID: "1", Title: "late", Due: ptrTime(yesterday)},
		{ID: "2", Title: "late but done", Due: ptrTime(yesterday), Completed: true},
		{ID: "3", Title: "soon", Due: ptrTime(tomorrow)},
		{ID: "4", Title: "undated"},
	}
	c := Aggregate(tasks, now)
	require.Equal(t, Counts{Total: 4, Completed: 1, Overdue: 1}, c)
	require.Equal(t, 3, c.Remaining())
}

func TestAggregateEmpty(t *testing.T) {
	require.Equal(t, Counts{}, Aggregate(nil, time.Now()))
}

func TestSortOrdersOpenDatedFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "done", Completed: true, CreatedAt: base},
		{ID: "undated", CreatedAt: base},
		{ID: "later", Due: ptrTime(base.Add(48 * time.Hour)), CreatedAt: base},
		{ID: "sooner", Due: ptrTime(base.Add(24 * time.Hour)), CreatedAt: base},
	}
	Sort(tasks)
	ids := make([]string, len(tasks))
	for i, tk := range tasks {
		ids[i] = tk.ID
	}
	require.Equal(t, []string{"sooner", "later", "undated", "done"}, ids)
}

func TestFindByTrackerKeyIsCaseInsensitive(t *testing.T) {
	tasks := []Task{{ID: "a", TrackerKey: "OPS-12"}}
	ok, found := FindByTrackerKey(tasks, "ops-12")
	require.True(t, ok)
	require.Equal(t, "a", found.ID)

	ok, found = FindByTrackerKey(tasks, "")
	require.False(t, ok)
	require.Nil(t, found)
}

func TestParseDue(t *testing.T) {
	due, err := ParseDue("2026-04-01", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 4, 1, 23, 59, 59, 0, time.UTC), *due)

	due, err = ParseDue("2026-04-01 09:30", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC), *due)

	due, err = ParseDue("  ", time.UTC)
	require.NoError(t, err)
	require.Nil(t, due)

	_, err = ParseDue("next week", time.UTC)
	require.ErrorIs(t, err, ErrInvalidTask)
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Task{ID: "x"}.Validate(), ErrInvalidTask)
	require.ErrorIs(t, Task{Title: "x"}.Validate(), ErrInvalidTask)
	require.NoError(t, New("write report").Validate())
}
