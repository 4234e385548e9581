package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/simple-todo/internal/kv"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	backing, err := kv.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { backing.Close() })
	store := NewStore(backing)
	store.SetClock(func() time.Time { return now })
	return store
}

func TestSaveStampsTimesAndLists(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	saved, err := store.SaveTask(ctx, New("  file expenses "))
	require.NoError(t, err)
	require.Equal(t, "file expenses", saved.Title)
	require.Equal(t, now, saved.CreatedAt)
	require.Equal(t, now, saved.UpdatedAt)

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, saved.ID, tasks[0].ID)
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t, time.Now())
	_, err := store.SaveTask(context.Background(), New(""))
	require.ErrorIs(t, err, ErrInvalidTask)
}

func TestToggleAndCounts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	overdue := New("overdue")
	past := now.Add(-time.Hour)
	overdue.Due = &past
	_, err := store.SaveTask(ctx, overdue)
	require.NoError(t, err)
	other, err := store.SaveTask(ctx, New("other"))
	require.NoError(t, err)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, Counts{Total: 2, Completed: 0, Overdue: 1}, counts)

	toggled, err := store.ToggleCompleted(ctx, other.ID)
	require.NoError(t, err)
	require.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)

	counts, err = store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, Counts{Total: 2, Completed: 1, Overdue: 1}, counts)
}

func TestConcurrentTogglesAllApply(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	saved, err := store.SaveTask(ctx, New("flip"))
	require.NoError(t, err)

	const toggles = 6
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ToggleCompleted(ctx, saved.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.False(t, got.Completed)
	require.Nil(t, got.CompletedAt)

	_, err = store.ToggleCompleted(ctx, saved.ID)
	require.NoError(t, err)
	got, err = store.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)
}

func TestToggleMissingTask(t *testing.T) {
	store := newTestStore(t, time.Now())
	_, err := store.ToggleCompleted(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHasTaskByTrackerKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Now())

	linked := New("fix login")
	linked.LinkTracker("WEB-7", "In Progress")
	_, err := store.SaveTask(ctx, linked)
	require.NoError(t, err)

	ok, found, err := store.HasTask(ctx, "WEB-7")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, linked.ID, found.ID)

	ok, found, err = store.HasTask(ctx, "WEB-8")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, found)
}

func TestGetAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Now())
	_, err := store.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "nope"), ErrNotFound)
}
