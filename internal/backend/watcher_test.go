package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	calls atomic.Int32
	err   error
}

func (f *fakeLister) List(context.Context) ([]task.Task, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []task.Task{task.New("water plants")}, nil
}

type fakeTracker struct{}

func (fakeTracker) MyIssues(context.Context) ([]tracker.Issue, error) {
	return []tracker.Issue{{Key: "OPS-1"}}, nil
}

func (fakeTracker) IssueDetail(context.Context, string) (tracker.IssueDetail, error) {
	return tracker.IssueDetail{}, tracker.ErrIssueNotFound
}

func nextEvent(t *testing.T, w *Watcher, kind Kind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-w.Events():
			require.True(t, ok, "events channel closed early")
			if evt.Kind == kind {
				return evt
			}
		case <-deadline:
			t.Fatalf("timed out waiting for kind %d", kind)
		}
	}
}

func TestWatcherEmitsInitialTaskSnapshot(t *testing.T) {
	lister := &fakeLister{}
	w := NewWatcher(Options{Tasks: lister, Interval: time.Hour})
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := nextEvent(t, w, KindTasks)
	require.NoError(t, evt.Err)
	snap, ok := evt.Data.(TaskSnapshot)
	require.True(t, ok)
	require.Len(t, snap.Tasks, 1)
}

func TestWatcherRefreshTriggersPoll(t *testing.T) {
	lister := &fakeLister{}
	w := NewWatcher(Options{Tasks: lister, Interval: time.Hour})
	defer func() {
		w.Stop()
		w.Wait()
	}()

	nextEvent(t, w, KindTasks)
	w.Refresh()
	nextEvent(t, w, KindTasks)
	require.GreaterOrEqual(t, lister.calls.Load(), int32(2))
}

func TestWatcherReportsErrors(t *testing.T) {
	lister := &fakeLister{err: errors.New("locked")}
	w := NewWatcher(Options{Tasks: lister, Interval: time.Hour})
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := nextEvent(t, w, KindTasks)
	require.EqualError(t, evt.Err, "locked")
}

func TestWatcherPollsIssuesWhenEnabled(t *testing.T) {
	w := NewWatcher(Options{Tracker: fakeTracker{}, IssueInterval: time.Hour})
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := nextEvent(t, w, KindIssues)
	snap, ok := evt.Data.(IssueSnapshot)
	require.True(t, ok)
	require.Equal(t, "OPS-1", snap.Issues[0].Key)
}

func TestWatcherStopClosesEvents(t *testing.T) {
	w := NewWatcher(Options{Tasks: &fakeLister{}, Interval: time.Hour})
	w.Stop()
	w.Wait()
	for range w.Events() {
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(20 * time.Millisecond)
	start := time.Now()
	require.NoError(t, th.wait(context.Background()))
	require.NoError(t, th.wait(context.Background()))
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	require.NoError(t, newThrottle(0).wait(context.Background()))
}

func TestThrottleStopsWithContext(t *testing.T) {
	th := newThrottle(time.Hour)
	require.NoError(t, th.wait(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, th.wait(ctx))
}
