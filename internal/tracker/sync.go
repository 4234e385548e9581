package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/atomicstack/simple-todo/internal/logging/events"
	"github.com/atomicstack/simple-todo/internal/task"
	"golang.org/x/sync/errgroup"
)

// DefaultSyncConcurrency bounds the number of in-flight detail requests.
const DefaultSyncConcurrency = 4

// RefreshStatuses fetches the current tracker status of every linked task and
// returns the tasks whose status changed, with TrackerStatus updated. Issues
// that no longer exist are skipped. Any other failure aborts the refresh.
func RefreshStatuses(ctx context.Context, tr Tracker, tasks []task.Task, limit int) ([]task.Task, error) {
	if limit < 1 {
		limit = DefaultSyncConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var (
		mu      sync.Mutex
		changed []task.Task
		linked  int
	)
	for _, t := range tasks {
		if t.TrackerKey == "" {
			continue
		}
		linked++
		t := t
		g.Go(func() error {
			detail, err := tr.IssueDetail(gctx, t.TrackerKey)
			if errors.Is(err, ErrIssueNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if detail.Status == t.TrackerStatus {
				return nil
			}
			t.TrackerStatus = detail.Status
			mu.Lock()
			changed = append(changed, t)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	task.Sort(changed)
	events.Tracker.Sync(linked, len(changed))
	return changed, nil
}
