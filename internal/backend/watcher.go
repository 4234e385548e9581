package backend

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/fsnotify/fsnotify"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindTasks Kind = iota
	KindIssues
)

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// TaskSnapshot is the payload of a KindTasks event.
type TaskSnapshot struct {
	Tasks []task.Task
	At    time.Time
}

// IssueSnapshot is the payload of a KindIssues event.
type IssueSnapshot struct {
	Issues []tracker.Issue
	At     time.Time
}

// TaskLister is the part of the task store the watcher reads.
type TaskLister interface {
	List(ctx context.Context) ([]task.Task, error)
}

// Options configures a Watcher.
type Options struct {
	Tasks    TaskLister
	Tracker  tracker.Tracker
	Interval time.Duration
	// IssueInterval enables background issue polling when positive.
	IssueInterval time.Duration
	// StorePath is watched for writes by other processes. Empty or
	// ":memory:" disables file watching.
	StorePath string
}

// Watcher polls the task store (and optionally the tracker) and publishes
// events.
type Watcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wake   chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher starts the pollers described by opts.
func NewWatcher(opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
		wake:   make(chan struct{}, 1),
	}

	if opts.Tasks != nil {
		w.startTaskPoller()
		w.startStoreWatch()
	}
	if opts.Tracker != nil && opts.IssueInterval > 0 {
		w.startIssuePoller()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Refresh asks the task poller to run now instead of waiting for the next
// tick.
func (w *Watcher) Refresh() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startTaskPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(KindTasks, w.opts.Interval, w.wake, func(ctx context.Context) (interface{}, error) {
		if err := throttle.wait(ctx); err != nil {
			return nil, err
		}
		tasks, err := w.opts.Tasks.List(ctx)
		if err != nil {
			return nil, err
		}
		return TaskSnapshot{Tasks: tasks, At: time.Now()}, nil
	})
}

func (w *Watcher) startIssuePoller() {
	throttle := newThrottle(time.Second)
	w.wg.Add(1)
	go w.poll(KindIssues, w.opts.IssueInterval, nil, func(ctx context.Context) (interface{}, error) {
		if err := throttle.wait(ctx); err != nil {
			return nil, err
		}
		issues, err := w.opts.Tracker.MyIssues(ctx)
		if err != nil {
			return nil, err
		}
		return IssueSnapshot{Issues: issues, At: time.Now()}, nil
	})
}

// startStoreWatch wakes the task poller when the database files change.
func (w *Watcher) startStoreWatch() {
	path := w.opts.StorePath
	if path == "" || path == ":memory:" {
		return
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error(err)
		return
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		logging.Error(err)
		_ = fw.Close()
		return
	}
	base := filepath.Base(path)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fw.Close()
		for {
			select {
			case <-w.ctx.Done():
				return
			case evt, ok := <-fw.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(evt.Name), base) {
					continue
				}
				if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) {
					w.Refresh()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logging.Error(err)
			}
		}
	}()
}

func (w *Watcher) poll(kind Kind, interval time.Duration, wake <-chan struct{}, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		case <-wake:
			if !emit() {
				return
			}
		}
	}
}
