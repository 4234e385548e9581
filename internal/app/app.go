package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/atomicstack/simple-todo/internal/backend"
	"github.com/atomicstack/simple-todo/internal/kv"
	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/logging/events"
	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/status"
	"github.com/atomicstack/simple-todo/internal/task"
	"github.com/atomicstack/simple-todo/internal/tmux"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/atomicstack/simple-todo/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath        string
	DBPath            string
	Width             int
	Height            int
	ShowFooter        bool
	Verbose           bool
	PollInterval      time.Duration
	IssuePollInterval time.Duration
	Tracker           tracker.Config
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	backing, err := kv.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer backing.Close()
	store := task.NewStore(backing)

	tr, err := newTracker(cfg.Tracker)
	if err != nil {
		return err
	}

	watcher := backend.NewWatcher(backend.Options{
		Tasks:         store,
		Tracker:       tr,
		Interval:      cfg.PollInterval,
		IssueInterval: cfg.IssuePollInterval,
		StorePath:     backing.Path(),
	})
	defer watcher.Stop()

	model := ui.NewModel(ui.Deps{
		Nav:        nav.New(),
		Tasks:      store,
		Tracker:    tr,
		Watcher:    watcher,
		SocketPath: socketPath,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = program.Run()
	events.App.Stop(err)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Status writes the one-line task summary used by the tmux status line.
func Status(ctx context.Context, cfg Config, w io.Writer, plain bool) error {
	backing, err := kv.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer backing.Close()
	counts, err := task.NewStore(backing).Counts(ctx)
	if err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	summary := status.Summarize(counts)
	events.App.Status(summary.Plain())
	line := summary.Render()
	if plain {
		line = summary.Plain()
	}
	_, err = fmt.Fprintln(w, line)
	return err
}

func newTracker(cfg tracker.Config) (tracker.Tracker, error) {
	if !cfg.Configured() {
		return tracker.Disabled{}, nil
	}
	client, err := tracker.New(cfg)
	if err != nil {
		logging.Error(err)
		return nil, fmt.Errorf("configure tracker: %w", err)
	}
	return client, nil
}
