package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/atomicstack/simple-todo/internal/app"
	"github.com/atomicstack/simple-todo/internal/config"
	"github.com/atomicstack/simple-todo/internal/logging"
	"github.com/atomicstack/simple-todo/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupTracePayload(cfg))

	if err := run(cfg); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	if cfg.Command != config.CommandStatus {
		return app.Run(cfg.App)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	plain := cfg.Plain || !term.IsTerminal(int(os.Stdout.Fd()))
	return app.Status(ctx, cfg.App, os.Stdout, plain)
}

// startupTracePayload describes the invocation for the trace log. The
// tracker token never leaves the process.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	redacted := cfg
	if redacted.App.Tracker.Token != "" {
		redacted.App.Tracker.Token = "<redacted>"
	}

	payload := map[string]interface{}{
		"command": cfg.Command,
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  redacted,
		"tty":     probeTerminals(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

// terminalProbe is what we learned about one standard descriptor. The popup
// sizes itself from the first descriptor that reports dimensions.
type terminalProbe struct {
	Name   string `json:"name"`
	TTY    bool   `json:"tty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Err    string `json:"error,omitempty"`
}

func probeTerminals() []terminalProbe {
	fds := []struct {
		name string
		file *os.File
	}{{"stdin", os.Stdin}, {"stdout", os.Stdout}, {"stderr", os.Stderr}}

	probes := make([]terminalProbe, 0, len(fds))
	for _, d := range fds {
		p := terminalProbe{Name: d.name}
		fd := int(d.file.Fd())
		if p.TTY = term.IsTerminal(fd); p.TTY {
			w, h, err := term.GetSize(fd)
			if err != nil {
				p.Err = err.Error()
			}
			p.Width, p.Height = w, h
		}
		probes = append(probes, p)
	}
	return probes
}
