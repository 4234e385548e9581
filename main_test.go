package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/simple-todo/internal/app"
	"github.com/atomicstack/simple-todo/internal/config"
	"github.com/atomicstack/simple-todo/internal/tracker"
)

func TestProbeTerminalsCoversStandardDescriptors(t *testing.T) {
	probes := probeTerminals()
	want := []string{"stdin", "stdout", "stderr"}
	if len(probes) != len(want) {
		t.Fatalf("expected %d probes, got %d", len(want), len(probes))
	}
	for i, name := range want {
		if probes[i].Name != name {
			t.Fatalf("probe %d: expected %q, got %q", i, name, probes[i].Name)
		}
		if !probes[i].TTY && (probes[i].Width != 0 || probes[i].Height != 0) {
			t.Fatalf("non-terminal %s reported a size", name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SocketPath:   "socket-path",
			DBPath:       "tasks.db",
			Width:        80,
			Height:       24,
			ShowFooter:   true,
			Verbose:      true,
			PollInterval: 5 * time.Second,
			Tracker:      tracker.Config{BaseURL: "https://jira.example.com", Token: "t"},
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"socket":  "socket-path",
			"width":   "80",
			"height":  "24",
			"footer":  "true",
			"verbose": "true",
		},
		Args: []string{"--socket", "socket-path"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["socket"] != "socket-path" {
		t.Fatalf("expected socket flag %q, got %v", "socket-path", flagsValue["socket"])
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["height"] != "24" {
		t.Fatalf("expected height 24, got %v", flagsValue["height"])
	}
	if flagsValue["footer"] != "true" {
		t.Fatalf("expected footer flag true, got %v", flagsValue["footer"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["verbose"] != "true" {
		t.Fatalf("expected verbose flag true, got %v", flagsValue["verbose"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].([]terminalProbe); !ok {
		t.Fatalf("expected terminal probes in payload")
	}
	cfgValue, ok := payload["config"].(config.Config)
	if !ok {
		t.Fatalf("expected config in payload")
	}
	if cfgValue.App.Tracker.Token != "<redacted>" {
		t.Fatalf("expected tracker token redacted, got %q", cfgValue.App.Tracker.Token)
	}
	if cfg.App.Tracker.Token != "t" {
		t.Fatalf("redaction must not touch the caller's config")
	}
	if cfgValue.App.DBPath != cfg.App.DBPath || cfgValue.App.Tracker.BaseURL != cfg.App.Tracker.BaseURL {
		t.Fatalf("expected remaining app config kept, got %#v", cfgValue.App)
	}
}

func TestRunStatusCommandPrintsSummary(t *testing.T) {
	cfg := config.Config{
		App:     app.Config{DBPath: filepath.Join(t.TempDir(), "tasks.db")},
		Command: config.CommandStatus,
		Plain:   true,
	}
	var out bytes.Buffer
	if err := app.Status(t.Context(), cfg.App, &out, cfg.Plain); err != nil {
		t.Fatalf("status: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "✔ All Clear" {
		t.Fatalf("expected empty store to be all clear, got %q", got)
	}
}

func TestStartupTracePayloadRecordsCommand(t *testing.T) {
	payload := startupTracePayload(config.Config{Command: config.CommandStatus})
	if payload["command"] != config.CommandStatus {
		t.Fatalf("expected command %q in payload, got %v", config.CommandStatus, payload["command"])
	}
}
