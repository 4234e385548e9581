package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// BuildBinary compiles simple-todo into a temp dir and returns its path.
func BuildBinary(t *testing.T) string {
	t.Helper()
	RequireTmux(t)
	dir := t.TempDir()
	bin := filepath.Join(dir, "simple-todo")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = repoRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(dir, ".gocache"))
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	return bin
}

// Popup is the binary running in its own session on a Server.
type Popup struct {
	srv      *Server
	Pane     string
	exitFile string
}

// LaunchPopup starts bin with args in a new 80x24 session. The wrapper
// script records the exit code and keeps the pane alive afterwards so a
// crash stays visible.
func (s *Server) LaunchPopup(bin, session string, args ...string) *Popup {
	s.t.Helper()
	dir := s.t.TempDir()
	p := &Popup{srv: s, Pane: session + ":0.0", exitFile: filepath.Join(dir, "exit-code")}

	quoted := make([]string, 0, len(args)+1)
	for _, a := range append([]string{bin}, args...) {
		quoted = append(quoted, "'"+strings.ReplaceAll(a, "'", `'\''`)+"'")
	}
	script := "#!/bin/sh\n" +
		strings.Join(quoted, " ") + " >/dev/null 2>&1\n" +
		"printf '%s' $? > '" + p.exitFile + "'\n" +
		"sleep 300\n"
	path := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		s.t.Fatalf("write launcher: %v", err)
	}
	if err := s.Cmd("new-session", "-d", "-x", "80", "-y", "24", "-s", session, path).Run(); err != nil {
		s.t.Fatalf("launch: %v", err)
	}
	s.t.Cleanup(func() { _ = s.Cmd("kill-session", "-t", session).Run() })
	return p
}

// SendKeys types keys into the popup pane using tmux key names.
func (p *Popup) SendKeys(keys ...string) {
	p.srv.t.Helper()
	args := append([]string{"send-keys", "-t", p.Pane}, keys...)
	if err := p.srv.Cmd(args...).Run(); err != nil {
		p.srv.t.Fatalf("send-keys: %v", err)
	}
}

// WaitFor polls the pane until it shows every needle, failing on timeout or
// when the binary exits non-zero.
func (p *Popup) WaitFor(ctx context.Context, needles ...string) string {
	t := p.srv.t
	t.Helper()
	var last string
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %q; last capture:\n%s", needles, last)
		case <-tick.C:
		}
		if code := p.exitCode(); code != "" && code != "0" {
			t.Fatalf("simple-todo exited with code %s", code)
		}
		out, err := p.srv.Capture(p.Pane)
		if errors.Is(err, ErrPaneUnavailable) {
			continue
		}
		if err != nil {
			t.Fatalf("%v", err)
		}
		last = out
		if containsAll(out, needles) {
			return out
		}
	}
}

func (p *Popup) exitCode() string {
	data, err := os.ReadFile(p.exitFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func containsAll(s string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(s, n) {
			return false
		}
	}
	return true
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
