// Package testutil runs the built binary inside a private tmux server for
// end-to-end tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// ErrPaneUnavailable is returned by Capture while the target pane does not
// exist yet.
var ErrPaneUnavailable = errors.New("tmux pane unavailable")

// Server is a throwaway tmux server listening on its own socket.
type Server struct {
	t      *testing.T
	Socket string
	Dir    string
}

// RequireTmux skips the calling test when tmux is not on PATH.
func RequireTmux(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("skipping: tmux binary not available")
	}
}

// StartServer boots a server with a keepalive session. It is killed, and its
// logs checked for crashes, when the test ends.
func StartServer(t *testing.T) *Server {
	t.Helper()
	RequireTmux(t)
	// tmux socket paths are length limited, so avoid t.TempDir's long names.
	dir, err := os.MkdirTemp("/tmp", "simple-todo-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	s := &Server{t: t, Socket: filepath.Join(dir, "tmux.sock"), Dir: dir}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	if err := s.Cmd("-f", "/dev/null", "-vv", "new-session", "-d", "-s", "keepalive", "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: tmux server did not start: %v", err)
	}
	t.Cleanup(s.shutdown)
	return s
}

// Cmd builds a tmux command against the server, isolated from any tmux the
// test runner itself lives in.
func (s *Server) Cmd(args ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", s.Socket}, args...)...)
	env := []string{"TMUX=", "TMUX_TMPDIR=" + s.Dir}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "TMUX=") && !strings.HasPrefix(kv, "TMUX_TMPDIR=") {
			env = append(env, kv)
		}
	}
	cmd.Env = env
	return cmd
}

// Capture returns the visible contents of target.
func (s *Server) Capture(target string) (string, error) {
	out, err := s.Cmd("capture-pane", "-p", "-t", target).Output()
	if err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) && exit.ExitCode() == 1 {
			return "", ErrPaneUnavailable
		}
		return "", fmt.Errorf("capture-pane: %w", err)
	}
	return string(out), nil
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := gotmux.NewTmuxWithOptions(s.Socket, gotmux.WithContext(ctx))
	if err == nil {
		err = client.KillServer()
		_ = client.Close()
	}
	if err != nil {
		s.t.Logf("control-mode kill failed: %v; using kill-server", err)
		_ = s.Cmd("kill-server").Run()
	}
	s.checkLogs()
}

// checkLogs fails the test if the -vv server log records a crash.
func (s *Server) checkLogs() {
	logs, _ := filepath.Glob(filepath.Join(s.Dir, "tmux-server-*.log"))
	logs = append(logs, globCwdLogs()...)
	for _, path := range logs {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if strings.Contains(string(data), "server exited unexpectedly") {
			s.t.Errorf("tmux server crashed; see %s", path)
		}
	}
}

// tmux -vv writes its log into the working directory of the server.
func globCwdLogs() []string {
	logs, _ := filepath.Glob("tmux-server-*.log")
	return logs
}
