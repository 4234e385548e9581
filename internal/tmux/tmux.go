// Package tmux talks to the tmux server hosting the popup: it refreshes the
// status line after task changes and shows transient messages.
package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
	"github.com/charmbracelet/x/ansi"
)

// DefaultToastDuration is how long display-message keeps a toast visible.
const DefaultToastDuration = 3 * time.Second

type tmuxClient interface {
	Command(parts ...string) (string, error)
	DisplayMessage(target, format string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// Inside reports whether the process runs inside a tmux pane.
func Inside() bool {
	return strings.TrimSpace(os.Getenv("TMUX")) != ""
}

// ResolveSocketPath picks the tmux socket: the flag, then SIMPLE_TODO_SOCKET,
// then $TMUX, then the default per-user socket.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("SIMPLE_TODO_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// RefreshStatus redraws the status line so status-right picks up new counts.
func RefreshStatus(socketPath string) error {
	cn, err := dial(socketPath)
	if err != nil {
		return err
	}
	defer cn.Close()
	return cn.run("refresh-client", "-t", "-S")
}

// Toast shows text on the visible client's status line for d. Terminal
// styling is stripped since the status line cannot show it.
func Toast(socketPath, text string, d time.Duration) error {
	text = strings.TrimSpace(ansi.Strip(text))
	if text == "" {
		return nil
	}
	if d <= 0 {
		d = DefaultToastDuration
	}
	cn, err := dial(socketPath)
	if err != nil {
		return err
	}
	defer cn.Close()
	return cn.run("display-message", "-c", "-d", strconv.FormatInt(d.Milliseconds(), 10), escapeFormat(text))
}

// escapeFormat stops tmux from expanding format sequences in literal text.
func escapeFormat(text string) string {
	return strings.ReplaceAll(text, "#", "##")
}
