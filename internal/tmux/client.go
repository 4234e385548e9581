package tmux

import (
	"os"
	"strings"
)

// conn is one short-lived control-mode connection, remembering the visible
// client that launched the popup. Commands must target that client rather
// than the control-mode client itself.
type conn struct {
	c      tmuxClient
	client string
}

func dial(socketPath string) (*conn, error) {
	c, err := newTmux(socketPath)
	if err != nil {
		return nil, err
	}
	cn := &conn{c: c}
	pane := strings.TrimSpace(os.Getenv("TMUX_PANE"))
	if name, err := c.DisplayMessage(pane, "#{client_name}"); err == nil {
		cn.client = strings.TrimSpace(name)
	}
	return cn, nil
}

// run executes a tmux command, inserting flag and the launching client
// before args when the client is known.
func (cn *conn) run(cmd, flag string, args ...string) error {
	parts := []string{cmd}
	if cn.client != "" {
		parts = append(parts, flag, cn.client)
	}
	_, err := cn.c.Command(append(parts, args...)...)
	return err
}

func (cn *conn) Close() error { return cn.c.Close() }
