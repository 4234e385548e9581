package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/simple-todo/internal/app"
	"github.com/atomicstack/simple-todo/internal/tracker"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	// Command is empty for the popup and "status" for the status line.
	Command    string
	Plain      bool
	ConfigFile string
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

// CommandStatus prints the one-line summary for the tmux status line.
const CommandStatus = "status"

const (
	envSocketPath   = "SIMPLE_TODO_SOCKET"
	envWidth        = "SIMPLE_TODO_WIDTH"
	envHeight       = "SIMPLE_TODO_HEIGHT"
	envShowFooter   = "SIMPLE_TODO_FOOTER"
	envVerbose      = "SIMPLE_TODO_VERBOSE"
	envTrace        = "SIMPLE_TODO_TRACE"
	envLogFile      = "SIMPLE_TODO_LOG_FILE"
	envDBPath       = "SIMPLE_TODO_DB"
	envPoll         = "SIMPLE_TODO_POLL_INTERVAL"
	envConfigFile   = "SIMPLE_TODO_CONFIG"
	envTrackerURL   = "SIMPLE_TODO_TRACKER_URL"
	envTrackerEmail = "SIMPLE_TODO_TRACKER_EMAIL"
	envTrackerToken = "SIMPLE_TODO_TRACKER_TOKEN"
	envTrackerJQL   = "SIMPLE_TODO_TRACKER_JQL"
	envIssuePoll    = "SIMPLE_TODO_TRACKER_POLL_INTERVAL"
)

const defaultPollInterval = 5 * time.Second

// File is the YAML configuration file layout.
type File struct {
	Socket       string        `yaml:"socket"`
	DB           string        `yaml:"db"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Footer       *bool         `yaml:"footer"`
	Verbose      *bool         `yaml:"verbose"`
	LogFile      string        `yaml:"log_file"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Tracker      struct {
		URL          string        `yaml:"url"`
		Email        string        `yaml:"email"`
		Token        string        `yaml:"token"`
		JQL          string        `yaml:"jql"`
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"tracker"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// flag first, then environment, then the YAML file, then defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	command := ""
	rest := args
	if len(rest) > 0 && rest[0] == CommandStatus {
		command = CommandStatus
		rest = rest[1:]
	}

	fs := pflag.NewFlagSet("simple-todo", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to the YAML config file")
	socket := fs.String("socket", "", "path to the tmux socket (overrides environment detection)")
	dbPath := fs.String("db", "", "path to the task database")
	width := fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", false, "enable footer hint row")
	trace := fs.Bool("trace", false, "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", false, "print success messages for actions")
	logFile := fs.String("log-file", "", "path to the log file")
	poll := fs.Duration("poll-interval", 0, "how often to reload tasks from the database")
	trackerURL := fs.String("tracker-url", "", "base URL of the Jira instance")
	trackerEmail := fs.String("tracker-email", "", "account email for Jira basic auth")
	jql := fs.String("jql", "", "JQL used to list my issues")
	issuePoll := fs.Duration("tracker-poll-interval", 0, "background issue refresh interval (0 disables)")
	plain := fs.Bool("plain", false, "status: print without colours")

	if err := fs.Parse(rest); err != nil {
		return Config{}, err
	}

	path := pickString(fs, "config", *configPath, env, envConfigFile, "", DefaultConfigPath(env))
	file, err := readFile(path, fs.Changed("config") || hasEnv(env, envConfigFile))
	if err != nil {
		return Config{}, err
	}

	footerDefault := false
	if file.Footer != nil {
		footerDefault = *file.Footer
	}
	verboseDefault := false
	if file.Verbose != nil {
		verboseDefault = *file.Verbose
	}

	cfg := Config{
		App: app.Config{
			SocketPath:        pickString(fs, "socket", *socket, env, envSocketPath, file.Socket, ""),
			DBPath:            pickString(fs, "db", *dbPath, env, envDBPath, file.DB, DefaultDBPath(env)),
			Width:             pickInt(fs, "width", *width, env, envWidth, file.Width),
			Height:            pickInt(fs, "height", *height, env, envHeight, file.Height),
			ShowFooter:        pickBool(fs, "footer", *footer, env, envShowFooter, footerDefault),
			Verbose:           pickBool(fs, "verbose", *verbose, env, envVerbose, verboseDefault),
			PollInterval:      pickDuration(fs, "poll-interval", *poll, env, envPoll, file.PollInterval, defaultPollInterval),
			IssuePollInterval: pickDuration(fs, "tracker-poll-interval", *issuePoll, env, envIssuePoll, file.Tracker.PollInterval, 0),
			Tracker: tracker.Config{
				BaseURL: pickString(fs, "tracker-url", *trackerURL, env, envTrackerURL, file.Tracker.URL, ""),
				Email:   pickString(fs, "tracker-email", *trackerEmail, env, envTrackerEmail, file.Tracker.Email, ""),
				Token:   pickString(nil, "", "", env, envTrackerToken, file.Tracker.Token, ""),
				JQL:     pickString(fs, "jql", *jql, env, envTrackerJQL, file.Tracker.JQL, ""),
			},
		},
		Logging: Logging{
			FilePath: pickString(fs, "log-file", *logFile, env, envLogFile, file.LogFile, ""),
			Trace:    pickBool(fs, "trace", *trace, env, envTrace, false),
		},
		Command:    command,
		Plain:      *plain,
		ConfigFile: path,
		Args:       append([]string(nil), args...),
	}
	cfg.Features.Verbose = cfg.App.Verbose
	cfg.Flags = map[string]string{
		"command":      command,
		"socket":       cfg.App.SocketPath,
		"db":           cfg.App.DBPath,
		"width":        strconv.Itoa(cfg.App.Width),
		"height":       strconv.Itoa(cfg.App.Height),
		"footer":       strconv.FormatBool(cfg.App.ShowFooter),
		"trace":        strconv.FormatBool(cfg.Logging.Trace),
		"verbose":      strconv.FormatBool(cfg.App.Verbose),
		"logFile":      cfg.Logging.FilePath,
		"pollInterval": cfg.App.PollInterval.String(),
		"trackerURL":   cfg.App.Tracker.BaseURL,
		"config":       path,
	}

	return cfg, nil
}

// DefaultConfigPath is $XDG_CONFIG_HOME/simple-todo/config.yaml.
func DefaultConfigPath(env map[string]string) string {
	base := env["XDG_CONFIG_HOME"]
	if base == "" {
		home := env["HOME"]
		if home == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "simple-todo", "config.yaml")
}

// DefaultDBPath is $XDG_DATA_HOME/simple-todo/tasks.db.
func DefaultDBPath(env map[string]string) string {
	base := env["XDG_DATA_HOME"]
	if base == "" {
		home := env["HOME"]
		if home == "" {
			return filepath.Join(os.TempDir(), "simple-todo", "tasks.db")
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "simple-todo", "tasks.db")
}

// readFile loads path. A missing file is only an error when it was asked for
// explicitly.
func readFile(path string, explicit bool) (File, error) {
	var file File
	if path == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return file, nil
		}
		return file, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func hasEnv(env map[string]string, key string) bool {
	v, ok := env[key]
	return ok && strings.TrimSpace(v) != ""
}

func changed(fs *pflag.FlagSet, name string) bool {
	return fs != nil && name != "" && fs.Changed(name)
}

func pickString(fs *pflag.FlagSet, name, flagValue string, env map[string]string, key, fileValue, fallback string) string {
	if changed(fs, name) {
		return flagValue
	}
	if hasEnv(env, key) {
		return env[key]
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}

func pickInt(fs *pflag.FlagSet, name string, flagValue int, env map[string]string, key string, fileValue int) int {
	if changed(fs, name) {
		return flagValue
	}
	if hasEnv(env, key) {
		if parsed, err := strconv.Atoi(strings.TrimSpace(env[key])); err == nil {
			return parsed
		}
	}
	return fileValue
}

func pickBool(fs *pflag.FlagSet, name string, flagValue bool, env map[string]string, key string, fallback bool) bool {
	if changed(fs, name) {
		return flagValue
	}
	if hasEnv(env, key) {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(env[key])); err == nil {
			return parsed
		}
	}
	return fallback
}

func pickDuration(fs *pflag.FlagSet, name string, flagValue time.Duration, env map[string]string, key string, fileValue, fallback time.Duration) time.Duration {
	if changed(fs, name) {
		return flagValue
	}
	if hasEnv(env, key) {
		if parsed, err := time.ParseDuration(strings.TrimSpace(env[key])); err == nil {
			return parsed
		}
	}
	if fileValue != 0 {
		return fileValue
	}
	return fallback
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.PollInterval < 100*time.Millisecond {
		return fmt.Errorf("poll interval must be at least 100ms (got %s)", cfg.App.PollInterval)
	}
	if cfg.App.IssuePollInterval < 0 {
		return fmt.Errorf("tracker poll interval must be >= 0 (got %s)", cfg.App.IssuePollInterval)
	}
	if strings.TrimSpace(cfg.App.DBPath) == "" {
		return errors.New("database path is required")
	}
	if raw := strings.TrimSpace(cfg.App.Tracker.BaseURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("tracker url %q must be absolute", raw)
		}
		if cfg.App.Tracker.Token == "" {
			return fmt.Errorf("tracker url set but %s is empty", envTrackerToken)
		}
	}
	return nil
}
