// Package config loads millennium settings from the environment and resolves
// the per-user configuration directory.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// AppName is the configuration directory name.
	AppName = "millennium"

	// SessionFile holds the persisted session token.
	SessionFile = "session.json"

	// DBFile is the default SQLite database for the local backend.
	DBFile = "millennium.db"
)

// Backend selects which store implementation serves auth and records.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendRemote Backend = "remote"
)

// Config holds all runtime configuration.
type Config struct {
	Backend Backend

	// Remote store endpoint and public API key.
	URL     string
	AnonKey string

	// Dir is the configuration directory; DBPath defaults to Dir/millennium.db.
	Dir    string
	DBPath string

	TimeoutMs int
	NoticeMs  int

	// LogFile receives structured logs. Empty disables logging.
	LogFile string

	// KeepDraftOnFailedSave keeps a row in edit mode when saving fails.
	KeepDraftOnFailedSave bool
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	dir := DefaultConfigDir()
	return Config{
		Backend:   BackendLocal,
		Dir:       dir,
		DBPath:    filepath.Join(dir, DBFile),
		TimeoutMs: 10000,
		NoticeMs:  3000,
	}
}

// LoadConfig reads configuration from environment variables, falling back to
// defaults for any unset values. Setting MILLENNIUM_URL without an explicit
// backend selects the remote backend.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("MILLENNIUM_CONFIG_DIR"); v != "" {
		cfg.Dir = v
		cfg.DBPath = filepath.Join(v, DBFile)
	}
	if v := os.Getenv("MILLENNIUM_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MILLENNIUM_URL"); v != "" {
		cfg.URL = strings.TrimRight(strings.TrimSpace(v), "/")
		cfg.Backend = BackendRemote
	}
	if v := os.Getenv("MILLENNIUM_ANON_KEY"); v != "" {
		cfg.AnonKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("MILLENNIUM_BACKEND"); v != "" {
		cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("MILLENNIUM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("MILLENNIUM_NOTICE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NoticeMs = n
		}
	}
	if v := os.Getenv("MILLENNIUM_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("MILLENNIUM_KEEP_DRAFT_ON_FAILED_SAVE"); v != "" {
		cfg.KeepDraftOnFailedSave, _ = strconv.ParseBool(v)
	}

	return cfg
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.DBPath == "" {
			return errors.New("local backend requires a database path (MILLENNIUM_DB)")
		}
	case BackendRemote:
		if c.URL == "" {
			return errors.New("remote backend requires MILLENNIUM_URL")
		}
		if c.AnonKey == "" {
			return errors.New("remote backend requires MILLENNIUM_ANON_KEY")
		}
	default:
		return errors.New("MILLENNIUM_BACKEND must be local or remote")
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// NoticeDuration returns how long success notices stay visible.
func (c Config) NoticeDuration() time.Duration {
	return time.Duration(c.NoticeMs) * time.Millisecond
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/millennium, or
// $HOME/.config/millennium when XDG_CONFIG_HOME is unset.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the persisted session token.
func (c Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the configuration directory with mode 0700.
func (c Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}
