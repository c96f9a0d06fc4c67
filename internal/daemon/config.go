// Package daemon keeps a built anagram index in memory and answers lookups
// over a Unix socket, so CLI invocations do not rebuild the index each time.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/anagrams/internal/config"
)

// Config holds configuration for the daemon service.
type Config struct {
	// SocketPath is the Unix domain socket path for IPC.
	// Default: ~/.anagrams/daemon.sock
	SocketPath string

	// PIDPath stores the daemon's process ID. An flock on PIDPath+".lock"
	// guarantees a single daemon per path.
	// Default: ~/.anagrams/daemon.pid
	PIDPath string

	// Timeout bounds one client request, and one server connection.
	// Default: 5s
	Timeout time.Duration

	// ShutdownGracePeriod is how long in-flight requests get on shutdown.
	// Default: 5s
	ShutdownGracePeriod time.Duration

	// Watch rebuilds the index when a dictionary file changes.
	Watch bool

	// WatchDebounce is the quiet window before a rebuild.
	// Default: 500ms
	WatchDebounce time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	dir := config.DataDir()
	return Config{
		SocketPath:          filepath.Join(dir, "daemon.sock"),
		PIDPath:             filepath.Join(dir, "daemon.pid"),
		Timeout:             5 * time.Second,
		ShutdownGracePeriod: 5 * time.Second,
		WatchDebounce:       500 * time.Millisecond,
	}
}

// ConfigFrom derives daemon settings from the loaded configuration. The
// configuration is expected to have passed Validate.
func ConfigFrom(cfg *config.Config) Config {
	out := DefaultConfig()
	if cfg.Daemon.SocketPath != "" {
		out.SocketPath = cfg.Daemon.SocketPath
	}
	if cfg.Daemon.PIDPath != "" {
		out.PIDPath = cfg.Daemon.PIDPath
	}
	if d, err := cfg.DaemonTimeout(); err == nil {
		out.Timeout = d
	}
	if d, err := cfg.WatchDebounce(); err == nil {
		out.WatchDebounce = d
	}
	out.Watch = cfg.Daemon.Watch
	return out
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	if c.SocketPath == "" {
		return fmt.Errorf("socket path cannot be empty")
	}
	if c.PIDPath == "" {
		return fmt.Errorf("PID path cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ShutdownGracePeriod <= 0 {
		return fmt.Errorf("shutdown grace period must be positive")
	}
	if c.Watch && c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}
	return nil
}

// EnsureDir creates the socket and PID directories.
func (c Config) EnsureDir() error {
	for _, dir := range []string{filepath.Dir(c.SocketPath), filepath.Dir(c.PIDPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
