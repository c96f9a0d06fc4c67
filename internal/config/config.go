// Package config loads layered YAML configuration for anagrams.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Dictionary fallback modes.
const (
	FallbackNone     = "none"
	FallbackEmbedded = "embedded"
)

// Config represents the complete anagrams configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Dictionary DictionaryConfig `yaml:"dictionary" json:"dictionary"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Daemon     DaemonConfig     `yaml:"daemon" json:"daemon"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" json:"telemetry"`
}

// DictionaryConfig selects the word lists the index is built from.
type DictionaryConfig struct {
	// Paths are newline-delimited word lists, concatenated in order.
	// Relative paths resolve against the project root. Empty means the
	// embedded default list.
	Paths []string `yaml:"paths" json:"paths"`

	// Fallback is used when a configured path cannot be read:
	// "none" fails the build, "embedded" retries with the embedded list.
	Fallback string `yaml:"fallback" json:"fallback"`

	// Dedupe drops repeated words, keeping the first occurrence.
	Dedupe bool `yaml:"dedupe" json:"dedupe"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// DaemonConfig configures the background lookup daemon.
type DaemonConfig struct {
	SocketPath string `yaml:"socket_path" json:"socket_path"`
	PIDPath    string `yaml:"pid_path" json:"pid_path"`
	Timeout    string `yaml:"timeout" json:"timeout"`

	// Watch rebuilds the index when a dictionary file changes.
	Watch         bool   `yaml:"watch" json:"watch"`
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

// TelemetryConfig bounds the in-memory lookup telemetry.
type TelemetryConfig struct {
	TopQueries  int `yaml:"top_queries" json:"top_queries"`
	ZeroResults int `yaml:"zero_results" json:"zero_results"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Dictionary: DictionaryConfig{
			Paths:    []string{},
			Fallback: FallbackNone,
			Dedupe:   false,
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
		Daemon: DaemonConfig{
			SocketPath:    filepath.Join(DataDir(), "daemon.sock"),
			PIDPath:       filepath.Join(DataDir(), "daemon.pid"),
			Timeout:       "5s",
			Watch:         false,
			WatchDebounce: "500ms",
		},
		Telemetry: TelemetryConfig{
			TopQueries:  100,
			ZeroResults: 100,
		},
	}
}

// DataDir returns ~/.anagrams, falling back to the temp directory.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".anagrams")
	}
	return filepath.Join(home, ".anagrams")
}

// GetUserConfigPath returns the path to the user/global configuration file:
//   - $XDG_CONFIG_HOME/anagrams/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/anagrams/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "anagrams", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "anagrams", "config.yaml")
	}
	return filepath.Join(home, ".config", "anagrams", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// ProjectConfigPath returns the project config file in dir, preferring
// .anagrams.yaml over .anagrams.yml. Returns "" if neither exists.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{".anagrams.yaml", ".anagrams.yml"} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// Load loads configuration for the project in dir. Precedence, lowest first:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/anagrams/config.yaml)
//  3. Project config (.anagrams.yaml in dir)
//  4. Environment variables (ANAGRAMS_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if path := ProjectConfigPath(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a single YAML file over the defaults, without env overrides.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Relative dictionary paths are relative to the file that names them.
	base := filepath.Dir(path)
	for i, p := range parsed.Dictionary.Paths {
		if !filepath.IsAbs(p) {
			parsed.Dictionary.Paths[i] = filepath.Join(base, p)
		}
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if len(other.Dictionary.Paths) > 0 {
		c.Dictionary.Paths = other.Dictionary.Paths
	}
	if other.Dictionary.Fallback != "" {
		c.Dictionary.Fallback = other.Dictionary.Fallback
	}
	// false is indistinguishable from unset, so dedupe can only be switched on by a file
	if other.Dictionary.Dedupe {
		c.Dictionary.Dedupe = true
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}

	if other.Daemon.SocketPath != "" {
		c.Daemon.SocketPath = other.Daemon.SocketPath
	}
	if other.Daemon.PIDPath != "" {
		c.Daemon.PIDPath = other.Daemon.PIDPath
	}
	if other.Daemon.Timeout != "" {
		c.Daemon.Timeout = other.Daemon.Timeout
	}
	if other.Daemon.Watch {
		c.Daemon.Watch = true
	}
	if other.Daemon.WatchDebounce != "" {
		c.Daemon.WatchDebounce = other.Daemon.WatchDebounce
	}

	if other.Telemetry.TopQueries != 0 {
		c.Telemetry.TopQueries = other.Telemetry.TopQueries
	}
	if other.Telemetry.ZeroResults != 0 {
		c.Telemetry.ZeroResults = other.Telemetry.ZeroResults
	}
}

// applyEnvOverrides applies ANAGRAMS_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ANAGRAMS_DICTIONARY"); v != "" {
		c.Dictionary.Paths = filepath.SplitList(v)
	}
	if v := os.Getenv("ANAGRAMS_FALLBACK"); v != "" {
		c.Dictionary.Fallback = v
	}
	if v := os.Getenv("ANAGRAMS_DEDUPE"); v != "" {
		c.Dictionary.Dedupe = parseBool(v)
	}
	if v := os.Getenv("ANAGRAMS_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("ANAGRAMS_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("ANAGRAMS_SOCKET"); v != "" {
		c.Daemon.SocketPath = v
	}
	if v := os.Getenv("ANAGRAMS_WATCH"); v != "" {
		c.Daemon.Watch = parseBool(v)
	}
	if v := os.Getenv("ANAGRAMS_TOP_QUERIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Telemetry.TopQueries = n
		}
	}
}

func parseBool(v string) bool {
	return strings.ToLower(v) == "true" || v == "1"
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Dictionary.Fallback) {
	case FallbackNone, FallbackEmbedded:
	default:
		return fmt.Errorf("dictionary.fallback must be 'none' or 'embedded', got %s", c.Dictionary.Fallback)
	}

	for _, p := range c.Dictionary.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("dictionary.paths must not contain empty entries")
		}
	}

	if strings.ToLower(c.Server.Transport) != "stdio" {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	if c.Daemon.SocketPath == "" {
		return fmt.Errorf("daemon.socket_path must not be empty")
	}
	if _, err := c.DaemonTimeout(); err != nil {
		return err
	}
	if _, err := c.WatchDebounce(); err != nil {
		return err
	}

	if c.Telemetry.TopQueries < 0 || c.Telemetry.ZeroResults < 0 {
		return fmt.Errorf("telemetry capacities must be non-negative")
	}

	return nil
}

// DaemonTimeout parses daemon.timeout.
func (c *Config) DaemonTimeout() (time.Duration, error) {
	return parsePositiveDuration("daemon.timeout", c.Daemon.Timeout)
}

// WatchDebounce parses daemon.watch_debounce.
func (c *Config) WatchDebounce() (time.Duration, error) {
	return parsePositiveDuration("daemon.watch_debounce", c.Daemon.WatchDebounce)
}

func parsePositiveDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, v)
	}
	return d, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindProjectRoot walks up from startDir looking for .anagrams.yaml/.yml or
// a .git directory. Returns the absolute startDir if neither is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if ProjectConfigPath(currentDir) != "" || dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
