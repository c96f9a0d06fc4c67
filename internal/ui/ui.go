// Package ui provides terminal rendering for anagrams: the interactive
// lookup screen and the status report.
package ui

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrNotTTY is returned when an interactive screen is requested on a pipe or file.
var ErrNotTTY = errors.New("output is not a terminal")

// Config configures terminal output.
type Config struct {
	Output  io.Writer
	Input   io.Reader
	NoColor bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithInput sets the input the interactive screen reads keys from.
func WithInput(in io.Reader) ConfigOption {
	return func(c *Config) {
		c.Input = in
	}
}

// NewConfig creates a Config for output. NO_COLOR in the environment
// disables color regardless of options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output, Input: os.Stdin}
	for _, opt := range opts {
		opt(&cfg)
	}
	if DetectNoColor() {
		cfg.NoColor = true
	}
	return cfg
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
