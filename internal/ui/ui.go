// Package ui provides the interactive launcher and terminal helpers.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Config configures the interactive launcher.
type Config struct {
	Output  io.Writer
	Input   io.Reader
	Theme   string
	NoColor bool

	// AltScreen draws on the alternate screen buffer.
	AltScreen bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithTheme selects a theme by name.
func WithTheme(name string) ConfigOption {
	return func(c *Config) {
		c.Theme = name
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithInput reads keys from r instead of stdin.
func WithInput(r io.Reader) ConfigOption {
	return func(c *Config) {
		c.Input = r
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) ConfigOption {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}

// NewConfig creates a Config writing to output.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{
		Output:    output,
		Theme:     DefaultTheme,
		AltScreen: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if DetectNoColor() {
		cfg.NoColor = true
	}
	return cfg
}

// IsTTY checks if w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Interactive reports whether both in and out are terminals and no CI
// environment is detected.
func Interactive(in, out any) bool {
	return IsTTY(in) && IsTTY(out) && !DetectCI()
}
