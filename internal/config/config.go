package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/logging"
	"github.com/Aman-CERP/amanlaunch/internal/scorer"
)

// maxLimit mirrors the ranker's cap on result pages.
const maxLimit = 200

// Config represents the complete launcher configuration.
type Config struct {
	Version   int             `yaml:"version" json:"version" toml:"version"`
	Search    SearchConfig    `yaml:"search" json:"search" toml:"search"`
	Modes     ModesConfig     `yaml:"modes" json:"modes" toml:"modes"`
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery" toml:"discovery"`
	Commands  []CommandConfig `yaml:"commands" json:"commands" toml:"commands"`
	UI        UIConfig        `yaml:"ui" json:"ui" toml:"ui"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging" toml:"logging"`
}

// SearchConfig configures scoring and ranking.
// Weights and limit are configurable via:
//  1. User config (~/.config/amanlaunch/config.yaml) - personal defaults
//  2. --config file
//  3. Env vars (AMANLAUNCH_LIMIT, AMANLAUNCH_SCORER) - highest priority
type SearchConfig struct {
	// Limit is the number of results shown (1-200).
	Limit int `yaml:"limit" json:"limit" toml:"limit"`

	// Scorer selects the matching algorithm: "weighted" or "sahilm".
	Scorer string `yaml:"scorer" json:"scorer" toml:"scorer"`

	Weights WeightsConfig `yaml:"weights" json:"weights" toml:"weights"`

	// Parallelism is the number of scoring goroutines for large catalogs.
	// 0 means GOMAXPROCS.
	Parallelism int `yaml:"parallelism" json:"parallelism" toml:"parallelism"`

	// PartitionThreshold is the catalog size from which scoring goes parallel.
	PartitionThreshold int `yaml:"partition_threshold" json:"partition_threshold" toml:"partition_threshold"`

	// CacheSize is the number of recent result sets kept. 0 disables the cache.
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// MatchSecondary also matches an entity's secondary text (e.g. a file's
	// full path), ranked after name matches.
	MatchSecondary bool `yaml:"match_secondary" json:"match_secondary" toml:"match_secondary"`
}

// WeightsConfig holds the weighted scorer's bonuses and penalty.
type WeightsConfig struct {
	Match         float64 `yaml:"match" json:"match" toml:"match"`
	Consecutive   float64 `yaml:"consecutive" json:"consecutive" toml:"consecutive"`
	StartOfString float64 `yaml:"start_of_string" json:"start_of_string" toml:"start_of_string"`
	WordBoundary  float64 `yaml:"word_boundary" json:"word_boundary" toml:"word_boundary"`
	LengthPenalty float64 `yaml:"length_penalty" json:"length_penalty" toml:"length_penalty"`
	Baseline      float64 `yaml:"baseline" json:"baseline" toml:"baseline"`
}

// ScorerWeights converts to the scorer's weight type.
func (w WeightsConfig) ScorerWeights() scorer.Weights {
	return scorer.Weights{
		Match:         w.Match,
		Consecutive:   w.Consecutive,
		StartOfString: w.StartOfString,
		WordBoundary:  w.WordBoundary,
		LengthPenalty: w.LengthPenalty,
		Baseline:      w.Baseline,
	}
}

// ModesConfig selects the available modes.
type ModesConfig struct {
	// Default is the mode a new window starts in.
	Default string `yaml:"default" json:"default" toml:"default"`
	// Disabled lists modes that cannot be selected.
	Disabled []string `yaml:"disabled" json:"disabled" toml:"disabled"`
	// IdleOnEmpty shows nothing instead of the whole catalog for blank input.
	IdleOnEmpty bool `yaml:"idle_on_empty" json:"idle_on_empty" toml:"idle_on_empty"`
}

// DefaultMode parses Default. Validate guarantees it parses.
func (m ModesConfig) DefaultMode() launcher.Mode {
	mode, err := launcher.ParseMode(m.Default)
	if err != nil {
		return launcher.ModeApps
	}
	return mode
}

// DisabledModes parses Disabled, skipping names Validate would reject.
func (m ModesConfig) DisabledModes() []launcher.Mode {
	var out []launcher.Mode
	for _, name := range m.Disabled {
		if mode, err := launcher.ParseMode(name); err == nil {
			out = append(out, mode)
		}
	}
	return out
}

// DiscoveryConfig configures how the catalog is populated.
type DiscoveryConfig struct {
	// AppDirs are searched for applications (.app bundles, .desktop files).
	AppDirs []string `yaml:"app_dirs" json:"app_dirs" toml:"app_dirs"`

	// FileRoots are walked for the files mode.
	FileRoots []string `yaml:"file_roots" json:"file_roots" toml:"file_roots"`

	MaxDepth int `yaml:"max_depth" json:"max_depth" toml:"max_depth"`
	MaxFiles int `yaml:"max_files" json:"max_files" toml:"max_files"`

	// SkipDirs are directory names never descended into. Dot entries are
	// skipped unless IncludeHidden is set.
	SkipDirs      []string `yaml:"skip_dirs" json:"skip_dirs" toml:"skip_dirs"`
	IncludeHidden bool     `yaml:"include_hidden" json:"include_hidden" toml:"include_hidden"`

	// AppCacheTTL is how long the on-disk application list stays fresh (e.g. "1h").
	AppCacheTTL string `yaml:"app_cache_ttl" json:"app_cache_ttl" toml:"app_cache_ttl"`

	// RefreshInterval is the periodic full refresh in the interactive launcher.
	// "0" disables it.
	RefreshInterval string `yaml:"refresh_interval" json:"refresh_interval" toml:"refresh_interval"`

	// Watch enables filesystem notifications for app dirs and file roots.
	Watch *bool `yaml:"watch" json:"watch" toml:"watch"`

	// WatchDebounce coalesces bursts of filesystem events (e.g. "200ms").
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce" toml:"watch_debounce"`
}

// WatchEnabled reports whether filesystem watching is on. Defaults to true.
func (d DiscoveryConfig) WatchEnabled() bool {
	return d.Watch == nil || *d.Watch
}

// CacheTTL parses AppCacheTTL.
func (d DiscoveryConfig) CacheTTL() time.Duration {
	return parseDuration(d.AppCacheTTL, time.Hour)
}

// Interval parses RefreshInterval.
func (d DiscoveryConfig) Interval() time.Duration {
	return parseDuration(d.RefreshInterval, 5*time.Minute)
}

// Debounce parses WatchDebounce.
func (d DiscoveryConfig) Debounce() time.Duration {
	return parseDuration(d.WatchDebounce, 200*time.Millisecond)
}

// CommandConfig is one entry of the run mode.
type CommandConfig struct {
	Name        string `yaml:"name" json:"name" toml:"name"`
	Command     string `yaml:"command" json:"command" toml:"command"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
}

// UIConfig configures the interactive launcher.
type UIConfig struct {
	// Theme is one of gruvbox, 8bit, catppuccin, modern.
	Theme   string `yaml:"theme" json:"theme" toml:"theme"`
	NoColor bool   `yaml:"no_color" json:"no_color" toml:"no_color"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" toml:"level"`
	// File overrides the default log path (~/.amanlaunch/logs/launcher.log).
	File string `yaml:"file" json:"file" toml:"file"`
}

// ValidThemes lists the built-in theme names.
var ValidThemes = []string{"gruvbox", "8bit", "catppuccin", "modern"}

// defaultSkipDirs are never descended into by the file walk.
var defaultSkipDirs = []string{
	"Library",
	"node_modules",
	"target",
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	watch := true
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Limit:  8,
			Scorer: scorer.AlgorithmWeighted,
			Weights: WeightsConfig{
				Match:         16,
				Consecutive:   24,
				StartOfString: 32,
				WordBoundary:  24,
				LengthPenalty: 1,
			},
			Parallelism:        0, // GOMAXPROCS
			PartitionThreshold: 4096,
			CacheSize:          128,
		},
		Modes: ModesConfig{
			Default: launcher.ModeApps.String(),
		},
		Discovery: DiscoveryConfig{
			AppDirs:         defaultAppDirs(runtime.GOOS),
			FileRoots:       defaultFileRoots(),
			MaxDepth:        4,
			MaxFiles:        5000,
			SkipDirs:        append([]string(nil), defaultSkipDirs...),
			AppCacheTTL:     "1h",
			RefreshInterval: "5m",
			Watch:           &watch,
			WatchDebounce:   "200ms",
		},
		Commands: defaultCommands(runtime.GOOS),
		UI: UIConfig{
			Theme: "gruvbox",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultAppDirs(goos string) []string {
	home, _ := os.UserHomeDir()
	switch goos {
	case "darwin":
		dirs := []string{"/Applications", "/System/Applications"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Applications"))
		}
		return dirs
	case "linux", "freebsd", "openbsd":
		dirs := []string{"/usr/share/applications", "/usr/local/share/applications"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
		}
		return dirs
	default:
		return nil
	}
}

func defaultFileRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{home}
}

func defaultCommands(goos string) []CommandConfig {
	switch goos {
	case "darwin":
		return []CommandConfig{
			{Name: "Shutdown", Command: `osascript -e 'tell app "System Events" to shut down'`, Description: "Power off"},
			{Name: "Reboot", Command: `osascript -e 'tell app "System Events" to restart'`, Description: "Restart"},
			{Name: "Sleep", Command: `osascript -e 'tell app "System Events" to sleep'`, Description: "Suspend"},
			{Name: "Lock Screen", Command: "pmset displaysleepnow", Description: "Lock the session"},
		}
	case "linux":
		return []CommandConfig{
			{Name: "Shutdown", Command: "systemctl poweroff", Description: "Power off"},
			{Name: "Reboot", Command: "systemctl reboot", Description: "Restart"},
			{Name: "Sleep", Command: "systemctl suspend", Description: "Suspend"},
			{Name: "Lock Screen", Command: "loginctl lock-session", Description: "Lock the session"},
		}
	default:
		return nil
	}
}

// configNames are tried in order inside the user config directory.
var configNames = []string{"config.yaml", "config.yml", "config.toml"}

// GetUserConfigDir returns the directory containing the user configuration.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/amanlaunch (if XDG_CONFIG_HOME is set)
//   - ~/.config/amanlaunch (default)
func GetUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "amanlaunch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "amanlaunch")
	}
	return filepath.Join(home, ".config", "amanlaunch")
}

// GetUserConfigPath returns the user config file in use: the first of
// config.yaml, config.yml, config.toml that exists, or config.yaml.
func GetUserConfigPath() string {
	dir := GetUserConfigDir()
	for _, name := range configNames {
		if p := filepath.Join(dir, name); fileExists(p) {
			return p
		}
	}
	return filepath.Join(dir, configNames[0])
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}
	cfg := NewConfig()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load builds the configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/amanlaunch/config.{yaml,yml,toml})
//  3. The explicit file, when path is non-empty
//  4. Environment variables (AMANLAUNCH_*)
//
// CLI flags are applied by the caller, which then calls Validate again.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadFile(userPath); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if !fileExists(path) {
			return nil, amerrors.New(amerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file %s not found", path), nil).
				WithDetail("path", path)
		}
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile parses path as TOML or YAML by extension and merges it.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return amerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err).
			WithDetail("path", path)
	}

	var parsed Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &parsed)
	} else {
		err = yaml.Unmarshal(data, &parsed)
	}
	if err != nil {
		return amerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path).
			WithSuggestion("check the file syntax, or regenerate it with 'amanlaunch config init --force'")
	}

	c.mergeWith(&parsed)
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	// Search
	if other.Search.Limit != 0 {
		c.Search.Limit = other.Search.Limit
	}
	if other.Search.Scorer != "" {
		c.Search.Scorer = other.Search.Scorer
	}
	// 0 is not a practical bonus, so only non-zero weights are merged.
	// Baseline is the exception since 0 is its default.
	w, ow := &c.Search.Weights, other.Search.Weights
	if ow.Match != 0 {
		w.Match = ow.Match
	}
	if ow.Consecutive != 0 {
		w.Consecutive = ow.Consecutive
	}
	if ow.StartOfString != 0 {
		w.StartOfString = ow.StartOfString
	}
	if ow.WordBoundary != 0 {
		w.WordBoundary = ow.WordBoundary
	}
	if ow.LengthPenalty != 0 {
		w.LengthPenalty = ow.LengthPenalty
	}
	if ow.Baseline != 0 {
		w.Baseline = ow.Baseline
	}
	if other.Search.Parallelism != 0 {
		c.Search.Parallelism = other.Search.Parallelism
	}
	if other.Search.PartitionThreshold != 0 {
		c.Search.PartitionThreshold = other.Search.PartitionThreshold
	}
	if other.Search.CacheSize != 0 {
		c.Search.CacheSize = other.Search.CacheSize
	}
	if other.Search.MatchSecondary {
		c.Search.MatchSecondary = true
	}

	// Modes
	if other.Modes.Default != "" {
		c.Modes.Default = other.Modes.Default
	}
	if len(other.Modes.Disabled) > 0 {
		c.Modes.Disabled = other.Modes.Disabled
	}
	if other.Modes.IdleOnEmpty {
		c.Modes.IdleOnEmpty = true
	}

	// Discovery
	d, od := &c.Discovery, other.Discovery
	if len(od.AppDirs) > 0 {
		d.AppDirs = od.AppDirs
	}
	if len(od.FileRoots) > 0 {
		d.FileRoots = od.FileRoots
	}
	if od.MaxDepth != 0 {
		d.MaxDepth = od.MaxDepth
	}
	if od.MaxFiles != 0 {
		d.MaxFiles = od.MaxFiles
	}
	if len(od.SkipDirs) > 0 {
		// Merge with defaults rather than replace
		d.SkipDirs = appendUnique(d.SkipDirs, od.SkipDirs...)
	}
	if od.IncludeHidden {
		d.IncludeHidden = true
	}
	if od.AppCacheTTL != "" {
		d.AppCacheTTL = od.AppCacheTTL
	}
	if od.RefreshInterval != "" {
		d.RefreshInterval = od.RefreshInterval
	}
	if od.Watch != nil {
		watch := *od.Watch
		d.Watch = &watch
	}
	if od.WatchDebounce != "" {
		d.WatchDebounce = od.WatchDebounce
	}

	// Commands replace the platform defaults wholesale.
	if len(other.Commands) > 0 {
		c.Commands = other.Commands
	}

	// UI
	if other.UI.Theme != "" {
		c.UI.Theme = other.UI.Theme
	}
	if other.UI.NoColor {
		c.UI.NoColor = true
	}

	// Logging
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}
}

func appendUnique(dst []string, more ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range more {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}

// applyEnvOverrides applies AMANLAUNCH_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AMANLAUNCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.Search.Limit = n
		}
	}
	if v := os.Getenv("AMANLAUNCH_SCORER"); v != "" {
		c.Search.Scorer = v
	}
	if v := os.Getenv("AMANLAUNCH_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			c.Search.Parallelism = n
		}
	}
	if v := os.Getenv("AMANLAUNCH_LENGTH_PENALTY"); v != "" {
		// Explicit zero is allowed here, unlike in config files.
		if f, err := parseFloat64(v); err == nil && f >= 0 {
			c.Search.Weights.LengthPenalty = f
		}
	}
	if v := os.Getenv("AMANLAUNCH_DEFAULT_MODE"); v != "" {
		c.Modes.Default = v
	}
	if v := os.Getenv("AMANLAUNCH_FILE_ROOTS"); v != "" {
		c.Discovery.FileRoots = filepath.SplitList(v)
	}
	if v := os.Getenv("AMANLAUNCH_NO_WATCH"); v != "" {
		watch := !isTruthy(v)
		c.Discovery.Watch = &watch
	}
	if v := os.Getenv("AMANLAUNCH_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("AMANLAUNCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// expandPaths resolves a leading ~ in every configured path.
func (c *Config) expandPaths() {
	for i, p := range c.Discovery.AppDirs {
		c.Discovery.AppDirs[i] = ExpandHome(p)
	}
	for i, p := range c.Discovery.FileRoots {
		c.Discovery.FileRoots[i] = ExpandHome(p)
	}
	c.Logging.File = ExpandHome(c.Logging.File)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// parseFloat64 parses a string to float64, used for config parsing.
func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseDuration parses s, returning fallback when s is empty or invalid.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Validate validates the configuration and returns a ConfigInvalid error
// describing the first problem found.
func (c *Config) Validate() error {
	if c.Search.Limit < 1 || c.Search.Limit > maxLimit {
		return invalid("search.limit must be between 1 and %d, got %d", maxLimit, c.Search.Limit)
	}
	if !contains(scorer.Algorithms(), strings.ToLower(c.Search.Scorer)) {
		return invalid("search.scorer must be one of %s, got %q",
			strings.Join(scorer.Algorithms(), ", "), c.Search.Scorer)
	}
	if err := c.Search.Weights.ScorerWeights().Validate(); err != nil {
		return amerrors.ConfigError("invalid search.weights", err)
	}
	if c.Search.Parallelism < 0 {
		return invalid("search.parallelism must be non-negative, got %d", c.Search.Parallelism)
	}
	if c.Search.PartitionThreshold < 0 {
		return invalid("search.partition_threshold must be non-negative, got %d", c.Search.PartitionThreshold)
	}
	if c.Search.CacheSize < 0 {
		return invalid("search.cache_size must be non-negative, got %d", c.Search.CacheSize)
	}

	if _, err := launcher.ParseMode(c.Modes.Default); err != nil {
		return amerrors.ConfigError("invalid modes.default", err)
	}
	disabled := make(map[launcher.Mode]bool)
	for _, name := range c.Modes.Disabled {
		m, err := launcher.ParseMode(name)
		if err != nil {
			return amerrors.ConfigError("invalid modes.disabled", err)
		}
		disabled[m] = true
	}
	if len(disabled) == launcher.NumModes {
		return invalid("modes.disabled must leave at least one mode enabled")
	}

	if c.Discovery.MaxDepth < 0 {
		return invalid("discovery.max_depth must be non-negative, got %d", c.Discovery.MaxDepth)
	}
	if c.Discovery.MaxFiles < 0 {
		return invalid("discovery.max_files must be non-negative, got %d", c.Discovery.MaxFiles)
	}
	for key, v := range map[string]string{
		"discovery.app_cache_ttl":    c.Discovery.AppCacheTTL,
		"discovery.refresh_interval": c.Discovery.RefreshInterval,
		"discovery.watch_debounce":   c.Discovery.WatchDebounce,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return invalid("%s must be a non-negative duration such as \"5m\", got %q", key, v)
		}
	}

	for i, cmd := range c.Commands {
		if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Command) == "" {
			return invalid("commands[%d] needs both name and command", i)
		}
	}

	if !contains(ValidThemes, strings.ToLower(c.UI.Theme)) {
		return invalid("ui.theme must be one of %s, got %q", strings.Join(ValidThemes, ", "), c.UI.Theme)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return amerrors.ConfigError(fmt.Sprintf(format, args...), nil)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Write writes the configuration to path, as TOML when the extension is
// .toml and YAML otherwise. Parent directories are created.
func (c *Config) Write(path string) error {
	if isTOML(path) {
		return c.WriteTOML(path)
	}
	return c.WriteYAML(path)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return amerrors.New(amerrors.ErrCodeConfigWrite, "failed to marshal config", err)
	}
	return writeFile(path, data)
}

// WriteTOML writes the configuration to a TOML file.
func (c *Config) WriteTOML(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return amerrors.New(amerrors.ErrCodeConfigWrite, "failed to marshal config", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return amerrors.New(amerrors.ErrCodeConfigWrite, "failed to create config directory", err).
			WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return amerrors.New(amerrors.ErrCodeConfigWrite, "failed to write config file", err).
			WithDetail("path", path)
	}
	return nil
}
