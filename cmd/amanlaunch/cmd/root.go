// Package cmd provides the CLI commands for amanlaunch.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlaunch/internal/config"
	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/logging"
	"github.com/Aman-CERP/amanlaunch/internal/profiling"
	"github.com/Aman-CERP/amanlaunch/internal/ui"
	"github.com/Aman-CERP/amanlaunch/pkg/version"
)

// Global flags, bound fresh by every NewRootCmd.
var (
	configPath string
	debugMode  bool
	noColor    bool
	themeName  string

	profileOpts profiling.Options
	profiler    *profiling.Profiler
)

// NewRootCmd creates the root command for amanlaunch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amanlaunch",
		Short: "Keyboard-driven launcher for apps, files and commands",
		Long: `amanlaunch is an on-demand launcher. Type a few characters and it
fuzzy-matches applications, files under your home directory, or configured
commands, ranked as you type.

Run 'amanlaunch' in a terminal to open the launcher window. In scripts, use
'amanlaunch query' for one-shot ranked results.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			if !ui.Interactive(cmd.InOrStdin(), cmd.OutOrStdout()) {
				return cmd.Help()
			}
			return runTUI(cmd, tuiOptions{})
		},
	}

	cmd.SetVersionTemplate("amanlaunch version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML or TOML), merged over the user config")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.amanlaunch/logs/")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors")
	cmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: gruvbox, 8bit, catppuccin, modern")

	cmd.PersistentFlags().StringVar(&profileOpts.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = startProfiling
	cmd.PersistentPostRunE = stopProfiling

	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newModesCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and prints any error for humans.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), amerrors.FormatForUser(err, debugMode))
	}
	return err
}

func startProfiling(_ *cobra.Command, _ []string) error {
	if !profileOpts.Enabled() {
		return nil
	}
	p, err := profiling.Start(profileOpts)
	if err != nil {
		return err
	}
	profiler = p
	return nil
}

func stopProfiling(cmd *cobra.Command, _ []string) error {
	if profiler == nil {
		return nil
	}
	err := profiler.Stop()
	profiler = nil
	if err == nil && profileOpts.Heap != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "heap profile: %s (heap in use: %s)\n",
			profileOpts.Heap, profiling.FormatBytes(profiling.HeapInUse()))
	}
	return err
}

// loadConfig loads the layered config and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if noColor {
		cfg.UI.NoColor = true
	}
	if themeName != "" {
		cfg.UI.Theme = themeName
	}
	if debugMode {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging opens the log file. Logs never go to the terminal, since
// stdout carries results and the launcher window owns the screen. A log file
// that cannot be opened disables logging rather than failing the command.
func setupLogging(cfg *config.Config) (*slog.Logger, func()) {
	logCfg := logging.TUIConfig(cfg.Logging.Level)
	if cfg.Logging.File != "" {
		logCfg.FilePath = cfg.Logging.File
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return logging.Discard(), func() {}
	}
	slog.SetDefault(logger)
	logger.Debug("logging started",
		slog.String("log_file", logCfg.FilePath),
		slog.String("version", version.Short()))
	return logger, cleanup
}
