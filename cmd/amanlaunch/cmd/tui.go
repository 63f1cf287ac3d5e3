package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlaunch/internal/launch"
	"github.com/Aman-CERP/amanlaunch/internal/ui"
)

type tuiOptions struct {
	mode        string
	dryRun      bool
	noAltScreen bool
}

func newTUICmd() *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive launcher",
		Long: `Open the launcher window in the terminal.

Type to filter, move with up/down (or ctrl+p/ctrl+n), switch modes with tab,
launch with enter, close with esc.

Catalogs are discovered in the background when the window opens and kept
current by filesystem notifications and a periodic refresh.`,
		Example: `  amanlaunch tui
  amanlaunch tui --mode files
  amanlaunch tui --dry-run   # print the command instead of launching`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !ui.Interactive(cmd.InOrStdin(), cmd.OutOrStdout()) {
				return fmt.Errorf("the launcher window needs a terminal; use 'amanlaunch query' in scripts")
			}
			return runTUI(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Start in mode: apps, files, run")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the launch command instead of running it")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "Draw inline instead of using the alternate screen")

	return cmd
}

func runTUI(cmd *cobra.Command, opts tuiOptions) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup := setupLogging(cfg)
	defer cleanup()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if opts.mode != "" {
		if _, err := a.session.OnModeChangeName(opts.mode); err != nil {
			return err
		}
	}

	stop := a.background(ctx)
	defer stop()

	launchOpts := []launch.Option{launch.WithLogger(logger)}
	if opts.dryRun {
		launchOpts = append(launchOpts, launch.WithDryRun(cmd.ErrOrStderr()))
	}
	starter := launch.New(launchOpts...)

	uiCfg := ui.NewConfig(cmd.OutOrStdout(),
		ui.WithTheme(cfg.UI.Theme),
		ui.WithNoColor(cfg.UI.NoColor),
		ui.WithInput(cmd.InOrStdin()),
		ui.WithAltScreen(!opts.noAltScreen),
	)

	logger.Info("launcher opened", slog.String("mode", a.session.Mode().String()))
	entity, launched, err := ui.Run(ctx, a.session, starter, a.session.Modes(), uiCfg)
	if err != nil && ctx.Err() == nil {
		return err
	}
	if launched {
		logger.Info("launcher closed after launch",
			slog.String("mode", entity.Mode.String()),
			slog.String("id", entity.ID))
	}
	return nil
}
