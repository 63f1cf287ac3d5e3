package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launch"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/output"
	"github.com/Aman-CERP/amanlaunch/internal/ui"
)

// queryOptions holds CLI flags for query.
type queryOptions struct {
	mode   string
	limit  int
	format string // "text", "json"
	launch bool
	dryRun bool
	stats  bool
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query [text...]",
		Short: "Print ranked matches for a query",
		Long: `Discover one mode, rank its entities against the query text and print
the top matches. Without text, the mode's catalog is listed in order.

With --launch the best match is launched, as if it had been selected in the
launcher window.`,
		Example: `  amanlaunch query saf
  amanlaunch query -m files report
  amanlaunch query -m run lock --launch
  amanlaunch query term --dry-run
  amanlaunch query -n 20 --format json ma`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Mode to search: apps, files, run (default from config)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.launch, "launch", false, "Launch the best match")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the best match's launch command instead of running it")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print catalog and ranking statistics to stderr")

	return cmd
}

func runQuery(cmd *cobra.Command, text string, opts queryOptions) error {
	ctx := cmd.Context()

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup := setupLogging(cfg)
	defer cleanup()

	a, err := newApp(cfg, logger, withLimit(opts.limit))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	mode := a.session.Mode()
	if opts.mode != "" {
		if mode, err = launcher.ParseMode(opts.mode); err != nil {
			return err
		}
		if _, err := a.session.OnModeChange(mode); err != nil {
			return err
		}
	}

	// Only the queried mode is discovered.
	if _, err := a.refresher.RefreshMode(ctx, mode); err != nil {
		return err
	}

	rs, err := a.session.Wait(ctx, a.session.OnKeystroke(text))
	if err != nil {
		return err
	}
	logger.Info("query complete",
		slog.String("mode", mode.String()),
		slog.String("query", text),
		slog.Int("results", rs.Len()),
		slog.Int("total", rs.Total))

	out := output.New(cmd.OutOrStdout()).
		WithColor(format == output.FormatText && !cfg.UI.NoColor && ui.IsTTY(cmd.OutOrStdout()))
	if err := out.Results(rs, format); err != nil {
		return err
	}

	if opts.stats {
		printStats(cmd.ErrOrStderr(), a)
	}

	if !opts.launch && !opts.dryRun {
		return nil
	}
	if rs.Empty() {
		return amerrors.New(amerrors.ErrCodeEntityNotFound,
			fmt.Sprintf("nothing to launch: no %s match %q", mode, text), nil).
			WithDetail("mode", mode.String())
	}
	entity, err := a.session.OnSelect(rs.Matches[0].Entity.ID)
	if err != nil {
		return err
	}

	launchOpts := []launch.Option{launch.WithLogger(logger)}
	if opts.dryRun {
		// Keep stdout parseable when it carries JSON.
		var w io.Writer = cmd.OutOrStdout()
		if format == output.FormatJSON {
			w = cmd.ErrOrStderr()
		}
		launchOpts = append(launchOpts, launch.WithDryRun(w))
	}
	if err := launch.New(launchOpts...).Launch(ctx, entity); err != nil {
		logger.Error("launch failed", amerrors.LogAttrs(err)...)
		return err
	}
	return nil
}

func printStats(w io.Writer, a *app) {
	var parts []string
	for _, s := range a.catalog.Stats() {
		parts = append(parts, fmt.Sprintf("%s=%d", s.Mode, s.Entities))
	}
	m := a.metrics.Snapshot()
	_, _ = fmt.Fprintf(w, "catalog: %s\n", strings.Join(parts, " "))
	_, _ = fmt.Fprintf(w, "queries: %d  cache hits: %d  zero results: %d  stale dropped: %d\n",
		m.TotalQueries, m.CacheHits, m.ZeroResultCount, m.StaleDropped)
}
