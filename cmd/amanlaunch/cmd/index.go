package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	"github.com/Aman-CERP/amanlaunch/internal/ui"
)

type indexOptions struct {
	clearCache bool
	jsonOutput bool
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Discover every enabled mode and report catalog sizes",
		Long: `Run discovery for every enabled mode, the way the launcher does when
its window opens, and report how many entities each mode found.

The application list is cached on disk for discovery.app_cache_ttl; running
index with --clear-cache rescans application directories and rewrites the
cache.`,
		Example: `  amanlaunch index
  amanlaunch index --clear-cache
  amanlaunch index --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.clearCache, "clear-cache", false, "Discard the cached application list first")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print per-mode catalog statistics as JSON")

	return cmd
}

func runIndex(cmd *cobra.Command, opts indexOptions) error {
	ctx := cmd.Context()

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

	if opts.clearCache {
		if err := a.apps.Invalidate(); err != nil {
			return err
		}
	}

	reporter := ui.NewPlainReporter(cmd.OutOrStdout())
	if opts.jsonOutput {
		reporter = ui.NewPlainReporter(cmd.ErrOrStderr())
	}

	start := time.Now()
	var g errgroup.Group
	for _, mode := range a.session.Modes().EnabledModes() {
		mode := mode
		g.Go(func() error {
			t := time.Now()
			snap, err := a.refresher.RefreshMode(ctx, mode)
			ev := ui.IndexEvent{Mode: mode, Duration: time.Since(t), Err: err}
			if snap != nil {
				ev.Entities = snap.Len()
			}
			reporter.ModeIndexed(ev)
			return nil
		})
	}
	_ = g.Wait()

	summary := reporter.Summary(time.Since(start))
	reporter.Complete(summary)

	if opts.jsonOutput {
		var enabled []catalog.ModeStats
		for _, s := range a.catalog.Stats() {
			if a.session.Modes().Enabled(s.Mode) {
				enabled = append(enabled, s)
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(enabled); err != nil {
			return err
		}
	}

	if summary.Errors > 0 {
		return fmt.Errorf("%d of %d modes failed to index", summary.Errors, len(a.session.Modes().EnabledModes()))
	}
	return nil
}
