package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	"github.com/Aman-CERP/amanlaunch/internal/config"
	"github.com/Aman-CERP/amanlaunch/internal/discovery"
	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/rank"
	"github.com/Aman-CERP/amanlaunch/internal/scorer"
	"github.com/Aman-CERP/amanlaunch/internal/session"
	"github.com/Aman-CERP/amanlaunch/internal/telemetry"
	"github.com/Aman-CERP/amanlaunch/internal/watcher"
)

// app is the engine assembled from config: catalog, ranker, session and
// the discovery sources that feed the catalog.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
	ranker  *rank.Ranker
	metrics *telemetry.QueryMetrics
	session *session.Session

	apps      *discovery.AppSource
	appCache  *discovery.AppCache
	files     *discovery.FileSource
	refresher *discovery.Refresher
}

// appOption adjusts how the app is built.
type appOption func(*appSettings)

type appSettings struct {
	limit int
}

// withLimit overrides search.limit.
func withLimit(n int) appOption {
	return func(s *appSettings) {
		if n > 0 {
			s.limit = n
		}
	}
}

func newApp(cfg *config.Config, logger *slog.Logger, opts ...appOption) (*app, error) {
	settings := appSettings{limit: cfg.Search.Limit}
	for _, opt := range opts {
		opt(&settings)
	}

	a := &app{cfg: cfg, logger: logger}
	a.metrics = telemetry.NewQueryMetrics(telemetry.DefaultConfig())

	sc, err := scorer.New(cfg.Search.Scorer, cfg.Search.Weights.ScorerWeights())
	if err != nil {
		return nil, err
	}
	a.ranker, err = rank.NewRanker(sc,
		rank.WithParallelism(cfg.Search.Parallelism),
		rank.WithPartitionThreshold(cfg.Search.PartitionThreshold),
		rank.WithSecondaryText(cfg.Search.MatchSecondary),
		rank.WithCache(cfg.Search.CacheSize),
		rank.WithMetrics(a.metrics),
		rank.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	a.catalog = catalog.New(
		catalog.WithLogger(logger),
		catalog.WithRefreshHook(a.onRefresh),
	)

	modes, err := session.NewModeController(cfg.Modes.DefaultMode(), cfg.Modes.DisabledModes()...)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(a.catalog, a.ranker,
		session.WithModeController(modes),
		session.WithLimit(settings.limit),
		session.WithIdleOnEmpty(cfg.Modes.IdleOnEmpty),
		session.WithMetrics(a.metrics),
		session.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	if err := a.buildSources(); err != nil {
		_ = sess.Close()
		return nil, err
	}
	// Set last: the refresh hook only re-ranks once the session exists.
	a.session = sess
	return a, nil
}

func (a *app) buildSources() error {
	d := a.cfg.Discovery

	appOpts := []discovery.AppOption{discovery.WithAppLogger(a.logger)}
	if path, err := discovery.DefaultAppCachePath(); err == nil {
		a.appCache = discovery.NewAppCache(path, d.CacheTTL())
		appOpts = append(appOpts, discovery.WithAppCache(a.appCache))
	} else {
		a.logger.Warn("app cache disabled", slog.String("error", err.Error()))
	}
	a.apps = discovery.NewAppSource(d.AppDirs, appOpts...)

	files, err := discovery.NewFileSource(discovery.FileOptions{
		Roots:         d.FileRoots,
		MaxDepth:      d.MaxDepth,
		MaxFiles:      d.MaxFiles,
		SkipDirs:      d.SkipDirs,
		IncludeHidden: d.IncludeHidden,
		Logger:        a.logger,
	})
	if err != nil {
		return err
	}
	a.files = files

	a.refresher, err = discovery.NewRefresher(a.catalog,
		[]discovery.Source{a.apps, a.files, discovery.NewCommandSource(a.cfg.Commands)},
		discovery.WithInterval(d.Interval()),
		discovery.WithRefresherLogger(a.logger),
	)
	return err
}

// onRefresh drops cached rankings and re-ranks an open window whose mode
// just changed underneath it.
func (a *app) onRefresh(snap *catalog.Snapshot) {
	a.ranker.PurgeCache()
	if a.session != nil {
		a.session.OnCatalogRefresh(snap.Mode())
	}
}

// background keeps the catalog current while the launcher is open: a full
// refresh now, then watcher-driven and periodic refreshes until ctx ends.
// The returned stop function waits for all of it to finish.
func (a *app) background(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	var w *watcher.Watcher
	if a.cfg.Discovery.WatchEnabled() {
		var err error
		w, err = a.startWatcher()
		if err != nil {
			a.logger.Warn("filesystem watching disabled, relying on periodic refresh",
				amerrors.LogAttrs(err)...)
			w = nil
		}
	}

	go func() {
		defer close(done)

		if err := a.refresher.RefreshAll(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("initial refresh incomplete", amerrors.LogAttrs(err)...)
		}

		var batches <-chan watcher.Batch
		if w != nil {
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					a.logger.Warn("watcher stopped", amerrors.LogAttrs(err)...)
				}
			}()
			go a.logWatcherErrors(ctx, w.Errors())
			batches = w.Events()
		}
		_ = a.refresher.Run(ctx, batches)
	}()

	return func() {
		cancel()
		<-done
		if w != nil {
			_ = w.Close()
		}
	}
}

// logWatcherErrors logs non-fatal watcher errors (event overflow, a
// directory that could not be added) until ctx ends or errs is closed.
func (a *app) logWatcherErrors(ctx context.Context, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			a.logger.Warn("watcher error", amerrors.LogAttrs(err)...)
		}
	}
}

func (a *app) startWatcher() (*watcher.Watcher, error) {
	d := a.cfg.Discovery
	w, err := watcher.New(watcher.Options{
		DebounceWindow: d.Debounce(),
		MaxDepth:       a.files.MaxDepth(),
		Skip:           a.files.Skip,
		Logger:         a.logger,
	})
	if err != nil {
		return nil, err
	}

	added := 0
	for _, root := range a.refresher.WatchRoots() {
		if err := w.Add(root); err != nil {
			a.logger.Debug("root not watched",
				slog.String("root", root),
				slog.String("error", err.Error()))
			continue
		}
		added++
	}
	a.logger.Info("watching for changes",
		slog.Int("roots", added),
		slog.Int("dirs", w.WatchedDirs()))
	return w, nil
}

// Close stops the session.
func (a *app) Close() error {
	return a.session.Close()
}
