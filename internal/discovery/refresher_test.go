package discovery

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	"github.com/Aman-CERP/amanlaunch/internal/config"
	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/watcher"
)

// stubSource returns a fixed set and counts calls.
type stubSource struct {
	mode     launcher.Mode
	entities []launcher.Entity
	err      error
	roots    []string
	calls    atomic.Int32
	block    chan struct{}
}

func (s *stubSource) Mode() launcher.Mode { return s.mode }

func (s *stubSource) Roots() []string { return s.roots }

func (s *stubSource) Discover(ctx context.Context) ([]launcher.Entity, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.entities, s.err
}

func TestNewRefresher_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sink    Sink
		sources []Source
		wantErr error
	}{
		{"nil sink", nil, nil, ErrNilDependency},
		{"nil source", catalog.New(), []Source{nil}, ErrNilDependency},
		{"invalid mode", catalog.New(), []Source{&stubSource{mode: launcher.Mode(9)}}, amerrors.ErrInvalidMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRefresher(tt.sink, tt.sources)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("duplicate mode", func(t *testing.T) {
		_, err := NewRefresher(catalog.New(), []Source{
			&stubSource{mode: launcher.ModeRun},
			&stubSource{mode: launcher.ModeRun},
		})
		require.Error(t, err)
		assert.Equal(t, amerrors.ErrCodeConfigInvalid, amerrors.GetCode(err))
	})
}

func TestRefresher_RefreshAll(t *testing.T) {
	// Given: a source per mode
	cat := catalog.New()
	apps := &stubSource{mode: launcher.ModeApps, entities: []launcher.Entity{{ID: "a", Name: "Mail"}}}
	files := &stubSource{mode: launcher.ModeFiles, entities: []launcher.Entity{{ID: "f1", Name: "x"}, {ID: "f2", Name: "y"}}}
	run := NewCommandSource([]config.CommandConfig{{Name: "Lock Screen", Command: "pmset displaysleepnow"}})
	r, err := NewRefresher(cat, []Source{apps, files, run})
	require.NoError(t, err)

	// When
	require.NoError(t, r.RefreshAll(context.Background()))

	// Then: every mode is populated
	assert.Equal(t, 1, cat.Snapshot(launcher.ModeApps).Len())
	assert.Equal(t, 2, cat.Snapshot(launcher.ModeFiles).Len())
	e, ok := cat.Lookup(launcher.ModeRun, "cmd:lock-screen")
	require.True(t, ok)
	assert.Equal(t, "pmset displaysleepnow", e.Command)
}

func TestRefresher_FailingSourceKeepsOldSnapshot(t *testing.T) {
	// Given: a populated files mode
	cat := catalog.New()
	files := &stubSource{mode: launcher.ModeFiles, entities: []launcher.Entity{{ID: "f1", Name: "x"}}}
	apps := &stubSource{mode: launcher.ModeApps, entities: []launcher.Entity{{ID: "a", Name: "Mail"}}}
	r, err := NewRefresher(cat, []Source{files, apps})
	require.NoError(t, err)
	_, err = r.RefreshMode(context.Background(), launcher.ModeFiles)
	require.NoError(t, err)

	// When: the next files scan fails during a full refresh
	files.err = errors.New("permission denied")
	err = r.RefreshAll(context.Background())

	// Then: the error is reported, the old snapshot stays, apps still refreshed
	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeDiscoveryFailed, amerrors.GetCode(err))
	assert.Equal(t, 1, cat.Snapshot(launcher.ModeFiles).Len())
	assert.Equal(t, 1, cat.Snapshot(launcher.ModeApps).Len())
}

func TestRefresher_RefreshMode_NoSource(t *testing.T) {
	r, err := NewRefresher(catalog.New(), nil)
	require.NoError(t, err)

	_, err = r.RefreshMode(context.Background(), launcher.ModeFiles)

	assert.ErrorIs(t, err, amerrors.ErrInvalidMode)
}

func TestRefresher_RefreshMode_Cancelled(t *testing.T) {
	cat := catalog.New()
	src := &stubSource{mode: launcher.ModeFiles, block: make(chan struct{})}
	r, err := NewRefresher(cat, []Source{src})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.RefreshMode(ctx, launcher.ModeFiles)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, cat.Snapshot(launcher.ModeFiles).Generation())
}

func TestRefresher_HandleBatch_RefreshesOwningMode(t *testing.T) {
	// Given: sources rooted in different directories
	appDir, fileDir := t.TempDir(), t.TempDir()
	apps := &stubSource{mode: launcher.ModeApps, roots: []string{appDir}}
	files := &stubSource{mode: launcher.ModeFiles, roots: []string{fileDir}}
	r, err := NewRefresher(catalog.New(), []Source{apps, files})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{appDir, fileDir}, r.WatchRoots())

	// When: a batch touches only the file root, twice over
	r.HandleBatch(context.Background(), watcher.Batch{Roots: []string{fileDir, filepath.Clean(fileDir + "/")}})

	// Then: only the files source ran, once
	assert.Equal(t, int32(0), apps.calls.Load())
	assert.Equal(t, int32(1), files.calls.Load())
}

func TestRefresher_HandleBatch_InvalidatesAppCache(t *testing.T) {
	// Given: an app source whose cache is warm
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "Maps.app"))
	cat := catalog.New()
	src := NewAppSource([]string{dir},
		WithAppCache(NewAppCache(filepath.Join(t.TempDir(), "apps.json"), time.Hour)),
		WithoutBuiltins())
	r, err := NewRefresher(cat, []Source{src})
	require.NoError(t, err)
	require.NoError(t, r.RefreshAll(context.Background()))

	// When: a bundle is added and the watcher reports the app dir
	mkdirs(t, filepath.Join(dir, "Music.app"))
	r.HandleBatch(context.Background(), watcher.Batch{Roots: []string{dir}})

	// Then: the catalog sees it despite the fresh cache
	_, ok := cat.Lookup(launcher.ModeApps, filepath.Join(dir, "Music.app"))
	assert.True(t, ok)
}

func TestRefresher_Run(t *testing.T) {
	// Given: a short interval and a batch channel
	root := t.TempDir()
	files := &stubSource{mode: launcher.ModeFiles, roots: []string{root}}
	r, err := NewRefresher(catalog.New(), []Source{files}, WithInterval(20*time.Millisecond))
	require.NoError(t, err)

	batches := make(chan watcher.Batch, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, batches) }()

	// When: a batch arrives and the channel closes
	batches <- watcher.Batch{Roots: []string{root}}
	close(batches)

	// Then: refreshes keep happening from the ticker
	require.Eventually(t, func() bool { return files.calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestCommandSource(t *testing.T) {
	src := NewCommandSource([]config.CommandConfig{
		{Name: "Shutdown", Command: "systemctl poweroff", Description: "Power off"},
		{Name: "  Lock   Screen ", Command: "loginctl lock-session"},
		{Name: "", Command: "true"},
		{Name: "Empty"},
	})

	got, err := src.Discover(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cmd:shutdown", got[0].ID)
	assert.Equal(t, "Power off", got[0].Secondary)
	assert.Equal(t, "cmd:lock-screen", got[1].ID)
	assert.Equal(t, "Lock   Screen", got[1].Name)
	assert.Equal(t, "loginctl lock-session", got[1].Secondary)
	assert.Equal(t, launcher.ModeRun, src.Mode())
}
