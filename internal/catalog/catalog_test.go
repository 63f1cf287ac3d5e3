package catalog

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/logging"
)

func apps(names ...string) []launcher.Entity {
	out := make([]launcher.Entity, len(names))
	for i, n := range names {
		out[i] = launcher.Entity{ID: "/Applications/" + n + ".app", Name: n}
	}
	return out
}

func newTestCatalog(opts ...Option) *Catalog {
	return New(append([]Option{WithLogger(logging.Discard())}, opts...)...)
}

func TestNew_EveryModeStartsEmpty(t *testing.T) {
	c := newTestCatalog()

	for _, m := range launcher.AllModes() {
		s := c.Snapshot(m)
		require.NotNil(t, s)
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, m, s.Mode())
	}
}

func TestRefresh_ReplacesWholeSet(t *testing.T) {
	// Given: a catalog with three apps
	c := newTestCatalog()
	_, err := c.Refresh(launcher.ModeApps, apps("Safari", "Mail", "Maps"))
	require.NoError(t, err)

	// When: refreshing with a different set
	_, err = c.Refresh(launcher.ModeApps, apps("Notes"))
	require.NoError(t, err)

	// Then: only the new set is visible
	s := c.Snapshot(launcher.ModeApps)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Notes", s.At(0).Name)
}

func TestRefresh_OldSnapshotStaysValid(t *testing.T) {
	// Given: a reader holding a snapshot
	c := newTestCatalog()
	_, err := c.Refresh(launcher.ModeApps, apps("Safari", "Mail"))
	require.NoError(t, err)
	held := c.Snapshot(launcher.ModeApps)

	// When: the mode is refreshed
	_, err = c.Refresh(launcher.ModeApps, apps("Notes"))
	require.NoError(t, err)

	// Then: the held snapshot still shows the old entities
	assert.Equal(t, 2, held.Len())
	assert.Equal(t, "Safari", held.At(0).Name)
	assert.Less(t, held.Generation(), c.Snapshot(launcher.ModeApps).Generation())
}

func TestRefresh_CopiesInput(t *testing.T) {
	c := newTestCatalog()
	in := apps("Safari")

	_, err := c.Refresh(launcher.ModeApps, in)
	require.NoError(t, err)
	in[0].Name = "mutated"

	assert.Equal(t, "Safari", c.Snapshot(launcher.ModeApps).At(0).Name)
}

func TestRefresh_ZeroEntitiesIsNotAnError(t *testing.T) {
	c := newTestCatalog()
	_, err := c.Refresh(launcher.ModeFiles, apps("a"))
	require.NoError(t, err)

	snap, err := c.Refresh(launcher.ModeFiles, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 0, c.Snapshot(launcher.ModeFiles).Len())
}

func TestRefresh_DropsDuplicateIDs(t *testing.T) {
	c := newTestCatalog()
	in := []launcher.Entity{
		{ID: "x", Name: "first"},
		{ID: "y", Name: "other"},
		{ID: "x", Name: "second"},
	}

	snap, err := c.Refresh(launcher.ModeRun, in)

	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "first", snap.Lookup("x").Name)
}

func TestRefresh_StampsModeAndLastSeen(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := newTestCatalog(WithClock(func() time.Time { return fixed }))

	// Given: an entity tagged with the wrong mode
	in := []launcher.Entity{{ID: "/tmp/a.txt", Name: "a.txt", Mode: launcher.ModeApps}}

	// When: refreshed into Files
	snap, err := c.Refresh(launcher.ModeFiles, in)
	require.NoError(t, err)

	// Then: the catalog owns the tag
	assert.Equal(t, launcher.ModeFiles, snap.At(0).Mode)
	assert.Equal(t, fixed, snap.At(0).LastSeen)
	assert.Equal(t, fixed, snap.RefreshedAt())
}

func TestRefresh_InvalidMode(t *testing.T) {
	c := newTestCatalog()

	_, err := c.Refresh(launcher.Mode(42), apps("x"))

	assert.True(t, errors.Is(err, amerrors.ErrInvalidMode))
	assert.Equal(t, 0, c.Snapshot(launcher.Mode(42)).Len())
}

func TestRefresh_ModesAreIsolated(t *testing.T) {
	c := newTestCatalog()
	_, err := c.Refresh(launcher.ModeApps, apps("Mail"))
	require.NoError(t, err)
	_, err = c.Refresh(launcher.ModeFiles, []launcher.Entity{{ID: "/Applications/Mail.app", Name: "Mail.app"}})
	require.NoError(t, err)

	// Same ID in two modes is allowed and never merged
	a, ok := c.Lookup(launcher.ModeApps, "/Applications/Mail.app")
	require.True(t, ok)
	f, ok := c.Lookup(launcher.ModeFiles, "/Applications/Mail.app")
	require.True(t, ok)
	assert.Equal(t, "Mail", a.Name)
	assert.Equal(t, "Mail.app", f.Name)

	_, ok = c.Lookup(launcher.ModeRun, "/Applications/Mail.app")
	assert.False(t, ok)
}

func TestRefresh_HookAndStats(t *testing.T) {
	var seen []uint64
	c := newTestCatalog(WithRefreshHook(func(s *Snapshot) { seen = append(seen, s.Generation()) }))

	_, _ = c.Refresh(launcher.ModeApps, apps("a", "b"))
	_, _ = c.Refresh(launcher.ModeRun, apps("c"))

	assert.Equal(t, []uint64{1, 2}, seen)
	stats := c.Stats()
	require.Len(t, stats, launcher.NumModes)
	assert.Equal(t, 2, stats[0].Entities)
	assert.Equal(t, 0, stats[1].Entities)
	assert.Equal(t, uint64(2), stats[2].Generation)
}

func TestSnapshot_EntitiesReturnsCopy(t *testing.T) {
	s := NewSnapshot(launcher.ModeApps, apps("Mail"))

	out := s.Entities()
	out[0].Name = "changed"

	assert.Equal(t, "Mail", s.At(0).Name)
	assert.Nil(t, s.Lookup("missing"))
	assert.Equal(t, uint64(0), s.Generation())
}

func TestCatalog_ConcurrentRefreshAndRead(t *testing.T) {
	// Given: writers refreshing and readers scanning at the same time
	c := newTestCatalog()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				n := (w+i)%5 + 1
				set := make([]launcher.Entity, n)
				for k := range set {
					set[k] = launcher.Entity{ID: fmt.Sprintf("id-%d", k), Name: fmt.Sprintf("size-%d", n)}
				}
				_, _ = c.Refresh(launcher.ModeFiles, set)
			}
		}(w)
	}

	// Then: every snapshot a reader sees is internally consistent
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := c.Snapshot(launcher.ModeFiles)
				want := fmt.Sprintf("size-%d", s.Len())
				for k := 0; k < s.Len(); k++ {
					if s.At(k).Name != want {
						t.Errorf("torn snapshot: %q in set of %d", s.At(k).Name, s.Len())
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
