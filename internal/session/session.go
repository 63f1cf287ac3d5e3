// Package session coordinates keystrokes, mode switches and ranking for one
// launcher window.
//
// Every input bumps a sequence number and starts a ranking for it, cancelling
// the one in flight. A finished ranking is published only when it answers the
// latest input, so results never go backwards even when an older ranking
// finishes last.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/rank"
	"github.com/Aman-CERP/amanlaunch/internal/telemetry"
)

// State is the session's position in its input/result cycle.
type State int

const (
	// StateIdle means no query is active.
	StateIdle State = iota
	// StatePending means a ranking is in flight for the latest input.
	StatePending
	// StateSettled means the published results answer the latest input.
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

var (
	// ErrNilDependency is returned when a required collaborator is missing.
	ErrNilDependency = errors.New("nil dependency")

	// ErrClosed is returned by Wait once the session is closed.
	ErrClosed = errors.New("session closed")
)

// SnapshotSource supplies the current snapshot of a mode.
type SnapshotSource interface {
	Snapshot(mode launcher.Mode) *catalog.Snapshot
}

// Ranker orders a snapshot against a query.
type Ranker interface {
	Rank(ctx context.Context, q launcher.Query, snap *catalog.Snapshot, limit int) (launcher.ResultSet, error)
}

var (
	_ SnapshotSource = (*catalog.Catalog)(nil)
	_ Ranker         = (*rank.Ranker)(nil)
)

// Session is safe for concurrent use.
type Session struct {
	source      SnapshotSource
	ranker      Ranker
	modes       *ModeController
	limit       int
	idleOnEmpty bool
	metrics     *telemetry.QueryMetrics
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	text      string
	issued    uint64
	published uint64
	state     State
	current   launcher.ResultSet
	inflight  context.CancelFunc
	changed   chan struct{}
	subs      map[int]chan launcher.ResultSet
	nextSub   int
	closed    bool
}

// Option configures a Session.
type Option func(*Session)

// WithLimit sets the result page size, clamped into the ranker's bounds.
func WithLimit(n int) Option {
	return func(s *Session) {
		s.limit = rank.ClampLimit(n)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIdleOnEmpty makes blank text return the session to Idle with an empty
// result instead of listing the mode's catalog.
func WithIdleOnEmpty(enabled bool) Option {
	return func(s *Session) {
		s.idleOnEmpty = enabled
	}
}

// WithModeController shares a mode controller, e.g. one built from config.
func WithModeController(mc *ModeController) Option {
	return func(s *Session) {
		if mc != nil {
			s.modes = mc
		}
	}
}

// WithInitialMode starts the session in m. Ignored when WithModeController
// is also given.
func WithInitialMode(m launcher.Mode) Option {
	return func(s *Session) {
		if s.modes != nil {
			return
		}
		if mc, err := NewModeController(m); err == nil {
			s.modes = mc
		}
	}
}

// WithMetrics counts dropped stale rankings.
func WithMetrics(m *telemetry.QueryMetrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// New creates an idle session over source and ranker.
func New(source SnapshotSource, ranker Ranker, opts ...Option) (*Session, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: snapshot source is required", ErrNilDependency)
	}
	if ranker == nil {
		return nil, fmt.Errorf("%w: ranker is required", ErrNilDependency)
	}

	s := &Session{
		source:  source,
		ranker:  ranker,
		limit:   rank.DefaultLimit,
		logger:  slog.Default(),
		changed: make(chan struct{}),
		subs:    make(map[int]chan launcher.ResultSet),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.modes == nil {
		mc, err := NewModeController(launcher.ModeApps)
		if err != nil {
			return nil, err
		}
		s.modes = mc
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.current = launcher.ResultSet{Mode: s.modes.Current()}
	return s, nil
}

// OnKeystroke sets the query text and starts ranking it. It returns the
// sequence number assigned to the input, or 0 once the session is closed.
func (s *Session) OnKeystroke(text string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	s.text = text
	return s.dispatchLocked()
}

// OnModeChange switches mode and re-ranks the current text against it.
func (s *Session) OnModeChange(m launcher.Mode) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if err := s.modes.Set(m); err != nil {
		return 0, err
	}
	return s.dispatchLocked(), nil
}

// OnModeChangeName parses name and switches to that mode.
func (s *Session) OnModeChangeName(name string) (uint64, error) {
	m, err := launcher.ParseMode(name)
	if err != nil {
		return 0, err
	}
	return s.OnModeChange(m)
}

// CycleMode switches to the next enabled mode.
func (s *Session) CycleMode() (uint64, error) {
	return s.OnModeChange(s.modes.Next())
}

// OnCatalogRefresh re-ranks the current text when mode is the active mode,
// so a window that is already open picks up a new snapshot. It returns the
// new sequence number, or 0 when nothing was dispatched.
func (s *Session) OnCatalogRefresh(mode launcher.Mode) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.issued == 0 || mode != s.modes.Current() {
		return 0
	}
	return s.dispatchLocked()
}

// dispatchLocked issues the next sequence number for the current text and
// mode and starts its ranking.
func (s *Session) dispatchLocked() uint64 {
	s.issued++
	seq := s.issued
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}

	q := launcher.Query{Text: s.text, Mode: s.modes.Current(), Sequence: seq}

	if s.idleOnEmpty && strings.TrimSpace(q.Text) == "" {
		s.publishLocked(launcher.ResultSet{Sequence: seq, Mode: q.Mode, Query: q.Text})
		s.state = StateIdle
		return seq
	}

	s.state = StatePending
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	snap := s.source.Snapshot(q.Mode)

	s.wg.Add(1)
	go s.run(ctx, q, snap)
	return seq
}

func (s *Session) run(ctx context.Context, q launcher.Query, snap *catalog.Snapshot) {
	defer s.wg.Done()

	rs, err := s.ranker.Rank(ctx, q, snap, s.limit)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Debug("ranking cancelled", slog.Uint64("seq", q.Sequence))
			s.metrics.RecordStaleDrop()
			return
		}
		s.logger.Warn("ranking failed, showing no results",
			slog.Uint64("seq", q.Sequence),
			slog.String("error", err.Error()))
		rs = launcher.ResultSet{Sequence: q.Sequence, Mode: q.Mode, Query: q.Text}
	}
	rs.Sequence = q.Sequence

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(rs)
}

// publishLocked installs rs as the current results when it answers the latest
// input and is newer than anything published. Anything else is stale and
// dropped.
func (s *Session) publishLocked(rs launcher.ResultSet) {
	if s.closed {
		return
	}
	if rs.Sequence <= s.published || rs.Sequence != s.issued {
		s.logger.Debug("dropping stale results",
			slog.Uint64("seq", rs.Sequence),
			slog.Uint64("latest", s.issued))
		s.metrics.RecordStaleDrop()
		return
	}

	s.current = rs
	s.published = rs.Sequence
	s.state = StateSettled
	s.inflight = nil

	for _, ch := range s.subs {
		deliver(ch, rs)
	}
	close(s.changed)
	s.changed = make(chan struct{})
}

// deliver sends without blocking. A full channel loses its oldest result.
func deliver(ch chan launcher.ResultSet, rs launcher.ResultSet) {
	select {
	case ch <- rs:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- rs:
	default:
	}
}

// CurrentResults returns the last published result set.
func (s *Session) CurrentResults() launcher.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the active mode.
func (s *Session) Mode() launcher.Mode {
	return s.modes.Current()
}

// Modes returns the session's mode controller.
func (s *Session) Modes() *ModeController {
	return s.modes
}

// Text returns the current query text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Subscribe returns a channel receiving every published result set and a
// function that cancels the subscription. A subscriber that falls behind
// skips to the newest results. The channel is closed on cancel or Close.
func (s *Session) Subscribe(buffer int) (<-chan launcher.ResultSet, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan launcher.ResultSet, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// OnSelect resolves id in the active mode's current snapshot.
func (s *Session) OnSelect(id string) (launcher.Entity, error) {
	mode := s.modes.Current()
	e := s.source.Snapshot(mode).Lookup(id)
	if e == nil {
		return launcher.Entity{}, amerrors.EntityNotFound(mode.String(), id)
	}
	return *e, nil
}

// Wait blocks until results for seq or a later input are published.
func (s *Session) Wait(ctx context.Context, seq uint64) (launcher.ResultSet, error) {
	for {
		s.mu.Lock()
		if s.published >= seq && s.published > 0 {
			rs := s.current
			s.mu.Unlock()
			return rs, nil
		}
		if s.closed {
			s.mu.Unlock()
			return launcher.ResultSet{}, ErrClosed
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return launcher.ResultSet{}, ctx.Err()
		case <-changed:
		}
	}
}

// Close cancels in-flight ranking, closes every subscription and waits for
// ranking goroutines to exit.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	close(s.changed)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
