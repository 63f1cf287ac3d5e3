package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file or directory was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was modified.
	OpModify
	// OpDelete indicates a file or directory was deleted.
	OpDelete
	// OpRename indicates a file or directory was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a file system event.
type FileEvent struct {
	// Path is the absolute path of the file or directory.
	Path string

	// Root is the watched root the path lives under.
	Root string

	Operation Operation
	IsDir     bool
	Timestamp time.Time
}

// Batch is a debounced group of events.
type Batch struct {
	Events []FileEvent
	// Roots lists the distinct roots touched by Events, sorted.
	Roots []string
}

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watcher closed")

// SkipFunc reports whether a directory entry below a root is ignored. Skipped
// directories are not watched and nothing below them is reported.
type SkipFunc func(name string, isDir bool) bool

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the quiet period before a batch is emitted.
	// Default: 200ms
	DebounceWindow time.Duration

	// MaxDelay bounds how long a batch can be held back by continuous
	// activity. Default: 2s
	MaxDelay time.Duration

	// MaxDepth is how many directory levels below a root are watched.
	// 0 watches only the root itself. Default: 4
	MaxDepth int

	// EventBufferSize is the size of the batch channel buffer.
	// Default: 16
	EventBufferSize int

	// Skip filters entries. Nil skips dot entries only.
	Skip SkipFunc

	Logger *slog.Logger
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:  200 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		MaxDepth:        4,
		EventBufferSize: 16,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = defaults.MaxDelay
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = defaults.MaxDepth
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = defaults.EventBufferSize
	}
	if o.Skip == nil {
		o.Skip = SkipHidden
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// SkipHidden skips entries whose name starts with a dot.
func SkipHidden(name string, _ bool) bool {
	return strings.HasPrefix(name, ".")
}

// Watcher watches a set of roots with fsnotify.
type Watcher struct {
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	opts      Options
	logger    *slog.Logger

	events chan Batch
	errors chan error
	stopCh chan struct{}

	mu      sync.RWMutex
	roots   []string
	watched map[string]bool
	closed  bool

	droppedBatches atomic.Uint64
}

// New creates a watcher. Roots are added with Add.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, amerrors.New(amerrors.ErrCodeWatcherFailed, "failed to create filesystem watcher", err)
	}

	return &Watcher{
		fs:        fsw,
		debouncer: NewDebouncer(opts.DebounceWindow, opts.MaxDelay),
		opts:      opts,
		logger:    opts.Logger,
		events:    make(chan Batch, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
		watched:   make(map[string]bool),
	}, nil
}

// Add starts watching root and its subdirectories down to MaxDepth.
// A missing root is not an error; it is simply not watched.
func (w *Watcher) Add(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	for _, r := range w.roots {
		if r == absRoot {
			w.mu.Unlock()
			return nil
		}
	}
	w.roots = append(w.roots, absRoot)
	// Longest first so rootOf finds the most specific root.
	sort.Slice(w.roots, func(i, j int) bool { return len(w.roots[i]) > len(w.roots[j]) })
	w.mu.Unlock()

	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		w.logger.Debug("watch root not present", slog.String("root", absRoot))
		return nil
	}
	return w.addTree(absRoot, absRoot)
}

// addTree adds dir and the directories below it that are within MaxDepth of root.
func (w *Watcher) addTree(root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip what we cannot read
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.opts.Skip(d.Name(), true) {
			return filepath.SkipDir
		}
		depth := depthBelow(root, path)
		if depth > w.opts.MaxDepth {
			return filepath.SkipDir
		}
		if err := w.watch(path); err != nil {
			if path == root {
				return amerrors.New(amerrors.ErrCodeWatcherFailed, "failed to watch root", err).
					WithDetail("root", root)
			}
			w.logger.Debug("cannot watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return filepath.SkipDir
		}
		if depth == w.opts.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})
}

func (w *Watcher) watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.watched[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	return nil
}

// depthBelow returns how many path components path is below root.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// rootOf returns the most specific watched root containing path.
func (w *Watcher) rootOf(path string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.roots {
		if path == r || strings.HasPrefix(path, r+string(filepath.Separator)) {
			return r, true
		}
	}
	return "", false
}

// Run processes filesystem events until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	go w.forward(ctx)

	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.emitError(amerrors.New(amerrors.ErrCodeWatcherFailed, "filesystem watcher error", err))
		}
	}
}

// handle converts and filters one fsnotify event.
func (w *Watcher) handle(event fsnotify.Event) {
	root, ok := w.rootOf(event.Name)
	if !ok {
		return
	}

	// Any skipped component on the way down hides the event.
	rel, _ := filepath.Rel(root, event.Name)
	parts := strings.Split(rel, string(filepath.Separator))

	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}
	for i, part := range parts {
		if part == "." {
			continue
		}
		if w.opts.Skip(part, isDir || i < len(parts)-1) {
			return
		}
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
		if isDir && depthBelow(root, event.Name) <= w.opts.MaxDepth {
			if err := w.addTree(root, event.Name); err != nil {
				w.emitError(err)
			}
		}
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
		w.forget(event.Name)
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
		w.forget(event.Name)
	default:
		// Chmod and anything else do not change what is discoverable.
		return
	}

	w.debouncer.Add(FileEvent{
		Path:      event.Name,
		Root:      root,
		Operation: op,
		IsDir:     isDir,
		Timestamp: time.Now(),
	})
}

// forget drops bookkeeping for a removed directory; fsnotify removes the
// watch itself.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prefix := path + string(filepath.Separator)
	for dir := range w.watched {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(w.watched, dir)
		}
	}
}

// forward turns debounced event slices into batches.
func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case events, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			if len(events) == 0 {
				continue
			}
			w.emit(newBatch(events))
		}
	}
}

func newBatch(events []FileEvent) Batch {
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	seen := make(map[string]bool)
	var roots []string
	for _, e := range events {
		if !seen[e.Root] {
			seen[e.Root] = true
			roots = append(roots, e.Root)
		}
	}
	sort.Strings(roots)
	return Batch{Events: events, Roots: roots}
}

func (w *Watcher) emit(b Batch) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.events <- b:
	default:
		count := w.droppedBatches.Add(1)
		w.logger.Warn("event buffer full, dropping batch",
			slog.Int("batch_size", len(b.Events)),
			slog.Uint64("total_dropped_batches", count))
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Events returns the channel of batches. Closed by Close.
func (w *Watcher) Events() <-chan Batch {
	return w.events
}

// Errors returns non-fatal watcher errors. Closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Roots returns the watched roots.
func (w *Watcher) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := append([]string(nil), w.roots...)
	sort.Strings(out)
	return out
}

// WatchedDirs returns the number of directories currently watched.
func (w *Watcher) WatchedDirs() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.watched)
}

// DroppedBatches returns the number of batches dropped due to a full buffer.
func (w *Watcher) DroppedBatches() uint64 {
	return w.droppedBatches.Load()
}

// Close stops the watcher and releases resources. Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.stopCh)
	w.debouncer.Stop()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	return w.fs.Close()
}
