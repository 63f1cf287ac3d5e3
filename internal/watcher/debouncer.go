package watcher

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces bursts of events per path and emits them as one slice
// once the path set has been quiet for the window. Continuous activity is
// flushed anyway after maxDelay.
//
// Events for the same path merge as follows:
//   - CREATE then MODIFY stays CREATE
//   - CREATE then DELETE or RENAME cancels out
//   - DELETE then CREATE becomes MODIFY
//   - anything else keeps the latest operation
type Debouncer struct {
	window   time.Duration
	maxDelay time.Duration

	mu      sync.Mutex
	pending map[string]FileEvent
	first   map[string]Operation
	since   time.Time // when the oldest pending event arrived
	timer   *time.Timer
	output  chan []FileEvent
	stopped bool
}

// NewDebouncer creates a debouncer. A maxDelay below window disables the cap.
func NewDebouncer(window, maxDelay time.Duration) *Debouncer {
	return &Debouncer{
		window:   window,
		maxDelay: maxDelay,
		pending:  make(map[string]FileEvent),
		first:    make(map[string]Operation),
		output:   make(chan []FileEvent, 10),
	}
}

// merge combines the first operation seen for a path with the next one.
// ok is false when the two cancel out.
func merge(first, next Operation) (op Operation, ok bool) {
	switch {
	case first == OpCreate && next == OpModify:
		return OpCreate, true
	case first == OpCreate && (next == OpDelete || next == OpRename):
		return 0, false
	case first == OpDelete && next == OpCreate:
		return OpModify, true
	default:
		return next, true
	}
}

// Add queues event, merging it with a pending event for the same path.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	now := time.Now()
	if len(d.pending) == 0 {
		d.since = now
	}

	if first, ok := d.first[event.Path]; ok {
		op, keep := merge(first, event.Operation)
		if !keep {
			delete(d.pending, event.Path)
			delete(d.first, event.Path)
		} else {
			event.Operation = op
			d.pending[event.Path] = event
		}
	} else {
		d.pending[event.Path] = event
		d.first[event.Path] = event.Operation
	}

	d.scheduleLocked(now)
}

// scheduleLocked (re)arms the flush timer, never beyond since+maxDelay.
func (d *Debouncer) scheduleLocked(now time.Time) {
	wait := d.window
	if d.maxDelay >= d.window {
		if deadline := d.since.Add(d.maxDelay); now.Add(wait).After(deadline) {
			wait = max(0, deadline.Sub(now))
		}
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(wait, d.flush)
}

// Pending returns the number of queued paths.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	events := make([]FileEvent, 0, len(d.pending))
	for _, e := range d.pending {
		events = append(events, e)
	}
	d.pending = make(map[string]FileEvent)
	d.first = make(map[string]Operation)

	select {
	case d.output <- events:
	default:
		slog.Warn("debouncer output full, dropping batch",
			slog.Int("batch_size", len(events)))
	}
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan []FileEvent {
	return d.output
}

// Stop discards pending events and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
