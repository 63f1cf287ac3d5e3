package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// IndexEvent reports the outcome of discovering one mode.
type IndexEvent struct {
	Mode     launcher.Mode
	Entities int
	Duration time.Duration
	Err      error
}

// IndexSummary is printed once every mode has been discovered.
type IndexSummary struct {
	Entities int
	Errors   int
	Duration time.Duration
}

// PlainReporter prints discovery progress as plain text lines
// (for the index command, CI and pipes).
type PlainReporter struct {
	mu     sync.Mutex
	out    io.Writer
	events []IndexEvent
}

// NewPlainReporter creates a reporter writing to out.
func NewPlainReporter(out io.Writer) *PlainReporter {
	return &PlainReporter{out: out}
}

// ModeIndexed prints one line per mode.
// Format: [FILES] 1234 entities in 85ms
func (r *PlainReporter) ModeIndexed(e IndexEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	tag := strings.ToUpper(e.Mode.String())
	if e.Err != nil {
		_, _ = fmt.Fprintf(r.out, "[%s] ERROR: %v\n", tag, e.Err)
		return
	}
	_, _ = fmt.Fprintf(r.out, "[%s] %d entities in %s\n", tag, e.Entities, e.Duration.Round(time.Millisecond))
}

// Summary totals the events reported so far.
func (r *PlainReporter) Summary(total time.Duration) IndexSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := IndexSummary{Duration: total}
	for _, e := range r.events {
		if e.Err != nil {
			s.Errors++
			continue
		}
		s.Entities += e.Entities
	}
	return s
}

// Complete prints the summary line.
func (r *PlainReporter) Complete(s IndexSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "Complete: %d entities indexed in %s", s.Entities, s.Duration.Round(time.Millisecond))
	if s.Errors > 0 {
		_, _ = fmt.Fprintf(r.out, " (%d errors)", s.Errors)
	}
	_, _ = fmt.Fprintln(r.out)
}
