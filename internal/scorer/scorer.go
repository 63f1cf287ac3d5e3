// Package scorer implements fuzzy scoring of a query against candidate text.
//
// A Scorer is a pure function: the same (query, candidate) pair always yields
// the same result, and implementations hold no mutable state, so one value
// may be shared by every ranking goroutine.
package scorer

import (
	"fmt"
	"strings"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Scorer scores one candidate string against a query.
type Scorer interface {
	// Score returns ok=false when the query is not a case-insensitive
	// subsequence of candidate. An empty query always matches with the
	// baseline score and no spans.
	Score(query, candidate string) (Result, bool)

	// Name identifies the algorithm in logs and config.
	Name() string
}

// Result is the outcome of a successful match.
type Result struct {
	Score float64
	// Spans are merged, ordered rune ranges of the matched characters.
	Spans []launcher.Span
}

// Algorithm names accepted by New.
const (
	AlgorithmWeighted = "weighted"
	AlgorithmSahilm   = "sahilm"
)

// Algorithms lists the names accepted by New.
func Algorithms() []string {
	return []string{AlgorithmWeighted, AlgorithmSahilm}
}

// New returns the scorer registered under name. An empty name selects the
// weighted scorer.
func New(name string, weights Weights) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AlgorithmWeighted:
		if err := weights.Validate(); err != nil {
			return nil, err
		}
		return NewWeighted(weights), nil
	case AlgorithmSahilm:
		return NewSahilm(weights.Baseline), nil
	default:
		return nil, amerrors.New(amerrors.ErrCodeInvalidScorer,
			fmt.Sprintf("unknown scorer %q", name), nil).
			WithSuggestion("use one of: " + strings.Join(Algorithms(), ", "))
	}
}

// isBlank reports whether the query should be treated as empty.
func isBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// mergeSpans folds sorted rune positions into contiguous spans.
func mergeSpans(positions []int) []launcher.Span {
	if len(positions) == 0 {
		return nil
	}
	spans := make([]launcher.Span, 0, len(positions))
	cur := launcher.Span{Start: positions[0], End: positions[0] + 1}
	for _, p := range positions[1:] {
		if p == cur.End {
			cur.End++
			continue
		}
		spans = append(spans, cur)
		cur = launcher.Span{Start: p, End: p + 1}
	}
	return append(spans, cur)
}
