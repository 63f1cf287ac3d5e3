package scorer

import (
	"fmt"
	"math"
	"unicode"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
)

// Weights tunes the weighted scorer. Only relative magnitudes matter.
type Weights struct {
	// Match is added for every matched rune.
	Match float64
	// Consecutive is added when a matched rune directly follows the previous one.
	Consecutive float64
	// StartOfString is added when a rune matches at index 0.
	StartOfString float64
	// WordBoundary is added when a rune matches right after a separator
	// (space, '/', '-', '_', '.') or at a lower-to-upper case transition.
	WordBoundary float64
	// LengthPenalty is subtracted once per rune of the candidate.
	LengthPenalty float64
	// Baseline is the score every candidate gets for an empty query.
	Baseline float64
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		Match:         16,
		Consecutive:   24,
		StartOfString: 32,
		WordBoundary:  24,
		LengthPenalty: 1,
		Baseline:      0,
	}
}

// Validate rejects negative or non-finite bonuses.
func (w Weights) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"match", w.Match},
		{"consecutive", w.Consecutive},
		{"start_of_string", w.StartOfString},
		{"word_boundary", w.WordBoundary},
		{"length_penalty", w.LengthPenalty},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return amerrors.New(amerrors.ErrCodeInvalidScorer,
				fmt.Sprintf("weight %s must be a non-negative number, got %v", f.name, f.value), nil)
		}
	}
	if math.IsNaN(w.Baseline) || math.IsInf(w.Baseline, 0) {
		return amerrors.New(amerrors.ErrCodeInvalidScorer, "baseline weight must be finite", nil)
	}
	return nil
}

// Weighted scores a subsequence alignment chosen to maximise the total of
// per-rune bonuses, then subtracts a per-rune length penalty.
type Weighted struct {
	weights Weights
}

var _ Scorer = (*Weighted)(nil)

// NewWeighted creates a weighted scorer.
func NewWeighted(w Weights) *Weighted {
	return &Weighted{weights: w}
}

// Name implements Scorer.
func (s *Weighted) Name() string { return AlgorithmWeighted }

// Weights returns the scorer's weights.
func (s *Weighted) Weights() Weights { return s.weights }

// Score implements Scorer.
func (s *Weighted) Score(query, candidate string) (Result, bool) {
	if isBlank(query) {
		return Result{Score: s.weights.Baseline}, true
	}

	q := fold([]rune(query))
	orig := []rune(candidate)
	c := fold(orig)
	m, n := len(q), len(c)
	if m > n {
		return Result{}, false
	}

	// Any alignment lies between the earliest position of q[0] and the
	// latest position of q[m-1]; both bounds come from greedy scans.
	first, qi := -1, 0
	for j := 0; j < n && qi < m; j++ {
		if c[j] == q[qi] {
			if qi == 0 {
				first = j
			}
			qi++
		}
	}
	if qi < m {
		return Result{}, false
	}
	last := -1
	qi = m - 1
	for j := n - 1; j >= first && qi >= 0; j-- {
		if c[j] == q[qi] {
			if qi == m-1 {
				last = j
			}
			qi--
		}
	}

	width := last - first + 1
	bonus := make([]float64, width)
	for jj := range bonus {
		bonus[jj] = s.positionBonus(orig, first+jj)
	}

	negInf := math.Inf(-1)
	prev := make([]float64, width)
	for jj := range prev {
		if c[first+jj] == q[0] {
			prev[jj] = s.weights.Match + bonus[jj]
		} else {
			prev[jj] = negInf
		}
	}

	// back[i][jj] is the window index of q[i-1] on the best path ending
	// with q[i] at jj.
	back := make([][]int, m)
	for i := 1; i < m; i++ {
		cur := make([]float64, width)
		back[i] = make([]int, width)
		bestPrev, bestIdx := negInf, -1
		for jj := 0; jj < width; jj++ {
			cur[jj] = negInf
			back[i][jj] = -1
			if jj > 0 && c[first+jj] == q[i] {
				score, idx := bestPrev, bestIdx
				if prev[jj-1] != negInf {
					if adj := prev[jj-1] + s.weights.Consecutive; adj >= score {
						score, idx = adj, jj-1
					}
				}
				if idx >= 0 {
					cur[jj] = score + s.weights.Match + bonus[jj]
					back[i][jj] = idx
				}
			}
			if prev[jj] > bestPrev {
				bestPrev, bestIdx = prev[jj], jj
			}
		}
		prev = cur
	}

	best, end := negInf, -1
	for jj, v := range prev {
		if v > best {
			best, end = v, jj
		}
	}
	if end < 0 {
		return Result{}, false
	}

	positions := make([]int, m)
	jj := end
	for i := m - 1; i >= 0; i-- {
		positions[i] = first + jj
		if i > 0 {
			jj = back[i][jj]
		}
	}

	return Result{
		Score: best - s.weights.LengthPenalty*float64(n),
		Spans: mergeSpans(positions),
	}, true
}

// positionBonus scores where a match at index j sits in the original text.
func (s *Weighted) positionBonus(orig []rune, j int) float64 {
	if j == 0 {
		return s.weights.StartOfString
	}
	prev, cur := orig[j-1], orig[j]
	if isSeparator(prev) {
		return s.weights.WordBoundary
	}
	if unicode.IsLower(prev) && unicode.IsUpper(cur) {
		return s.weights.WordBoundary
	}
	return 0
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '/', '-', '_', '.':
		return true
	}
	return unicode.IsSpace(r)
}

func fold(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}
