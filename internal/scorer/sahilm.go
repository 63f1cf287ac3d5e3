package scorer

import "github.com/sahilm/fuzzy"

// Sahilm adapts github.com/sahilm/fuzzy to the Scorer contract.
type Sahilm struct {
	baseline float64
}

var _ Scorer = (*Sahilm)(nil)

// NewSahilm creates the adapter. baseline is the empty-query score.
func NewSahilm(baseline float64) *Sahilm {
	return &Sahilm{baseline: baseline}
}

// Name implements Scorer.
func (s *Sahilm) Name() string { return AlgorithmSahilm }

// Score implements Scorer.
func (s *Sahilm) Score(query, candidate string) (Result, bool) {
	if isBlank(query) {
		return Result{Score: s.baseline}, true
	}

	matches := fuzzy.Find(query, []string{candidate})
	if len(matches) == 0 {
		return Result{}, false
	}

	best := matches[0]
	return Result{
		Score: float64(best.Score),
		Spans: mergeSpans(runePositions(candidate, best.MatchedIndexes)),
	}, true
}

// runePositions converts byte offsets reported by the matcher into rune
// indexes. Offsets that are not rune starts are kept as they are.
func runePositions(s string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	byteToRune := make(map[int]int, len(s))
	ri := 0
	for bi := range s {
		byteToRune[bi] = ri
		ri++
	}
	out := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if r, ok := byteToRune[off]; ok {
			out = append(out, r)
		} else {
			out = append(out, off)
		}
	}
	return out
}
