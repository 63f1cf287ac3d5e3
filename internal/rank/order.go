package rank

import (
	"sort"
	"unicode/utf8"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// candidate is a match plus the keys needed to order it.
type candidate struct {
	match   launcher.Match
	index   int // position in the snapshot
	nameLen int // display name length in runes
}

// less defines the total result order:
//  1. name matches before secondary-text matches
//  2. higher score
//  3. shorter display name
//  4. display name, lexicographically
//  5. entity id, then snapshot position
func less(a, b candidate) bool {
	if a.match.Field != b.match.Field {
		return a.match.Field < b.match.Field
	}
	if a.match.Score != b.match.Score {
		return a.match.Score > b.match.Score
	}
	if a.nameLen != b.nameLen {
		return a.nameLen < b.nameLen
	}
	an, bn := a.match.Entity.Name, b.match.Entity.Name
	if an != bn {
		return an < bn
	}
	if a.match.Entity.ID != b.match.Entity.ID {
		return a.match.Entity.ID < b.match.Entity.ID
	}
	return a.index < b.index
}

func sortCandidates(cs []candidate) {
	sort.Slice(cs, func(i, j int) bool { return less(cs[i], cs[j]) })
}

// mergeSorted k-way merges individually sorted lists, keeping the first limit.
func mergeSorted(lists [][]candidate, limit int) []candidate {
	heads := make([]int, len(lists))
	var out []candidate
	for len(out) < limit {
		best := -1
		for i, l := range lists {
			if heads[i] >= len(l) {
				continue
			}
			if best < 0 || less(l[heads[i]], lists[best][heads[best]]) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		out = append(out, lists[best][heads[best]])
		heads[best]++
	}
	return out
}

func toMatches(cs []candidate) []launcher.Match {
	out := make([]launcher.Match, len(cs))
	for i, c := range cs {
		out[i] = c.match
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
