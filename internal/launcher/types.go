package launcher

import (
	"time"
)

// Entity is one launchable item.
type Entity struct {
	// ID is unique within a mode and stable across refreshes (canonical path
	// for apps and files, a command key for Run).
	ID string `json:"id"`

	// Name is the display name scored against the query.
	Name string `json:"name"`

	// Secondary is the path or description shown under the name.
	Secondary string `json:"secondary,omitempty"`

	// Mode tags which catalog the entity belongs to.
	Mode Mode `json:"mode"`

	// Icon is an opaque handle for the presentation layer.
	Icon string `json:"icon,omitempty"`

	// Command is the shell command for Run entities and built-in actions.
	Command string `json:"command,omitempty"`

	// LastSeen is when discovery last reported the entity.
	LastSeen time.Time `json:"last_seen"`
}

// Query is a sequenced search request.
type Query struct {
	Text     string `json:"text"`
	Mode     Mode   `json:"mode"`
	Sequence uint64 `json:"sequence"`
}

// Span is a half-open range of rune indexes [Start, End) into scored text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Field names the entity text a match's spans refer to.
type Field int

const (
	// FieldName means spans index into Entity.Name.
	FieldName Field = iota
	// FieldSecondary means spans index into Entity.Secondary.
	FieldSecondary
)

// String returns "name" or "secondary".
func (f Field) String() string {
	if f == FieldSecondary {
		return "secondary"
	}
	return "name"
}

// Match is one entity scored against one query.
// Entity points into the snapshot the match was ranked against.
type Match struct {
	Entity *Entity `json:"entity"`
	Score  float64 `json:"score"`
	Field  Field   `json:"field"`
	Spans  []Span  `json:"spans,omitempty"`
}

// ResultSet is the ranked, truncated answer to one query.
type ResultSet struct {
	// Sequence is the sequence number of the query this set answers.
	Sequence uint64 `json:"sequence"`
	Mode     Mode   `json:"mode"`
	Query    string `json:"query"`

	Matches []Match `json:"matches"`

	// Total counts matches before truncation.
	Total int `json:"total"`

	// Generation is the catalog snapshot generation the set was ranked against.
	Generation uint64 `json:"generation"`
}

// Len returns the number of matches in the set.
func (r ResultSet) Len() int {
	return len(r.Matches)
}

// Empty reports whether the set holds no matches.
func (r ResultSet) Empty() bool {
	return len(r.Matches) == 0
}

// Entities returns the matched entities in rank order.
func (r ResultSet) Entities() []Entity {
	out := make([]Entity, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Entity != nil {
			out = append(out, *m.Entity)
		}
	}
	return out
}

// Names returns the display names in rank order.
func (r ResultSet) Names() []string {
	out := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Entity != nil {
			out = append(out, m.Entity.Name)
		}
	}
	return out
}
