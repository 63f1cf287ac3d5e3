// Package output provides consistent CLI output: status lines and ranked
// result listings in text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Format selects how result sets are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text or json)", s)
	}
}

// Writer provides formatted output for CLI.
type Writer struct {
	out       io.Writer
	useColor  bool
	highlight lipgloss.Style
	dim       lipgloss.Style
}

// New creates a Writer without color.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WithColor enables span highlighting in text output.
func (w *Writer) WithColor(enabled bool) *Writer {
	w.useColor = enabled
	if enabled {
		w.highlight = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d79921"))
		w.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
	return w
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// JSONResult is one match in JSON output.
type JSONResult struct {
	Rank      int             `json:"rank"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Secondary string          `json:"secondary,omitempty"`
	Command   string          `json:"command,omitempty"`
	Score     float64         `json:"score"`
	Field     string          `json:"field"`
	Spans     []launcher.Span `json:"spans,omitempty"`
}

// JSONResultSet is the JSON document printed for a query.
type JSONResultSet struct {
	Query    string        `json:"query"`
	Mode     launcher.Mode `json:"mode"`
	Sequence uint64        `json:"sequence"`
	Total    int           `json:"total"`
	Results  []JSONResult  `json:"results"`
}

// ToJSON converts a result set to its JSON document.
func ToJSON(rs launcher.ResultSet) JSONResultSet {
	doc := JSONResultSet{
		Query:    rs.Query,
		Mode:     rs.Mode,
		Sequence: rs.Sequence,
		Total:    rs.Total,
		Results:  make([]JSONResult, 0, rs.Len()),
	}
	for i, m := range rs.Matches {
		if m.Entity == nil {
			continue
		}
		doc.Results = append(doc.Results, JSONResult{
			Rank:      i + 1,
			ID:        m.Entity.ID,
			Name:      m.Entity.Name,
			Secondary: m.Entity.Secondary,
			Command:   m.Entity.Command,
			Score:     m.Score,
			Field:     m.Field.String(),
			Spans:     m.Spans,
		})
	}
	return doc
}

// Results prints a ranked result set in format.
func (w *Writer) Results(rs launcher.ResultSet, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ToJSON(rs)); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}

	if rs.Empty() {
		_, err := fmt.Fprintf(w.out, "No %s match %q\n", rs.Mode, rs.Query)
		return err
	}

	nameWidth := 0
	for _, m := range rs.Matches {
		if m.Entity != nil {
			nameWidth = max(nameWidth, len([]rune(m.Entity.Name)))
		}
	}

	for i, m := range rs.Matches {
		if m.Entity == nil {
			continue
		}
		name := m.Entity.Name
		pad := strings.Repeat(" ", nameWidth-len([]rune(name)))
		if w.useColor && m.Field == launcher.FieldName {
			name = w.highlightSpans(name, m.Spans)
		}
		line := fmt.Sprintf("%2d. %s%s", i+1, name, pad)
		if sec := m.Entity.Secondary; sec != "" {
			if w.useColor {
				sec = w.dim.Render(sec)
			}
			line += "  " + sec
		}
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return err
		}
	}
	if rs.Total > rs.Len() {
		_, err := fmt.Fprintf(w.out, "    ... %d more\n", rs.Total-rs.Len())
		return err
	}
	return nil
}

func (w *Writer) highlightSpans(text string, spans []launcher.Span) string {
	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		start, end := max(s.Start, pos), min(s.End, len(runes))
		if start >= end {
			continue
		}
		b.WriteString(string(runes[pos:start]))
		b.WriteString(w.highlight.Render(string(runes[start:end])))
		pos = end
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}
