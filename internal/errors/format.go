package errors

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// FormatForUser renders err for the terminal. Launcher errors get their
// suggestion and code; with debug set, details and the cause are added.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}

	le, ok := asLauncherError(err)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", le.Message)

	if le.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", le.Suggestion)
	}

	if debug {
		keys := make([]string, 0, len(le.Details))
		for k := range le.Details {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", k, le.Details[k])
		}
		if le.Cause != nil {
			fmt.Fprintf(&sb, "  cause: %v\n", le.Cause)
		}
	}

	fmt.Fprintf(&sb, "\n[%s]", le.Code)
	return sb.String()
}

// LogAttrs flattens err into slog attributes. Plain errors become a single
// "error" attribute.
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	le, ok := asLauncherError(err)
	if !ok {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("error_code", le.Code),
		slog.String("error", le.Message),
		slog.String("category", string(le.Category)),
	}
	if le.Cause != nil {
		attrs = append(attrs, slog.String("cause", le.Cause.Error()))
	}
	if len(le.Details) > 0 {
		details := make([]any, 0, len(le.Details))
		for k, v := range le.Details {
			details = append(details, slog.String(k, v))
		}
		attrs = append(attrs, slog.Group("details", details...))
	}
	return attrs
}
