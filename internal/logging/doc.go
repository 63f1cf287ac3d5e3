// Package logging configures structured slog output for amanlaunch.
//
// Logs are JSON lines written to a size-rotated file under ~/.amanlaunch/logs/.
// Command-line subcommands may additionally tee to stderr; the interactive TUI
// never does, since stderr shares the terminal with the alternate screen.
package logging
