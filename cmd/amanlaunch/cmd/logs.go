package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlaunch/internal/logging"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the launcher log",
		Long: `Show the last lines of the launcher log (~/.amanlaunch/logs/launcher.log).

Log records are JSON, one per line. --level keeps records at or above the
given level.`,
		Example: `  amanlaunch logs
  amanlaunch logs -n 200 --level warn`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if level != "" && !logging.ValidLevel(level) {
				return fmt.Errorf("invalid level %q (use debug, info, warn or error)", level)
			}
			path, err := logging.FindLogFile(logFile)
			if err != nil {
				return err
			}
			tail, err := tailLog(path, lines, level)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n", path)
			for _, l := range tail {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), l); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&logFile, "file", "", "Path to log file")

	return cmd
}

// tailLog returns the last n records of path at or above minLevel.
// Lines that are not JSON records are kept unless a level is given.
func tailLog(path string, n int, minLevel string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if n <= 0 {
		n = 50
	}
	threshold := logging.LevelFromString(minLevel)

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if minLevel != "" {
			var rec struct {
				Level string `json:"level"`
			}
			if json.Unmarshal([]byte(line), &rec) != nil || logging.LevelFromString(rec.Level) < threshold {
				continue
			}
		}
		if len(ring) == n {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return ring, nil
}
