package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/session"
)

// modeInfo is one row of `amanlaunch modes`.
type modeInfo struct {
	Mode    launcher.Mode `json:"mode"`
	Title   string        `json:"title"`
	Enabled bool          `json:"enabled"`
	Default bool          `json:"default"`
}

func newModesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List search modes in tab order",
		Long: `List the search modes in the order tab cycles through them, marking
the default mode and any mode disabled in the configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mc, err := session.NewModeController(cfg.Modes.DefaultMode(), cfg.Modes.DisabledModes()...)
			if err != nil {
				return err
			}

			var rows []modeInfo
			for _, m := range launcher.AllModes() {
				rows = append(rows, modeInfo{
					Mode:    m,
					Title:   m.Title(),
					Enabled: mc.Enabled(m),
					Default: m == mc.Current(),
				})
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			for _, r := range rows {
				var tags []string
				if r.Default {
					tags = append(tags, "default")
				}
				if !r.Enabled {
					tags = append(tags, "disabled")
				}
				line := r.Mode.String()
				if len(tags) > 0 {
					line = fmt.Sprintf("%-6s (%s)", line, strings.Join(tags, ", "))
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
