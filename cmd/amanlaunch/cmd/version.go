package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlaunch/internal/config"
	"github.com/Aman-CERP/amanlaunch/internal/logging"
	"github.com/Aman-CERP/amanlaunch/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var (
		jsonOutput bool
		short      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, git commit, build date and Go version.
With --verbose the user config and log file locations are printed too.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch {
			case short:
				_, err := fmt.Fprintln(w, version.Short())
				return err
			case jsonOutput:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			}

			if _, err := fmt.Fprintln(w, version.String()); err != nil {
				return err
			}
			if verbose {
				_, _ = fmt.Fprintf(w, "config: %s\n", config.GetUserConfigPath())
				_, _ = fmt.Fprintf(w, "logs:   %s\n", logging.DefaultLogPath())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&short, "short", false, "Output only the version number")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print config and log locations")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}
