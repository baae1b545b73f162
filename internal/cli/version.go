package cli

import (
	"encoding/json"
	"fmt"

	"github.com/feather-rs/cargo-quill/internal/branding"
	"github.com/spf13/cobra"
)

func newVersionCmd(info buildInfo) *cobra.Command {
	var (
		versionShort bool
		versionJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if versionShort {
				fmt.Fprintln(out, info.version)
				return nil
			}

			if versionJSON {
				data, err := json.MarshalIndent(map[string]string{
					"version": info.version,
					"commit":  info.commit,
					"date":    info.date,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling version info: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.version, info.commit, info.date)
			return nil
		},
	}
	cmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	cmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	return cmd
}
