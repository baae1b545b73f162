package cli

import (
	"fmt"

	"github.com/feather-rs/cargo-quill/internal/branding"
	"github.com/feather-rs/cargo-quill/internal/config"
	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings",
		Long: `Read and write ` + branding.DisplayName() + ` settings stored at ~/` + branding.HomeDir() + `/config.yaml.

Every key can also be set through the environment, e.g. ` + branding.EnvVar("DEPENDENCY_BRANCH") + `.`,
	}
	cmd.AddCommand(newConfigSetCmd(), newConfigGetCmd(), newConfigListCmd())
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.Set(key, value); err != nil {
				return qerrors.Wrap(qerrors.EConfig, fmt.Sprintf("setting config key %q", key), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.IsKnownKey(args[0]) {
				return qerrors.Newf(qerrors.EConfig, "unknown config key %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every setting with its effective value",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(config.All())
			if err != nil {
				return fmt.Errorf("marshaling settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
