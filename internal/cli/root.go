package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/feather-rs/cargo-quill/internal/branding"
	"github.com/feather-rs/cargo-quill/internal/config"
	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/feather-rs/cargo-quill/internal/logging"
	"github.com/spf13/cobra"
)

// buildInfo is injected via ldflags at release time.
type buildInfo struct {
	version string
	commit  string
	date    string
}

// NewRootCmd assembles the command tree.
func NewRootCmd(version, commit, date string) *cobra.Command {
	info := buildInfo{version: version, commit: commit, date: date}

	cmd := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` plugin tooling. Creates Rust library projects that compile to a
dynamic library and depend on the ` + branding.FrameworkCrate() + ` plugin framework.

Installed on PATH it also runs as a cargo subcommand: cargo ` + branding.Subcommand() + ` new <path>.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cmd)
			if err != nil {
				return qerrors.Wrap(qerrors.EUsage, "invalid logging flags", err)
			}
			slog.SetDefault(logger)
			config.Load()
			return nil
		},
	}

	logging.RegisterFlags(cmd.PersistentFlags())
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return qerrors.Wrap(qerrors.EUsage, c.CommandPath(), err)
	})

	cmd.AddCommand(
		newNewCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newVersionCmd(info),
	)
	return cmd
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd(version, commit, date)
	root.SetArgs(normalizeArgs(os.Args[1:]))
	return run(ctx, root)
}

func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil && qerrors.GetCode(err) == "" && strings.HasPrefix(err.Error(), "unknown command") {
		return qerrors.Wrap(qerrors.EUsage, root.Name(), err)
	}
	return err
}

// normalizeArgs drops the subcommand name cargo passes as the first
// argument when the binary runs as `cargo quill ...`.
func normalizeArgs(args []string) []string {
	if len(args) > 0 && args[0] == branding.Subcommand() {
		return args[1:]
	}
	return args
}

// exactArgs is cobra.ExactArgs reporting E_USAGE.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return qerrors.Wrap(qerrors.EUsage, cmd.CommandPath(), err)
		}
		return nil
	}
}

// noArgs is cobra.NoArgs reporting E_USAGE.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return qerrors.Wrap(qerrors.EUsage, cmd.CommandPath(), err)
	}
	return nil
}
