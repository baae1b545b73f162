package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/feather-rs/cargo-quill/internal/branding"
	"github.com/feather-rs/cargo-quill/internal/config"
	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/feather-rs/cargo-quill/internal/manifest"
	"github.com/feather-rs/cargo-quill/internal/scaffold"
	"github.com/feather-rs/cargo-quill/internal/toolchain"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flags of `new` that override a config key when given.
var newFlagKeys = map[string]string{
	"git":               config.KeyDependencyGit,
	"branch":            config.KeyDependencyBranch,
	"quill-version":     config.KeyDependencyVersion,
	"cargo":             config.KeyCargoBinary,
	"manifest-strategy": config.KeyManifestStrategy,
}

func newNewCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a new plugin project",
		Long: `Create a new ` + branding.DisplayName() + ` plugin project at <path>.

Runs cargo new --lib, turns the crate into a cdylib depending on ` + branding.FrameworkCrate() + `,
and replaces src/lib.rs with a plugin skeleton named after the project.
The target must not exist yet.`,
		Example: `  cargo ` + branding.Subcommand() + ` new my-plugin
  ` + branding.CLIName() + ` new ../plugins/chat-filter --branch develop
  ` + branding.CLIName() + ` new my-plugin --quill-version "^0.1"
  ` + branding.CLIName() + ` new my-plugin --offline`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], offline)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&offline, "offline", false, "Write the library skeleton directly instead of running cargo")
	f.String("git", "", "Git remote of the "+branding.FrameworkCrate()+" dependency")
	f.String("branch", "", "Branch of the "+branding.FrameworkCrate()+" dependency")
	f.String("quill-version", "", "Version requirement for "+branding.FrameworkCrate()+"; replaces the git reference")
	f.String("cargo", "", "Cargo executable to run")
	f.String("manifest-strategy", "", "Cargo.toml rewrite strategy: structured or positional")
	return cmd
}

func runNew(cmd *cobra.Command, target string, offline bool) error {
	if err := bindFlags(cmd.Flags(), newFlagKeys); err != nil {
		return qerrors.Wrap(qerrors.EConfig, "binding flags", err)
	}
	settings, err := config.Resolve()
	if err != nil {
		return qerrors.Wrap(qerrors.EConfig, "invalid settings", err)
	}

	logger := slog.Default()
	fs := afero.NewOsFs()

	kind := toolchain.CreatorCargo
	if offline {
		kind = toolchain.CreatorBuiltin
	}
	creator, err := toolchain.Dispatch(kind, toolchain.Options{
		CargoBinary: settings.CargoBinary,
		Fs:          fs,
		Logger:      logger,
	})
	if err != nil {
		return qerrors.Wrap(qerrors.EConfig, "selecting project creator", err)
	}
	if c, ok := creator.(*toolchain.Cargo); ok {
		c.Stderr = cmd.ErrOrStderr()
	}

	s := &scaffold.Scaffolder{
		Fs:       fs,
		Getwd:    os.Getwd,
		Creator:  creator,
		Strategy: settings.ManifestStrategy,
		Dependency: manifest.Dependency{
			Name:    settings.DependencyName,
			Git:     settings.DependencyGit,
			Branch:  settings.DependencyBranch,
			Version: settings.DependencyVersion,
		},
		Logger: logger,
	}

	result, err := s.New(cmd.Context(), target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plugin project \"%s\" created.\n", result.Name)
	fmt.Fprintf(out, "  Directory: %s\n", result.OutputDir)
	fmt.Fprintf(out, "  Type:      %s\n", result.TypeName)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}

// bindFlags lets changed flags take precedence over env and config file
// values for the mapped keys.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s to %s: %w", name, key, err)
		}
	}
	return nil
}
