package cli

import (
	"fmt"
	"io"

	"github.com/feather-rs/cargo-quill/internal/branding"
	"github.com/feather-rs/cargo-quill/internal/config"
	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/feather-rs/cargo-quill/internal/manifest"
	"github.com/feather-rs/cargo-quill/internal/toolchain"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var checkManifest string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the toolchain and settings used by new",
		Long: `Run diagnostic checks on the cargo toolchain and the ` + branding.DisplayName() + ` settings.

With --check-manifest, validate an existing plugin Cargo.toml instead.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if checkManifest != "" {
				return runManifestCheck(out, afero.NewOsFs(), checkManifest)
			}
			settings := runSettingsCheck(out)
			binary := "cargo"
			if settings != nil {
				binary = settings.CargoBinary
			}
			runToolchainCheck(cmd, out, binary)
			return nil
		},
	}
	cmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a plugin Cargo.toml at the given path")
	return cmd
}

func runSettingsCheck(out io.Writer) *config.Settings {
	fmt.Fprintln(out, "Settings check:")
	settings, err := config.Resolve()
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return nil
	}
	dep := manifest.Dependency{
		Name:    settings.DependencyName,
		Git:     settings.DependencyGit,
		Branch:  settings.DependencyBranch,
		Version: settings.DependencyVersion,
	}
	if err := dep.Validate(); err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return settings
	}
	if dep.Version != "" {
		fmt.Fprintf(out, "  [ OK ] %s = %q\n", dep.Name, dep.Version)
	} else {
		fmt.Fprintf(out, "  [ OK ] %s from %s (branch %s)\n", dep.Name, dep.Git, dep.Branch)
	}
	fmt.Fprintf(out, "  [ OK ] manifest strategy: %s\n", settings.ManifestStrategy)
	return settings
}

func runToolchainCheck(cmd *cobra.Command, out io.Writer, binary string) {
	fmt.Fprintln(out, "Toolchain check:")
	path, version, err := toolchain.DetectCargo(cmd.Context(), binary)
	if qerrors.HasCode(err, qerrors.EToolchainNotInstalled) {
		fmt.Fprintf(out, "  [MISS] %s not found\n", binary)
		return
	}
	if err != nil {
		fmt.Fprintf(out, "  [WARN] %s found at %s but its version is unknown: %v\n", binary, path, err)
		return
	}
	ok, err := toolchain.MeetsMinimum(version)
	if err != nil {
		fmt.Fprintf(out, "  [WARN] %s %s: %v\n", binary, version, err)
		return
	}
	if !ok {
		fmt.Fprintf(out, "  [FAIL] %s %s at %s is older than %s\n", binary, version, path, toolchain.MinimumCargoVersion)
		return
	}
	fmt.Fprintf(out, "  [ OK ] %s %s found at %s\n", binary, version, path)
}

func runManifestCheck(out io.Writer, fs afero.Fs, path string) error {
	fmt.Fprintf(out, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(fs, path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return qerrors.Wrap(qerrors.EManifestFormat, "manifest validation failed", err)
	}

	if result.Valid {
		m, err := manifest.Parse(fs, path)
		if err != nil || m.Package.Name == "" {
			fmt.Fprintf(out, "  [ OK ] Valid plugin manifest\n")
			return nil
		}
		if v := m.Package.VersionString(); v != "" {
			fmt.Fprintf(out, "  [ OK ] Valid plugin manifest: %s (v%s)\n", m.Package.Name, v)
			return nil
		}
		fmt.Fprintf(out, "  [ OK ] Valid plugin manifest: %s\n", m.Package.Name)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "    - %s\n", issue.Message)
		}
	}
	return qerrors.Newf(qerrors.EManifestFormat, "manifest %s has %d validation issue(s)", path, len(result.Issues))
}
