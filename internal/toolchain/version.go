package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
)

// MinimumCargoVersion is the oldest cargo that understands edition 2021,
// which the generated manifest declares.
const MinimumCargoVersion = "1.56.0"

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
// Handles "v" prefix tolerance (strips leading "v" before parsing).
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// MeetsMinimum reports whether version is at least MinimumCargoVersion.
func MeetsMinimum(version string) (bool, error) {
	cmp, err := CompareVersions(version, MinimumCargoVersion)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// ParseCargoVersion extracts the version from `cargo --version` output,
// e.g. "cargo 1.75.0 (1d8b05cdd 2023-11-20)" → "1.75.0".
func ParseCargoVersion(output string) (string, error) {
	fields := strings.Fields(output)
	if len(fields) < 2 || fields[0] != "cargo" {
		return "", fmt.Errorf("unrecognized cargo version output %q", strings.TrimSpace(output))
	}
	v, err := parseSemver(fields[1])
	if err != nil {
		return "", fmt.Errorf("parsing cargo version %q: %w", fields[1], err)
	}
	return v.String(), nil
}

// DetectCargo runs `<binary> --version` and returns the resolved binary path and
// its version.
func DetectCargo(ctx context.Context, binary string) (path, version string, err error) {
	if binary == "" {
		binary = "cargo"
	}
	path, err = exec.LookPath(binary)
	if err != nil {
		return "", "", qerrors.Wrap(qerrors.EToolchainNotInstalled, fmt.Sprintf("%s not found", binary), err)
	}
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return path, "", fmt.Errorf("running %s --version: %w", binary, err)
	}
	version, err = ParseCargoVersion(string(out))
	if err != nil {
		return path, "", err
	}
	return path, version, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
