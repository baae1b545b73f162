package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
)

// Cargo creates projects by running `cargo new --lib <name>`.
type Cargo struct {
	// Binary is the cargo executable; defaults to "cargo" on PATH.
	Binary string
	// Stderr receives cargo's progress output; defaults to os.Stderr.
	Stderr io.Writer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewCargo returns a Cargo creator for the given binary.
func NewCargo(binary string, logger *slog.Logger) *Cargo {
	return &Cargo{Binary: binary, Logger: logger}
}

// CreateLibrary runs cargo in dir and waits for it to exit. Stdout is
// captured and only logged. A spawn failure or non-zero exit status is
// reported as E_EXTERNAL_TOOL_FAILURE; whatever cargo left on disk stays.
func (c *Cargo) CreateLibrary(ctx context.Context, dir, name string) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bin := c.Binary
	if bin == "" {
		bin = "cargo"
	}
	binPath, err := exec.LookPath(bin)
	if err != nil {
		return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed",
			qerrors.Wrap(qerrors.EToolchainNotInstalled, fmt.Sprintf("%s not found", bin), err))
	}

	args := []string{"new", "--lib", name}
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Dir = dir

	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	logger.Debug("running external tool", "bin", binPath, "args", args, "dir", dir)
	err = cmd.Run()
	logger.Debug("external tool finished", "stdout", stdoutBuf.String())

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderrBuf.String())
			return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed",
				fmt.Errorf("%s %s exited with status %d: %s", bin, strings.Join(args, " "), exitErr.ExitCode(), detail))
		}
		return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed",
			fmt.Errorf("running %s: %w", bin, err))
	}
	return nil
}
