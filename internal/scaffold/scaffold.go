package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/feather-rs/cargo-quill/internal/manifest"
	"github.com/feather-rs/cargo-quill/internal/project"
	"github.com/feather-rs/cargo-quill/internal/toolchain"
	"github.com/spf13/afero"
)

// Scaffolder runs the new-project pipeline. Every stage must succeed before
// the next one starts; nothing is rolled back on failure.
type Scaffolder struct {
	Fs         afero.Fs
	Getwd      func() (string, error)
	Creator    toolchain.Creator
	Strategy   string
	Dependency manifest.Dependency
	Logger     *slog.Logger
}

// Result holds the outcome of a scaffold run.
type Result struct {
	Name      string
	OutputDir string
	TypeName  string
	Files     []string
}

// New creates a plugin project at target.
func (s *Scaffolder) New(ctx context.Context, target string) (*Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	getwd := s.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}

	cfg, err := project.Resolve(s.Fs, getwd, target)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved target", "name", cfg.Name, "path", cfg.Path)

	// Name and dependency problems are caught before anything touches disk.
	data, err := NewPluginData(cfg.Name, s.Dependency.Name)
	if err != nil {
		return nil, err
	}
	if err := s.Dependency.Validate(); err != nil {
		return nil, qerrors.Wrap(qerrors.EConfig, "invalid framework dependency", err)
	}
	strategy := s.Strategy
	if strategy == "" {
		strategy = manifest.StrategyStructured
	}
	if err := manifest.ValidateStrategy(strategy); err != nil {
		return nil, qerrors.Wrap(qerrors.EConfig, "invalid manifest strategy", err)
	}

	if err := ensureDir(s.Fs, cfg.ParentDir()); err != nil {
		return nil, err
	}
	if err := s.Creator.CreateLibrary(ctx, cfg.ParentDir(), cfg.Name); err != nil {
		return nil, err
	}
	logger.Info("created library skeleton", "path", cfg.Path)

	rw := &manifest.Rewriter{Fs: s.Fs, Strategy: strategy, Dependency: s.Dependency}
	if err := rw.Rewrite(cfg.ManifestPath()); err != nil {
		return nil, err
	}
	logger.Info("rewrote manifest", "path", cfg.ManifestPath(), "strategy", strategy)

	if err := writeLib(s.Fs, cfg.LibPath(), data); err != nil {
		return nil, err
	}
	logger.Info("wrote plugin skeleton", "path", cfg.LibPath(), "type", data.TypeName)

	return &Result{
		Name:      cfg.Name,
		OutputDir: cfg.Path,
		TypeName:  data.TypeName,
		Files:     []string{"Cargo.toml", "src/lib.rs"},
	}, nil
}

// ensureDir creates the directory the project is created in when it is
// missing, so `new a/b/c` works from an empty tree.
func ensureDir(fs afero.Fs, dir string) error {
	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return qerrors.Wrap(qerrors.EIOFailure, fmt.Sprintf("checking %s", dir), err)
	}
	if ok {
		return nil
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return qerrors.Wrap(qerrors.EIOFailure, fmt.Sprintf("creating parent directory %s", dir), err)
	}
	return nil
}

// writeLib replaces the generated entry point with the plugin skeleton.
func writeLib(fs afero.Fs, path string, data *PluginData) error {
	text, err := RenderLib(data)
	if err != nil {
		return qerrors.Wrap(qerrors.EIOFailure, "rendering src/lib.rs", err)
	}
	if err := afero.WriteFile(fs, path, []byte(text), 0644); err != nil {
		return qerrors.Wrap(qerrors.EIOFailure, fmt.Sprintf("writing %s", path), err)
	}
	return nil
}
