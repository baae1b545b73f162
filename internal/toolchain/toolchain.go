package toolchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
)

// Creator materializes a library-style project skeleton named name inside
// dir. Implementations must leave <dir>/<name>/Cargo.toml and
// <dir>/<name>/src/lib.rs behind on success.
type Creator interface {
	CreateLibrary(ctx context.Context, dir, name string) error
}

// Supported creator identifiers.
const (
	CreatorCargo   = "cargo"
	CreatorBuiltin = "builtin"
)

// Options configures the Creator returned by Dispatch.
type Options struct {
	CargoBinary string
	Fs          afero.Fs
	Logger      *slog.Logger
}

// Dispatch returns the Creator for the given identifier.
func Dispatch(kind string, opts Options) (Creator, error) {
	switch kind {
	case CreatorCargo:
		return NewCargo(opts.CargoBinary, opts.Logger), nil
	case CreatorBuiltin:
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewSkeleton(fs), nil
	default:
		return nil, fmt.Errorf("unknown creator %q: supported creators are %q and %q", kind, CreatorCargo, CreatorBuiltin)
	}
}
