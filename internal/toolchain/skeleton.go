package toolchain

import (
	"context"
	"fmt"
	"path/filepath"

	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/spf13/afero"
)

const defaultEdition = "2021"

// defaultLibRS mirrors what `cargo new --lib` writes into src/lib.rs.
const defaultLibRS = `pub fn add(left: u64, right: u64) -> u64 {
    left + right
}

#[cfg(test)]
mod tests {
    use super::*;

    #[test]
    fn it_works() {
        let result = add(2, 2);
        assert_eq!(result, 4);
    }
}
`

// Skeleton creates the same layout as `cargo new --lib` in-process, without
// a Rust toolchain on the machine.
type Skeleton struct {
	Fs      afero.Fs
	Edition string
}

// NewSkeleton returns a Skeleton creator writing to fs.
func NewSkeleton(fs afero.Fs) *Skeleton {
	return &Skeleton{Fs: fs, Edition: defaultEdition}
}

// CreateLibrary writes <dir>/<name>/Cargo.toml and <dir>/<name>/src/lib.rs.
func (s *Skeleton) CreateLibrary(ctx context.Context, dir, name string) error {
	if err := ctx.Err(); err != nil {
		return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed", err)
	}

	root := filepath.Join(dir, name)
	exists, err := afero.Exists(s.Fs, root)
	if err != nil {
		return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed", err)
	}
	if exists {
		return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed",
			fmt.Errorf("destination %s already exists", root))
	}

	if err := s.Fs.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed",
			fmt.Errorf("creating %s: %w", root, err))
	}

	edition := s.Edition
	if edition == "" {
		edition = defaultEdition
	}
	manifest := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = %q\n\n[dependencies]\n", name, edition)

	files := []struct {
		path string
		data string
	}{
		{filepath.Join(root, "Cargo.toml"), manifest},
		{filepath.Join(root, "src", "lib.rs"), defaultLibRS},
	}
	for _, f := range files {
		if err := afero.WriteFile(s.Fs, f.path, []byte(f.data), 0644); err != nil {
			return qerrors.Wrap(qerrors.EExternalToolFailure, "build failed",
				fmt.Errorf("writing %s: %w", f.path, err))
		}
	}
	return nil
}
