package project

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/spf13/afero"
)

// Config identifies the project being scaffolded. It is built once per
// invocation and never persisted.
type Config struct {
	// Name is the final path component of the target path.
	Name string
	// Path is the absolute, lexically clean target directory.
	Path string
}

// ParentDir returns the directory the project directory is created in.
func (c *Config) ParentDir() string {
	return filepath.Dir(c.Path)
}

// ManifestPath returns the location of the project's Cargo.toml.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Path, "Cargo.toml")
}

// LibPath returns the location of the project's src/lib.rs.
func (c *Config) LibPath() string {
	return filepath.Join(c.Path, "src", "lib.rs")
}

// Resolve validates a user-supplied target path and returns its Config.
//
// An existing target fails with E_TARGET_EXISTS before anything else is
// looked at. getwd is consulted only for relative inputs.
func Resolve(fs afero.Fs, getwd func() (string, error), input string) (*Config, error) {
	if input != "" {
		exists, err := afero.Exists(fs, input)
		if err != nil {
			return nil, errors.Wrap(errors.EIOFailure, fmt.Sprintf("checking %s", input), err)
		}
		if exists {
			return nil, errors.New(errors.ETargetExists, "Path already exists.")
		}
	}

	name, err := Name(input)
	if err != nil {
		return nil, err
	}

	path, err := Absolute(getwd, input)
	if err != nil {
		return nil, err
	}

	return &Config{Name: name, Path: path}, nil
}

// Name returns the final component of path. Paths without one (empty, a
// root, or anything that cleans to "." or "..") fail with E_INVALID_PATH.
func Name(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.EInvalidPath, "path must not be empty")
	}
	if !utf8.ValidString(path) {
		return "", errors.Newf(errors.EInvalidPath, "path %q is not valid UTF-8", path)
	}

	base := filepath.Base(filepath.Clean(path))
	switch base {
	case ".", "..", string(filepath.Separator):
		return "", errors.Newf(errors.EInvalidPath, "path %q has no final component to use as a project name", path)
	}
	return base, nil
}

// Absolute joins a relative path onto the working directory and cleans the
// result lexically. Symbolic links are not followed and the path need not
// exist.
func Absolute(getwd func() (string, error), path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if getwd == nil {
		getwd = os.Getwd
	}
	cwd, err := getwd()
	if err != nil {
		return "", errors.Wrap(errors.EIOFailure, "resolving working directory", err)
	}
	return filepath.Join(cwd, path), nil
}
