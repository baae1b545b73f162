//go:build integration

package integration_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// binPath is the cargo-quill binary built once for the whole run.
var binPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cargo-quill-e2e-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating build dir: %v\n", err)
		os.Exit(1)
	}
	binPath = filepath.Join(dir, "cargo-quill")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	build := exec.Command("go", "build", "-o", binPath, "../..")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "building cargo-quill: %v\n", err)
		os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// testEnv holds the isolated directories for one test.
type testEnv struct {
	HomeDir string // HOME, holds .quill/config.yaml
	WorkDir string // working directory for the binary
}

// setupTestEnv isolates HOME and clears QUILL_* overrides for the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		WorkDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "QUILL_") {
			t.Setenv(strings.SplitN(kv, "=", 2)[0], "")
		}
	}
	return env
}

// result is the outcome of one binary invocation.
type result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runCLI runs the binary in env.WorkDir.
func runCLI(t *testing.T, env *testEnv, args ...string) result {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = env.WorkDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := result{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("running %v: %v", args, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

// writeFakeCargo writes a shell script that behaves like `cargo new --lib`
// and returns its path.
func writeFakeCargo(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "cargo")
	script := `#!/bin/sh
[ "$1" = "new" ] && [ "$2" = "--lib" ] || exit 9
mkdir "$3" || exit 101
mkdir "$3/src"
cat > "$3/Cargo.toml" <<EOF
[package]
name = "$3"
version = "0.1.0"
edition = "2021"

# See more keys and their definitions at https://doc.rust-lang.org/cargo/reference/manifest.html

[dependencies]
EOF
printf 'pub fn add(left: u64, right: u64) -> u64 {\n    left + right\n}\n' > "$3/src/lib.rs"
echo "     Created library package" >&2
`
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake cargo: %v", err)
	}
	return path
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileNotContains fails if the file contains substr.
func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s unexpectedly contains %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertNotExists fails the test if path exists.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s not to exist", path)
	}
}
