package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/spf13/afero"
)

func TestDispatch(t *testing.T) {
	c, err := Dispatch(CreatorCargo, Options{CargoBinary: "cargo"})
	if err != nil {
		t.Fatalf("Dispatch(cargo) error: %v", err)
	}
	if _, ok := c.(*Cargo); !ok {
		t.Errorf("Dispatch(cargo) returned %T, want *Cargo", c)
	}

	c, err = Dispatch(CreatorBuiltin, Options{Fs: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("Dispatch(builtin) error: %v", err)
	}
	if _, ok := c.(*Skeleton); !ok {
		t.Errorf("Dispatch(builtin) returned %T, want *Skeleton", c)
	}

	if _, err := Dispatch("maven", Options{}); err == nil {
		t.Error("expected error for unknown creator")
	}
}

func TestSkeleton_CreateLibrary(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewSkeleton(fs)

	if err := s.CreateLibrary(context.Background(), "/work", "my-plugin"); err != nil {
		t.Fatalf("CreateLibrary() error: %v", err)
	}

	manifest, err := afero.ReadFile(fs, "/work/my-plugin/Cargo.toml")
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	want := "[package]\nname = \"my-plugin\"\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[dependencies]\n"
	if string(manifest) != want {
		t.Errorf("manifest =\n%s\nwant\n%s", manifest, want)
	}

	lib, err := afero.ReadFile(fs, "/work/my-plugin/src/lib.rs")
	if err != nil {
		t.Fatalf("reading lib.rs: %v", err)
	}
	if !strings.Contains(string(lib), "fn it_works()") {
		t.Errorf("lib.rs does not look like the cargo default:\n%s", lib)
	}
}

func TestSkeleton_ExistingDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/work/taken", 0755)

	err := NewSkeleton(fs).CreateLibrary(context.Background(), "/work", "taken")
	if !qerrors.HasCode(err, qerrors.EExternalToolFailure) {
		t.Fatalf("expected E_EXTERNAL_TOOL_FAILURE, got %v", err)
	}
}

func TestSkeleton_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := afero.NewMemMapFs()
	err := NewSkeleton(fs).CreateLibrary(ctx, "/work", "late")
	if !qerrors.HasCode(err, qerrors.EExternalToolFailure) {
		t.Fatalf("expected E_EXTERNAL_TOOL_FAILURE, got %v", err)
	}
	if exists, _ := afero.Exists(fs, "/work/late"); exists {
		t.Error("nothing should be written after cancellation")
	}
}

// writeFakeCargo writes a shell script standing in for cargo.
func writeFakeCargo(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "cargo")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake cargo: %v", err)
	}
	return path
}

func TestCargo_CreateLibrary_Success(t *testing.T) {
	bin := writeFakeCargo(t, `[ "$1" = "new" ] && [ "$2" = "--lib" ] || exit 9
mkdir -p "$3/src"
printf '[package]\nname = "%s"\n\n[dependencies]\n' "$3" > "$3/Cargo.toml"
printf 'pub fn add() {}\n' > "$3/src/lib.rs"
echo "Created library package" >&2
echo "stdout is ignored"`)

	work := t.TempDir()
	var stderr bytes.Buffer
	c := &Cargo{Binary: bin, Stderr: &stderr}

	if err := c.CreateLibrary(context.Background(), work, "demo"); err != nil {
		t.Fatalf("CreateLibrary() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(work, "demo", "Cargo.toml")); err != nil {
		t.Errorf("Cargo.toml not created: %v", err)
	}
	if !strings.Contains(stderr.String(), "Created library package") {
		t.Errorf("stderr not forwarded, got %q", stderr.String())
	}
	if strings.Contains(stderr.String(), "stdout is ignored") {
		t.Error("stdout should be captured, not forwarded")
	}
}

func TestCargo_CreateLibrary_NonZeroExit(t *testing.T) {
	bin := writeFakeCargo(t, `echo "error: destination already exists" >&2
exit 101`)

	c := &Cargo{Binary: bin, Stderr: &bytes.Buffer{}}
	err := c.CreateLibrary(context.Background(), t.TempDir(), "demo")
	if !qerrors.HasCode(err, qerrors.EExternalToolFailure) {
		t.Fatalf("expected E_EXTERNAL_TOOL_FAILURE, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "build failed") {
		t.Errorf("message should start with 'build failed', got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "status 101") {
		t.Errorf("message should carry the exit status, got %q", err.Error())
	}
}

func TestCargo_CreateLibrary_MissingBinary(t *testing.T) {
	c := &Cargo{Binary: filepath.Join(t.TempDir(), "no-such-cargo")}
	err := c.CreateLibrary(context.Background(), t.TempDir(), "demo")
	if !qerrors.HasCode(err, qerrors.EExternalToolFailure) {
		t.Fatalf("expected E_EXTERNAL_TOOL_FAILURE, got %v", err)
	}
	if !errors.Is(err, &qerrors.QuillError{Code: qerrors.EToolchainNotInstalled}) {
		t.Errorf("cause should be E_TOOLCHAIN_NOT_INSTALLED, got %v", err)
	}
}
