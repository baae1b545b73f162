package manifest

import (
	"fmt"
	"os"
	"strings"

	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"github.com/spf13/afero"
)

// Rewriter replaces the default dependency section of a generated Cargo.toml
// with the plugin framework block.
type Rewriter struct {
	Fs         afero.Fs
	Strategy   string
	Dependency Dependency
}

// Rewrite reads the manifest at path, patches it and rewrites the file in
// place. The positional strategy is a pure line operation. The structured
// strategy checks that the patched manifest declares the cdylib crate type
// and the framework dependency before the file is truncated, so a rejected
// patch leaves the original untouched.
func (r *Rewriter) Rewrite(path string) error {
	lines, err := readLines(r.Fs, path)
	if err != nil {
		return qerrors.Wrap(qerrors.EIOFailure, fmt.Sprintf("reading %s", path), err)
	}

	out, err := r.Patch(lines)
	if err != nil {
		return err
	}

	if r.Strategy != StrategyPositional {
		if err := r.check(out); err != nil {
			return err
		}
	}

	if err := writeFile(r.Fs, path, out); err != nil {
		return qerrors.Wrap(qerrors.EIOFailure, fmt.Sprintf("writing %s", path), err)
	}
	return nil
}

// Patch applies the configured strategy to the manifest lines.
func (r *Rewriter) Patch(lines []string) (string, error) {
	switch r.Strategy {
	case StrategyPositional:
		block, err := r.Dependency.Block()
		if err != nil {
			return "", qerrors.Wrap(qerrors.EConfig, "invalid framework dependency", err)
		}
		return PatchPositional(lines, block)
	case StrategyStructured, "":
		return PatchStructured(lines, r.Dependency)
	default:
		return "", qerrors.Newf(qerrors.EConfig, "unknown manifest strategy %q", r.Strategy)
	}
}

// check asserts that out carries what the rewrite injected. Everything else
// in the manifest belongs to the user and is not judged here.
func (r *Rewriter) check(out string) error {
	raw, err := decodeRaw([]byte(out))
	if err != nil {
		return qerrors.Wrap(qerrors.EManifestFormat, "rewritten manifest is not valid TOML", err)
	}
	if !declaresCrateType(raw, "cdylib") {
		return qerrors.New(qerrors.EManifestFormat, "rewritten manifest does not build a cdylib")
	}
	deps, _ := raw[tableDependencies].(map[string]any)
	if _, ok := deps[r.Dependency.Name]; !ok {
		return qerrors.Newf(qerrors.EManifestFormat, "rewritten manifest does not declare %s", r.Dependency.Name)
	}
	return nil
}

// declaresCrateType reports whether [lib] crate-type lists kind.
func declaresCrateType(raw map[string]any, kind string) bool {
	lib, _ := raw[tableLib].(map[string]any)
	types, _ := lib[keyCrateType].([]any)
	for _, t := range types {
		if t == kind {
			return true
		}
	}
	return false
}

// PatchPositional drops the last two lines and appends block verbatim. It
// assumes the manifest ends with cargo's blank line and `[dependencies]`
// header.
func PatchPositional(lines []string, block string) (string, error) {
	if len(lines) < 2 {
		return "", qerrors.Newf(qerrors.EManifestFormat,
			"manifest has %d line(s); expected at least 2", len(lines))
	}

	var b strings.Builder
	for _, line := range lines[:len(lines)-2] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(block)
	return b.String(), nil
}

// PatchStructured removes the [lib] and [dependencies] tables wherever they
// appear and appends the framework block. Keys of the removed tables other
// than crate-type and the framework dependency itself are carried into the
// new tables. All other content is kept verbatim.
func PatchStructured(lines []string, dep Dependency) (string, error) {
	if len(lines) < 2 {
		return "", qerrors.Newf(qerrors.EManifestFormat,
			"manifest has %d line(s); expected at least 2", len(lines))
	}
	if _, err := decodeRaw([]byte(strings.Join(lines, "\n"))); err != nil {
		return "", qerrors.Wrap(qerrors.EManifestFormat, "manifest is not valid TOML", err)
	}

	var kept, libExtra, depExtra []string
	for _, sec := range splitSections(lines) {
		switch {
		case sec.array:
			kept = append(kept, sec.lines...)
		case sec.name == tableLib:
			libExtra = append(libExtra, bodyWithout(sec.lines[1:], keyCrateType)...)
		case sec.name == tableDependencies:
			depExtra = append(depExtra, bodyWithout(sec.lines[1:], dep.Name)...)
		case sec.name == tableDependencies+"."+dep.Name:
			// Replaced by the framework entry.
		default:
			kept = append(kept, sec.lines...)
		}
	}

	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	block, err := dep.render(libExtra, depExtra)
	if err != nil {
		return "", qerrors.Wrap(qerrors.EConfig, "invalid framework dependency", err)
	}

	var b strings.Builder
	for _, line := range kept {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(block)
	return b.String(), nil
}

// bodyWithout returns the non-blank, non-comment lines of a table body minus
// the entry for key, including dotted forms like `key.git = ...`. A multi-line array value of key is skipped up to its
// closing bracket.
func bodyWithout(body []string, key string) []string {
	var out []string
	skipping := false
	for _, line := range body {
		s := strings.TrimSpace(line)
		if skipping {
			if strings.Contains(s, "]") {
				skipping = false
			}
			continue
		}
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if k := keyOf(line); k == key || strings.HasPrefix(k, key+".") {
			value := s[strings.Index(s, "=")+1:]
			if strings.Count(value, "[") > strings.Count(value, "]") {
				skipping = true
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// writeFile truncates path and writes data, reporting close errors.
func writeFile(fs afero.Fs, path, data string) (err error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = f.WriteString(data)
	return err
}
