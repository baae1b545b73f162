package manifest

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// section is a run of manifest lines that starts at a table header, or at
// the top of the file for the root table.
type section struct {
	// name is the dotted table name, "" for the root table.
	name  string
	array bool
	lines []string
}

// Decode parses manifest bytes into a CargoManifest.
func Decode(data []byte) (*CargoManifest, error) {
	var m CargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	return &m, nil
}

// decodeRaw parses manifest bytes into untyped tables, accepting any valid
// TOML whatever the shape of its values.
func decodeRaw(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	return raw, nil
}

// Parse reads and decodes the manifest at path.
func Parse(fs afero.Fs, path string) (*CargoManifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// readLines reads the file at path into lines without their terminators.
func readLines(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// splitSections groups lines by the table header that precedes them.
func splitSections(lines []string) []section {
	sections := []section{{}}
	for _, line := range lines {
		if name, array, ok := parseHeader(line); ok {
			sections = append(sections, section{name: name, array: array})
		}
		cur := &sections[len(sections)-1]
		cur.lines = append(cur.lines, line)
	}
	return sections
}

// parseHeader recognizes `[table]` and `[[array]]` header lines, with
// optional trailing comments. Quotes around key parts are stripped
// so `["dependencies"]` and `[dependencies]` compare equal.
func parseHeader(line string) (name string, array bool, ok bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "[") {
		return "", false, false
	}

	openTok, closeTok := "[", "]"
	if strings.HasPrefix(s, "[[") {
		openTok, closeTok, array = "[[", "]]", true
	}
	s = strings.TrimPrefix(s, openTok)
	end := strings.Index(s, closeTok)
	if end < 0 {
		return "", false, false
	}
	rest := strings.TrimSpace(s[end+len(closeTok):])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return "", false, false
	}

	parts := strings.Split(s[:end], ".")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return strings.Join(parts, "."), array, true
}

// keyOf returns the bare key of a `key = value` line, or "" for anything
// else (blank lines, comments, continuation lines).
func keyOf(line string) string {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return ""
	}
	eq := strings.Index(s, "=")
	if eq <= 0 {
		return ""
	}
	key := strings.TrimSpace(s[:eq])
	return strings.Trim(key, `"'`)
}
