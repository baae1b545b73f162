package manifest

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

//go:embed templates/dependencies.toml.tmpl
var templateFS embed.FS

var blockTemplate = template.Must(template.ParseFS(templateFS, "templates/dependencies.toml.tmpl"))

// Dependency is the framework dependency injected into the manifest. Either
// Version (a cargo version requirement) or Git must be set; Version wins.
type Dependency struct {
	Name    string
	Git     string
	Branch  string
	Version string
}

// Validate checks the dependency reference before anything is rendered.
func (d Dependency) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dependency name must not be empty")
	}
	for field, v := range map[string]string{
		"name":    d.Name,
		"git":     d.Git,
		"branch":  d.Branch,
		"version": d.Version,
	} {
		if err := checkTOMLValue(v); err != nil {
			return fmt.Errorf("dependency %s: %w", field, err)
		}
	}
	if d.Version != "" {
		if _, err := semver.NewConstraint(d.Version); err != nil {
			return fmt.Errorf("dependency version %q is not a valid requirement: %w", d.Version, err)
		}
		return nil
	}
	if d.Git == "" {
		return fmt.Errorf("dependency %s needs a git remote or a version", d.Name)
	}
	return nil
}

// checkTOMLValue rejects characters that would need escaping inside a TOML
// basic string.
func checkTOMLValue(v string) error {
	if strings.ContainsAny(v, "\"\\") {
		return fmt.Errorf("%q must not contain quotes or backslashes", v)
	}
	for _, r := range v {
		if unicode.IsControl(r) {
			return fmt.Errorf("%q must not contain control characters", v)
		}
	}
	return nil
}

type blockData struct {
	Dependency
	LibExtra []string
	DepExtra []string
}

// Block renders the fixed [lib]/[dependencies] suffix for d. The result
// starts with a blank line and ends with a newline.
func (d Dependency) Block() (string, error) {
	return d.render(nil, nil)
}

func (d Dependency) render(libExtra, depExtra []string) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := blockData{Dependency: d, LibExtra: libExtra, DepExtra: depExtra}
	if err := blockTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering dependency block: %w", err)
	}
	return buf.String(), nil
}
