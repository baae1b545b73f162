package manifest

import "fmt"

// CargoManifest is the typed view of the Cargo.toml tables this tool touches.
type CargoManifest struct {
	Package      Package        `toml:"package" json:"package"`
	Lib          *Lib           `toml:"lib,omitempty" json:"lib,omitempty"`
	Dependencies map[string]any `toml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Package is the [package] table. Version and Edition are strings, or a
// `{ workspace = true }` table when inherited from a cargo workspace.
type Package struct {
	Name    string `toml:"name" json:"name"`
	Version any    `toml:"version,omitempty" json:"version,omitempty"`
	Edition any    `toml:"edition,omitempty" json:"edition,omitempty"`
}

// VersionString returns the literal package version, or "" when it is
// inherited or unset.
func (p Package) VersionString() string {
	v, _ := p.Version.(string)
	return v
}

// Lib is the [lib] table.
type Lib struct {
	CrateType []string `toml:"crate-type" json:"crate-type"`
}

// Rewrite strategies.
const (
	StrategyStructured = "structured"
	StrategyPositional = "positional"
)

// ValidateStrategy checks a rewrite strategy name.
func ValidateStrategy(s string) error {
	switch s {
	case StrategyStructured, StrategyPositional:
		return nil
	default:
		return fmt.Errorf("invalid manifest strategy %q: must be %q or %q", s, StrategyStructured, StrategyPositional)
	}
}

// Table names rewritten by the structured strategy.
const (
	tableLib          = "lib"
	tableDependencies = "dependencies"
	keyCrateType      = "crate-type"
)
