// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded with //go:embed, so the binary name, config home
// and the default framework dependency can be changed without touching code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	Subcommand      string `yaml:"subcommand"`
	FrameworkCrate  string `yaml:"framework_crate"`
	FrameworkGit    string `yaml:"framework_git"`
	FrameworkBranch string `yaml:"framework_branch"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:         "cargo-quill",
			DisplayName:     "Quill",
			Description:     "Scaffold Quill plugin projects for the Feather game server",
			HomeDir:         ".quill",
			EnvPrefix:       "QUILL",
			Subcommand:      "quill",
			FrameworkCrate:  "quill",
			FrameworkGit:    "https://github.com/feather-rs/feather",
			FrameworkBranch: "main",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "cargo-quill").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Quill").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".quill").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "QUILL").
func EnvPrefix() string { load(); return defaults.EnvPrefix }


// Subcommand returns the name cargo passes as the first argument when the
// binary is invoked as `cargo <subcommand>`.
func Subcommand() string { load(); return defaults.Subcommand }

// FrameworkCrate returns the name of the plugin framework dependency.
func FrameworkCrate() string { load(); return defaults.FrameworkCrate }

// FrameworkGit returns the default git remote of the framework dependency.
func FrameworkGit() string { load(); return defaults.FrameworkGit }

// FrameworkBranch returns the default branch the framework dependency tracks.
func FrameworkBranch() string { load(); return defaults.FrameworkBranch }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("cargo") → "QUILL_CARGO".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
