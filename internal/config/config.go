package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/feather-rs/cargo-quill/internal/branding"
	"github.com/feather-rs/cargo-quill/internal/manifest"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyDependencyGit     = "dependency.git"
	KeyDependencyBranch  = "dependency.branch"
	KeyDependencyVersion = "dependency.version"
	KeyCargoBinary       = "cargo.binary"
	KeyManifestStrategy  = "manifest.strategy"
)

// Manifest rewrite strategies accepted for KeyManifestStrategy.
const (
	StrategyStructured = manifest.StrategyStructured
	StrategyPositional = manifest.StrategyPositional
)

// Settings is the resolved scaffolding configuration for one invocation.
type Settings struct {
	DependencyName    string
	DependencyGit     string
	DependencyBranch  string
	DependencyVersion string
	CargoBinary       string
	ManifestStrategy  string
}

// Dir returns the path to the config directory (~/.quill/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.quill/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Environment variables use the branding prefix with dots mapped to
// underscores, e.g. QUILL_DEPENDENCY_BRANCH.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyDependencyGit, branding.FrameworkGit())
	viper.SetDefault(KeyDependencyBranch, branding.FrameworkBranch())
	viper.SetDefault(KeyDependencyVersion, "")
	viper.SetDefault(KeyCargoBinary, "cargo")
	viper.SetDefault(KeyManifestStrategy, StrategyStructured)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if key == KeyManifestStrategy {
		if err := ValidateStrategy(value); err != nil {
			return err
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Keys returns the known configuration keys in sorted order.
func Keys() []string {
	keys := []string{
		KeyDependencyGit,
		KeyDependencyBranch,
		KeyDependencyVersion,
		KeyCargoBinary,
		KeyManifestStrategy,
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// All returns the effective value of every known key.
func All() map[string]string {
	out := make(map[string]string, len(Keys()))
	for _, k := range Keys() {
		out[k] = viper.GetString(k)
	}
	return out
}

// ValidateStrategy checks a manifest strategy name.
func ValidateStrategy(s string) error {
	return manifest.ValidateStrategy(s)
}

// Resolve returns the effective Settings from flags, env, config file and
// defaults, in that order of precedence.
func Resolve() (*Settings, error) {
	s := &Settings{
		DependencyName:    branding.FrameworkCrate(),
		DependencyGit:     viper.GetString(KeyDependencyGit),
		DependencyBranch:  viper.GetString(KeyDependencyBranch),
		DependencyVersion: viper.GetString(KeyDependencyVersion),
		CargoBinary:       viper.GetString(KeyCargoBinary),
		ManifestStrategy:  viper.GetString(KeyManifestStrategy),
	}
	if err := ValidateStrategy(s.ManifestStrategy); err != nil {
		return nil, err
	}
	if s.CargoBinary == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyCargoBinary)
	}
	if s.DependencyVersion == "" && s.DependencyGit == "" {
		return nil, fmt.Errorf("one of %s or %s must be set", KeyDependencyGit, KeyDependencyVersion)
	}
	return s, nil
}
