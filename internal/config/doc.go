// Package config manages user-level settings stored at ~/.quill/config.yaml.
// It resolves the framework dependency reference, the cargo binary and the
// manifest rewrite strategy from flags, QUILL_* environment variables, the
// config file and built-in defaults.
package config
