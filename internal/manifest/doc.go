// Package manifest rewrites the Cargo.toml produced for a new plugin project.
// It swaps the default dependency section for the plugin framework block,
// either by editing TOML table sections or by the original drop-the-last-two-
// lines rule, and validates the result against an embedded JSON schema.
package manifest
