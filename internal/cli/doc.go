// Package cli defines the Cobra command tree for cargo-quill. Each file
// builds one top-level command (new, config, doctor, version) and hands the
// work to the internal packages; commands only parse flags and format output.
package cli
