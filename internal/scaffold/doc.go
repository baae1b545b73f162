// Package scaffold creates new Quill plugin projects. It runs the pipeline
// behind "cargo-quill new": resolve the target path, have a toolchain.Creator
// lay down a library crate, rewrite its Cargo.toml and replace src/lib.rs
// with a plugin skeleton whose type name is derived from the project name.
package scaffold
