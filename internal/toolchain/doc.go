// Package toolchain defines the Creator interface for materializing a new
// library project and provides two implementations: Cargo, which shells out
// to `cargo new --lib`, and Skeleton, which writes the same layout in-process.
// It also detects the installed cargo version for the doctor command.
package toolchain
