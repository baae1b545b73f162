// Package project resolves the target directory of a new plugin project into
// an absolute, lexically clean path and derives the project name from its
// final component.
package project
