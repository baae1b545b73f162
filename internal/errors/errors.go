// Package errors defines the stable error codes surfaced by cargo-quill.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes.
const (
	EUsage  Code = "E_USAGE"
	EConfig Code = "E_CONFIG"

	// Scaffolding pipeline
	ETargetExists          Code = "E_TARGET_EXISTS"
	EInvalidPath           Code = "E_INVALID_PATH"
	EInvalidName           Code = "E_INVALID_NAME"
	EExternalToolFailure   Code = "E_EXTERNAL_TOOL_FAILURE"
	EIOFailure             Code = "E_IO_FAILURE"
	EManifestFormat        Code = "E_MANIFEST_FORMAT"
	EToolchainNotInstalled Code = "E_TOOLCHAIN_NOT_INSTALLED"
)

// QuillError is the standard error type returned across package boundaries.
type QuillError struct {
	Code  Code
	Msg   string
	Cause error
}

// Error returns the message, followed by the cause when one is present.
func (e *QuillError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *QuillError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a QuillError with the same code, so callers
// can match on sentinel values built with New.
func (e *QuillError) Is(target error) bool {
	var t *QuillError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a new QuillError with the given code and message.
func New(code Code, msg string) error {
	return &QuillError{Code: code, Msg: msg}
}

// Newf creates a new QuillError with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &QuillError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new QuillError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &QuillError{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if not a QuillError.
func GetCode(err error) Code {
	var qe *QuillError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// HasCode reports whether err is or wraps a QuillError with the given code.
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}

// ExitCode returns the process exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes a single-line diagnostic for err to w.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}
