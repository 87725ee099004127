// Package fileguard writes generated files without ever clobbering files the
// user has taken ownership of. Ownership is expressed by a signature comment:
// a file that carries it is tool-managed, a file that does not is the user's.
package fileguard

import (
	"errors"
	"fmt"
)

// Sentinel errors for guarded file operations.
var (
	// ErrNotManaged indicates the target exists but lacks the signature.
	ErrNotManaged = errors.New("fileguard: file is not managed")

	// ErrWriteFailure indicates an I/O error while writing or replacing a file.
	ErrWriteFailure = errors.New("fileguard: write failed")

	// ErrMissingSignature indicates generated content that does not carry
	// the signature and therefore could never be updated again.
	ErrMissingSignature = errors.New("fileguard: content does not contain signature")
)

// NotManagedError reports a target file the user has detached from management.
type NotManagedError struct {
	Path      string
	Signature string
}

// Error implements the error interface.
func (e *NotManagedError) Error() string {
	return fmt.Sprintf("%s exists and does not contain %q; it is user-owned and was left unchanged", e.Path, e.Signature)
}

// Unwrap returns ErrNotManaged.
func (e *NotManagedError) Unwrap() error {
	return ErrNotManaged
}

// WriteError wraps an I/O failure with the operation that failed.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap exposes both ErrWriteFailure and the underlying cause.
func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailure, e.Err}
}
