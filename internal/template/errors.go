// Package template renders settings templates from a project configuration
// and deploys them through the guarded writer.
package template

import (
	"errors"
	"fmt"
)

// Sentinel errors for template operations.
var (
	// ErrTemplateNotFound indicates the named template does not exist.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingField indicates a placeholder referenced an undefined field.
	ErrMissingField = errors.New("template: missing field")

	// ErrUnexpandedToken indicates placeholder syntax survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token in output")

	// ErrPathTraversal indicates a deploy target escapes the project root.
	ErrPathTraversal = errors.New("template: path escapes project root")
)

// MissingFieldError names the field a template referenced but the data lacks.
type MissingFieldError struct {
	Template string
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template %q references undefined field %q", e.Template, e.Field)
}

// Unwrap exposes ErrMissingField and the underlying execution error.
func (e *MissingFieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMissingField}
	}
	return []error{ErrMissingField, e.Err}
}
