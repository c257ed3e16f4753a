// Package errs provides the error-construction helpers used throughout this
// module, adapted from this codebase's kernel/utils error conventions
// (plain sentinel-style errors, wrapped with %w when there's a cause).
package errs

import "fmt"

// New creates a new error carrying msg verbatim.
func New(msg string) error {
	return fmt.Errorf("%s", msg)
}

// Wrap attaches msg as context ahead of err, preserving err for errors.Is/As.
func Wrap(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
