// Package model provides domain model for exql
package model

import "errors"

// Error taxonomy shared by every exql component. Errors returned from this
// package wrap one of these sentinels, so callers classify failures with errors.Is.
var (
	// ErrNotFound indicates a missing file or directory
	ErrNotFound = errors.New("exql: not found")

	// ErrStructure indicates a directory or file that does not have the required shape,
	// such as a subdirectory under strict mode or too few header rows
	ErrStructure = errors.New("exql: invalid structure")

	// ErrFormat indicates an unsupported extension or content that cannot be parsed
	ErrFormat = errors.New("exql: invalid format")

	// ErrShape indicates a mismatch between the number of columns and row values
	ErrShape = errors.New("exql: column/row arity mismatch")

	// ErrConflict indicates that a destination already exists
	ErrConflict = errors.New("exql: destination already exists")

	// ErrName indicates an output file name without the expected extension
	ErrName = errors.New("exql: invalid file name")
)
