package exql

import (
	"fmt"
	"strings"

	"github.com/nao1215/exql/domain/model"
)

// Error taxonomy. Every error returned by Exql wraps one of these sentinels
// when the failure is classified; database errors are wrapped unclassified.
var (
	// ErrNotFound indicates a missing path, directory or database
	ErrNotFound = model.ErrNotFound

	// ErrStructure indicates a directory or file shape violation, such as too few rows
	ErrStructure = model.ErrStructure

	// ErrFormat indicates unparseable file content or an unsupported extension
	ErrFormat = model.ErrFormat

	// ErrShape indicates a column/row arity mismatch
	ErrShape = model.ErrShape

	// ErrConflict indicates that a destination already exists
	ErrConflict = model.ErrConflict

	// ErrName indicates an output file name with the wrong extension
	ErrName = model.ErrName
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Database  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithDatabase adds database context to the error
func (ec *ErrorContext) WithDatabase(database string) *ErrorContext {
	ec.Database = database
	return ec
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("exql: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.Database != "" {
		parts = append(parts, "database: "+ec.Database)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
