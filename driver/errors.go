package driver

import "errors"

// Predefined errors
var (
	// ErrUnknownDialect is returned when a dialect name is not recognized
	ErrUnknownDialect = errors.New("exql driver: unknown dialect")

	// ErrNoDatabase is returned when an operation needs a database name and none was given
	ErrNoDatabase = errors.New("exql driver: no database name provided")

	// ErrInvalidIdentifier is returned when a database name cannot be mapped safely
	ErrInvalidIdentifier = errors.New("exql driver: invalid database name")

	// ErrNoDataDir is returned when the SQLite dialect has no data directory configured
	ErrNoDataDir = errors.New("exql driver: no data directory configured")

	// ErrSessionClosed is returned when a closed session is used
	ErrSessionClosed = errors.New("exql driver: session is closed")
)
