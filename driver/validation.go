package driver

import (
	"fmt"
	"strings"
)

// maxDatabaseNameLength is the longest database name accepted (MySQL limit)
const maxDatabaseNameLength = 64

// ValidateDatabaseName checks that a database name can be used as a file name.
// It rejects empty names, null bytes, path separators and parent references.
func ValidateDatabaseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoDatabase
	}

	if len(name) > maxDatabaseNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidIdentifier, name, maxDatabaseNameLength)
	}

	// Check for null byte injection
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("%w: %q contains a null byte", ErrInvalidIdentifier, name)
	}

	// Check for path traversal attempts
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q must not contain path elements", ErrInvalidIdentifier, name)
	}

	return nil
}

// SanitizeForLog masks the password of a connection config before logging
func SanitizeForLog(cfg Config) string {
	password := ""
	if cfg.Password != "" {
		password = "[REDACTED]"
	}
	return fmt.Sprintf("user=%s password=%s host=%s port=%d data_dir=%s",
		cfg.User, password, cfg.Host, cfg.Port, cfg.DataDir)
}
