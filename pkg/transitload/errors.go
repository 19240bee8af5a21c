package transitload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
var (
	// ErrUsage indicates invalid command-line arguments or flags.
	ErrUsage = errors.New("usage error")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the target store never accepted a connection.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInputNotFound indicates the CSV file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrSchemaMismatch indicates the CSV header or the destination table
	// lacks columns the loader expects.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrLoadFailed indicates a write to the target store failed mid-load.
	ErrLoadFailed = errors.New("load failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrInputNotFound):
		return ExitInputMissing
	case errors.Is(err, ErrSchemaMismatch):
		return ExitSchemaMismatch
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
