package retry

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes for transient conditions
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
)

// PostgreSQLErrorClassifier implements ErrorClassifier for PostgreSQL-specific errors.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgCode(pgErr.Code)
	}

	if isNetworkError(err) {
		return true
	}

	// "the database system is starting up" arrives as a FATAL 57P03 on some
	// versions and as plain text on others.
	return matchesTransientPattern(err, "too many connections", "the database system is starting up")
}

// isTransientPgCode covers class 08 (connection exception), 53 (insufficient
// resources) and 57 (operator intervention), plus a few single codes.
func isTransientPgCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"),
		strings.HasPrefix(code, "53"),
		strings.HasPrefix(code, "57"):
		return true
	}
	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}
	return false
}
