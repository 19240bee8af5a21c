package retry

import (
	"errors"

	"github.com/gocql/gocql"
)

// CassandraErrorClassifier treats "node not listening yet" and coordinator
// unavailability as transient.
type CassandraErrorClassifier struct{}

func NewCassandraErrorClassifier() *CassandraErrorClassifier {
	return &CassandraErrorClassifier{}
}

func (c *CassandraErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, gocql.ErrNoConnectionsStarted),
		errors.Is(err, gocql.ErrNoConnections),
		errors.Is(err, gocql.ErrTimeoutNoResponse),
		errors.Is(err, gocql.ErrConnectionClosed):
		return true
	}

	var unavailable *gocql.RequestErrUnavailable
	if errors.As(err, &unavailable) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	// gocql formats the dial error into "unable to create session" with %v.
	return matchesTransientPattern(err, "no connections were made", "unable to discover protocol version", "no hosts available")
}
