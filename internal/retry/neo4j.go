package retry

import (
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jErrorClassifier treats driver connectivity failures and server
// errors in the Neo.TransientError class as transient.
type Neo4jErrorClassifier struct{}

func NewNeo4jErrorClassifier() *Neo4jErrorClassifier {
	return &Neo4jErrorClassifier{}
}

func (c *Neo4jErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if neo4j.IsConnectivityError(err) {
		return true
	}

	var dbErr *neo4j.Neo4jError
	if errors.As(err, &dbErr) {
		return strings.HasPrefix(dbErr.Code, "Neo.TransientError.")
	}

	if isNetworkError(err) {
		return true
	}

	return matchesTransientPattern(err, "connectivityerror", "serviceunavailable")
}
