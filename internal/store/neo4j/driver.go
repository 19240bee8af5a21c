// Package neo4j loads the graph edges dataset into Neo4j as typed nodes and
// relationships, merged in batches.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vvka-141/transitload/internal/config"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// Runner executes one Cypher statement to completion.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

type sessionRunner struct {
	session neo4j.SessionWithContext
}

// NewRunner adapts a driver session. Each Run consumes its result so server
// errors surface on the call that caused them.
func NewRunner(session neo4j.SessionWithContext) Runner {
	return &sessionRunner{session: session}
}

func (s *sessionRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	result, err := s.session.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// Connect creates a driver for cfg and waits until the server verifies
// connectivity and answers a ping. The caller closes the driver.
func Connect(ctx context.Context, cfg config.Neo4jConfig, executor *retry.Executor, logger transitload.Logger) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: neo4j driver for %s: %w", transitload.ErrInvalidConfig, cfg.URI, err)
	}

	err = retry.WaitFor(ctx, executor, logger, "Neo4j", func(ctx context.Context) error {
		if err := driver.VerifyConnectivity(ctx); err != nil {
			return err
		}
		_, err := neo4j.ExecuteQuery(ctx, driver, "RETURN 1 AS ok", nil, neo4j.EagerResultTransformer)
		return err
	})
	if err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	logger.Info("Connected to Neo4j at %s as %s", cfg.URI, cfg.Username)
	return driver, nil
}
