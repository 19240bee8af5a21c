// Package testinfra starts throwaway database containers for the tests
// behind the containers build tag.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vvka-141/transitload/internal/config"
)

const (
	PostgresImage  = "postgres:16-alpine"
	CassandraImage = "cassandra:4.1"
	Neo4jImage     = "neo4j:5"

	PostgresUser     = "temp"
	PostgresPassword = "temp"
	PostgresDB       = "postgres"

	Neo4jUser     = "neo4j"
	Neo4jPassword = "neo4jpass"
)

// Container is a running database with its mapped endpoint.
type Container struct {
	testcontainers.Container
	Host string
	Port int
}

func endpoint(ctx context.Context, ctr testcontainers.Container, port nat.Port) (*Container, error) {
	host, err := ctr.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, port)
	if err != nil {
		return nil, fmt.Errorf("mapped port %s: %w", port, err)
	}
	return &Container{Container: ctr, Host: host, Port: mapped.Int()}, nil
}

// StartPostgres runs a PostgreSQL server with the course credentials.
func StartPostgres(ctx context.Context) (*Container, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	c, err := endpoint(ctx, ctr, "5432/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return c, nil
}

// PostgresConfig points a loader config at c.
func (c *Container) PostgresConfig() config.PostgresConfig {
	cfg := config.Default().Postgres
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.Username = PostgresUser
	cfg.Password = PostgresPassword
	cfg.Database = PostgresDB
	return cfg
}

// StartCassandra runs a single-node Cassandra. Startup takes close to a minute.
func StartCassandra(ctx context.Context) (*Container, error) {
	ctr, err := testcontainers.Run(ctx,
		CassandraImage,
		testcontainers.WithExposedPorts("9042/tcp"),
		testcontainers.WithEnv(map[string]string{
			"MAX_HEAP_SIZE": "512M",
			"HEAP_NEWSIZE":  "128M",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("9042/tcp"),
				wait.ForLog("Starting listening for CQL clients"),
			).WithDeadline(3*time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start cassandra: %w", err)
	}

	c, err := endpoint(ctx, ctr, "9042/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return c, nil
}

// CassandraConfig points a loader config at c.
func (c *Container) CassandraConfig() config.CassandraConfig {
	cfg := config.Default().Cassandra
	cfg.Hosts = []string{c.Host}
	cfg.Port = c.Port
	return cfg
}

// StartNeo4j runs Neo4j with the course password.
func StartNeo4j(ctx context.Context) (*Container, error) {
	ctr, err := testcontainers.Run(ctx,
		Neo4jImage,
		testcontainers.WithExposedPorts("7687/tcp"),
		testcontainers.WithEnv(map[string]string{
			"NEO4J_AUTH": Neo4jUser + "/" + Neo4jPassword,
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Started.").WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start neo4j: %w", err)
	}

	c, err := endpoint(ctx, ctr, "7687/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return c, nil
}

// Neo4jConfig points a loader config at c.
func (c *Container) Neo4jConfig() config.Neo4jConfig {
	cfg := config.Default().Neo4j
	cfg.URI = fmt.Sprintf("bolt://%s:%d", c.Host, c.Port)
	cfg.Username = Neo4jUser
	cfg.Password = Neo4jPassword
	return cfg
}
