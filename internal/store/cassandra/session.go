// Package cassandra loads the events dataset into a Cassandra table with one
// parameterized insert per row.
package cassandra

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/vvka-141/transitload/internal/config"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// Session is the subset of a CQL session the loader needs.
type Session interface {
	Exec(ctx context.Context, stmt string, consistency gocql.Consistency, values ...any) error
	Columns(ctx context.Context, keyspace, table string) ([]string, error)
	Close()
}

type gocqlSession struct {
	s *gocql.Session
}

// Wrap adapts a gocql session.
func Wrap(s *gocql.Session) Session {
	return &gocqlSession{s: s}
}

func (g *gocqlSession) Exec(ctx context.Context, stmt string, consistency gocql.Consistency, values ...any) error {
	return g.s.Query(stmt, values...).WithContext(ctx).Consistency(consistency).Exec()
}

const columnsCQL = `SELECT column_name FROM system_schema.columns WHERE keyspace_name = ? AND table_name = ?`

func (g *gocqlSession) Columns(ctx context.Context, keyspace, table string) ([]string, error) {
	iter := g.s.Query(columnsCQL, keyspace, table).WithContext(ctx).Iter()
	var (
		name string
		cols []string
	)
	for iter.Scan(&name) {
		cols = append(cols, name)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return cols, nil
}

func (g *gocqlSession) Close() {
	g.s.Close()
}

// NewCluster builds the cluster config for cfg.
func NewCluster(cfg config.CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Port = cfg.Port
	cluster.Consistency = gocql.One
	cluster.ConnectTimeout = 5 * time.Second
	cluster.Timeout = 10 * time.Second
	// Peers advertise container-internal addresses under docker.
	cluster.DisableInitialHostLookup = true
	return cluster
}

// Connect waits until a session to the cluster opens.
func Connect(ctx context.Context, cfg config.CassandraConfig, executor *retry.Executor, logger transitload.Logger) (Session, error) {
	cluster := NewCluster(cfg)
	logger.Verbose("Cassandra hosts %v port %d", cfg.Hosts, cfg.Port)

	var session *gocql.Session
	err := retry.WaitFor(ctx, executor, logger, "Cassandra", func(ctx context.Context) error {
		s, err := cluster.CreateSession()
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Wrap(session), nil
}
