// Package postgres loads the trips dataset into PostgreSQL with a single
// COPY inside one transaction.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/transitload/internal/config"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// TokenProvider supplies a short-lived password, such as an RDS IAM token.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	String() string
}

// BuildConnectionString renders cfg as a postgresql:// URL. The password is
// included when set.
func BuildConnectionString(cfg config.PostgresConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Database,
	}

	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}

	query := url.Values{}
	if cfg.SSLMode != "" {
		query.Set("sslmode", cfg.SSLMode)
	}
	query.Set("application_name", "transitload")
	u.RawQuery = query.Encode()
	return u.String()
}

// Connector opens a verified connection, waiting for the server first.
type Connector struct {
	cfg      config.PostgresConfig
	tokens   TokenProvider
	executor *retry.Executor
	logger   transitload.Logger
}

// NewConnector creates a Connector. tokens may be nil for password auth.
func NewConnector(cfg config.PostgresConfig, tokens TokenProvider, executor *retry.Executor, logger transitload.Logger) *Connector {
	return &Connector{cfg: cfg, tokens: tokens, executor: executor, logger: logger}
}

// Connect polls the server until a connection opens and answers a ping.
// The returned connection is owned by the caller.
func (c *Connector) Connect(ctx context.Context) (*pgx.Conn, error) {
	connStr := BuildConnectionString(c.cfg)
	connCfg, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres connection settings: %w", transitload.ErrInvalidConfig, err)
	}
	if c.tokens != nil {
		c.logger.Verbose("Using %s for the postgres password", c.tokens)
	}

	var conn *pgx.Conn
	err = retry.WaitFor(ctx, c.executor, c.logger, "Postgres", func(ctx context.Context) error {
		attemptCfg := connCfg.Copy()
		if c.tokens != nil {
			token, err := c.tokens.Token(ctx)
			if err != nil {
				return err
			}
			attemptCfg.Password = token
		}

		cn, err := pgx.ConnectConfig(ctx, attemptCfg)
		if err != nil {
			return wrapConnectionError(err, c.cfg)
		}
		if err := cn.Ping(ctx); err != nil {
			_ = cn.Close(ctx)
			return wrapConnectionError(err, c.cfg)
		}
		conn = cn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// wrapConnectionError adds guidance to the errors a course setup most often hits.
func wrapConnectionError(err error, cfg config.PostgresConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := cfg.Host + ":" + strconv.Itoa(cfg.Port)

	switch {
	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for user %q

Check PG_USER and PG_PASSWORD.

Original error: %w`, cfg.Username, err)

	case strings.Contains(errStr, "does not exist") && strings.Contains(errStr, "database"):
		return fmt.Errorf(`database %q does not exist on %s

Set PG_DB to an existing database.

Original error: %w`, cfg.Database, addr, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
}

// Connect picks the password source from cfg.AuthMethod and returns an open
// connection. region is only used for aws-iam.
func Connect(ctx context.Context, cfg config.PostgresConfig, region string, executor *retry.Executor, logger transitload.Logger) (*pgx.Conn, error) {
	var tokens TokenProvider
	if cfg.AuthMethod == config.AuthAWSIAM {
		p, err := NewAWSIAMTokenProvider(cfg.Host, cfg.Port, region, cfg.Username)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", transitload.ErrInvalidConfig, err)
		}
		tokens = p
	}
	return NewConnector(cfg, tokens, executor, logger).Connect(ctx)
}
