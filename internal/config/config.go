// Package config resolves loader settings from built-in defaults, an
// optional YAML file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/transitload/pkg/transitload"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is read from the working directory when --config is not given.
const ConfigFileName = "transitload.yaml"

// Postgres auth methods.
const (
	AuthPassword = "password"
	AuthAWSIAM   = "aws-iam"
)

type PostgresConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Database   string `yaml:"database"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password,omitempty"`
	SSLMode    string `yaml:"sslmode,omitempty"`
	AuthMethod string `yaml:"auth_method,omitempty"`
	CSV        string `yaml:"csv"`
}

type CassandraConfig struct {
	Hosts    []string `yaml:"hosts"`
	Port     int      `yaml:"port"`
	Keyspace string   `yaml:"keyspace"`
	Table    string   `yaml:"table"`
	CSV      string   `yaml:"csv"`
}

type Neo4jConfig struct {
	URI       string `yaml:"uri"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password,omitempty"`
	BatchSize int    `yaml:"batch_size"`
	CSV       string `yaml:"csv"`
}

type AWSConfig struct {
	AccessKeyID       string `yaml:"access_key_id,omitempty"`
	SecretAccessKey   string `yaml:"secret_access_key,omitempty"`
	SessionToken      string `yaml:"session_token,omitempty"`
	Region            string `yaml:"region"`
	RedshiftDatabase  string `yaml:"redshift_database"`
	RedshiftWorkgroup string `yaml:"redshift_workgroup"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	Wait       time.Duration `yaml:"wait"`
}

type Config struct {
	Postgres  PostgresConfig  `yaml:"postgres"`
	Cassandra CassandraConfig `yaml:"cassandra"`
	Neo4j     Neo4jConfig     `yaml:"neo4j"`
	AWS       AWSConfig       `yaml:"aws"`
	Retry     RetryConfig     `yaml:"retry"`
}

// Default returns the settings of the course's local docker setup.
func Default() *Config {
	return &Config{
		Postgres: PostgresConfig{
			Host:       "localhost",
			Port:       5432,
			Database:   "postgres",
			Username:   "temp",
			Password:   "temp",
			SSLMode:    "disable",
			AuthMethod: AuthPassword,
			CSV:        transitload.DefaultTripsCSV,
		},
		Cassandra: CassandraConfig{
			Hosts:    []string{"127.0.0.1"},
			Port:     9042,
			Keyspace: "transit",
			Table:    "raw_events",
			CSV:      transitload.DefaultEventsCSV,
		},
		Neo4j: Neo4jConfig{
			URI:       "bolt://localhost:7687",
			Username:  "neo4j",
			Password:  "neo4jpass",
			BatchSize: transitload.DefaultBatchSize,
			CSV:       transitload.DefaultEdgesCSV,
		},
		AWS: AWSConfig{
			Region:            "us-east-1",
			RedshiftDatabase:  "dev",
			RedshiftWorkgroup: "udacity-dwh-wg",
		},
		Retry: RetryConfig{
			MaxRetries: transitload.DefaultMaxRetries,
			Wait:       transitload.DefaultWait,
		},
	}
}

// Load reads path over the defaults. It returns the defaults together with
// ErrConfigNotFound when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings with any of the recognised environment
// variables that are set. Malformed numeric values are reported.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}

	str("PG_HOST", &c.Postgres.Host)
	num("PG_PORT", &c.Postgres.Port)
	str("PG_DB", &c.Postgres.Database)
	str("PG_USER", &c.Postgres.Username)
	str("PG_PASSWORD", &c.Postgres.Password)
	str("PG_SSLMODE", &c.Postgres.SSLMode)
	str("PG_AUTH_METHOD", &c.Postgres.AuthMethod)

	if v, ok := lookup("CASSANDRA_HOSTS"); ok {
		c.Cassandra.Hosts = SplitHosts(v)
	}
	num("CASSANDRA_PORT", &c.Cassandra.Port)
	str("CASSANDRA_KEYSPACE", &c.Cassandra.Keyspace)
	str("CASSANDRA_TABLE", &c.Cassandra.Table)

	str("NEO4J_URI", &c.Neo4j.URI)
	str("NEO4J_USER", &c.Neo4j.Username)
	str("NEO4J_PASSWORD", &c.Neo4j.Password)

	str("AWS_ACCESS_KEY_ID", &c.AWS.AccessKeyID)
	str("AWS_SECRET_ACCESS_KEY", &c.AWS.SecretAccessKey)
	str("AWS_SESSION_TOKEN", &c.AWS.SessionToken)
	str("AWS_REGION", &c.AWS.Region)
	str("REDSHIFT_DATABASE", &c.AWS.RedshiftDatabase)
	str("REDSHIFT_WORKGROUP", &c.AWS.RedshiftWorkgroup)

	num("TRANSITLOAD_MAX_RETRIES", &c.Retry.MaxRetries)
	if v, ok := lookup("TRANSITLOAD_WAIT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("TRANSITLOAD_WAIT=%q is not a duration", v))
		} else {
			c.Retry.Wait = d
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", transitload.ErrInvalidConfig, err)
	}
	return nil
}

// SplitHosts splits a comma-separated host list, dropping blanks.
func SplitHosts(v string) []string {
	var hosts []string
	for _, h := range strings.Split(v, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

var cqlIdentifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

// Validate checks the settings every loader relies on. Keyspace and table
// names are spliced into CQL, so they must be plain identifiers.
func (c *Config) Validate() error {
	var errs []error

	if c.Retry.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("retry.max_retries must be at least 1, got %d", c.Retry.MaxRetries))
	}
	if c.Retry.Wait < 0 {
		errs = append(errs, fmt.Errorf("retry.wait must not be negative, got %s", c.Retry.Wait))
	}

	if err := validPort("postgres.port", c.Postgres.Port); err != nil {
		errs = append(errs, err)
	}
	switch c.Postgres.AuthMethod {
	case "", AuthPassword, AuthAWSIAM:
	default:
		errs = append(errs, fmt.Errorf("postgres.auth_method %q is not one of %s, %s", c.Postgres.AuthMethod, AuthPassword, AuthAWSIAM))
	}
	if c.Postgres.AuthMethod == AuthAWSIAM && c.AWS.Region == "" {
		errs = append(errs, errors.New("postgres.auth_method aws-iam requires aws.region"))
	}

	if len(c.Cassandra.Hosts) == 0 {
		errs = append(errs, errors.New("cassandra.hosts must list at least one host"))
	}
	if err := validPort("cassandra.port", c.Cassandra.Port); err != nil {
		errs = append(errs, err)
	}
	if !cqlIdentifier.MatchString(c.Cassandra.Keyspace) {
		errs = append(errs, fmt.Errorf("cassandra.keyspace %q is not a valid CQL identifier", c.Cassandra.Keyspace))
	}
	if !cqlIdentifier.MatchString(c.Cassandra.Table) {
		errs = append(errs, fmt.Errorf("cassandra.table %q is not a valid CQL identifier", c.Cassandra.Table))
	}

	if c.Neo4j.URI == "" {
		errs = append(errs, errors.New("neo4j.uri is required"))
	}
	if c.Neo4j.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("neo4j.batch_size must be at least 1, got %d", c.Neo4j.BatchSize))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", transitload.ErrInvalidConfig, err)
	}
	return nil
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}
