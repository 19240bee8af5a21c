// Package cloudenv publishes the AWS settings shared by the warehouse
// exercises and verifies that credentials resolve.
package cloudenv

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/vvka-141/transitload/internal/config"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// Settings are the values exported to the environment. Empty credentials
// are exported as empty strings.
type Settings struct {
	AccessKeyID       string
	SecretAccessKey   string
	SessionToken      string
	Region            string
	RedshiftDatabase  string
	RedshiftWorkgroup string
}

// FromConfig takes the resolved AWS section of the loader config.
func FromConfig(c config.AWSConfig) Settings {
	return Settings{
		AccessKeyID:       c.AccessKeyID,
		SecretAccessKey:   c.SecretAccessKey,
		SessionToken:      c.SessionToken,
		Region:            c.Region,
		RedshiftDatabase:  c.RedshiftDatabase,
		RedshiftWorkgroup: c.RedshiftWorkgroup,
	}
}

type pair struct{ key, value string }

func (s Settings) pairs() []pair {
	return []pair{
		{"AWS_ACCESS_KEY_ID", s.AccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", s.SecretAccessKey},
		{"AWS_SESSION_TOKEN", s.SessionToken},
		{"AWS_REGION", s.Region},
		{"REDSHIFT_DATABASE", s.RedshiftDatabase},
		{"REDSHIFT_WORKGROUP", s.RedshiftWorkgroup},
	}
}

// Apply writes every setting through setenv, e.g. os.Setenv.
func (s Settings) Apply(setenv func(key, value string) error) error {
	for _, p := range s.pairs() {
		if err := setenv(p.key, p.value); err != nil {
			return fmt.Errorf("set %s: %w", p.key, err)
		}
	}
	return nil
}

// Exports renders the settings as POSIX shell export lines.
func (s Settings) Exports() string {
	var b strings.Builder
	for _, p := range s.pairs() {
		fmt.Fprintf(&b, "export %s=%s\n", p.key, shellQuote(p.value))
	}
	return b.String()
}

func shellQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// Redacted is s with the secret and session token masked, for logging.
func (s Settings) Redacted() Settings {
	r := s
	r.SecretAccessKey = mask(s.SecretAccessKey)
	r.SessionToken = mask(s.SessionToken)
	return r
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return "****"
}

// ConfigLoader loads an AWS config for region.
type ConfigLoader func(ctx context.Context, region string) (aws.Config, error)

// DefaultLoader uses the SDK's default chain (environment, shared files,
// container and instance roles).
func DefaultLoader(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}

// CheckResult describes the credentials that resolved.
type CheckResult struct {
	Region      string
	Source      string
	AccessKeyID string
	Expires     string
}

// Check resolves credentials through load and reports where they came from.
// Failure wraps transitload.ErrInvalidConfig.
func Check(ctx context.Context, s Settings, load ConfigLoader, logger transitload.Logger) (*CheckResult, error) {
	cfg, err := load(ctx, s.Region)
	if err != nil {
		return nil, fmt.Errorf("%w: load AWS config: %w", transitload.ErrInvalidConfig, err)
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("%w: no AWS credential provider configured", transitload.ErrInvalidConfig)
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve AWS credentials: %w", transitload.ErrInvalidConfig, err)
	}

	res := &CheckResult{
		Region:      cfg.Region,
		Source:      creds.Source,
		AccessKeyID: creds.AccessKeyID,
	}
	if creds.CanExpire {
		res.Expires = creds.Expires.UTC().Format("2006-01-02T15:04:05Z")
	}
	logger.Verbose("AWS credentials from %s for key %s", res.Source, res.AccessKeyID)
	return res, nil
}
