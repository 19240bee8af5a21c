package postgres

import (
	"context"
	"fmt"
	"strconv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
)

// AWSIAMTokenProvider builds RDS IAM authentication tokens from the default
// AWS credential chain (environment, shared config, instance role).
type AWSIAMTokenProvider struct {
	endpoint string // host:port
	region   string
	username string
}

// NewAWSIAMTokenProvider validates its inputs and returns a provider for the
// given RDS endpoint.
func NewAWSIAMTokenProvider(host string, port int, region, username string) (*AWSIAMTokenProvider, error) {
	if host == "" {
		return nil, fmt.Errorf("AWS IAM auth requires a host")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS IAM auth requires a region (set AWS_REGION)")
	}
	if username == "" {
		return nil, fmt.Errorf("AWS IAM auth requires a database username")
	}
	return &AWSIAMTokenProvider{
		endpoint: host + ":" + strconv.Itoa(port),
		region:   region,
		username: username,
	}, nil
}

// Token returns a token valid for 15 minutes, used as the password.
func (p *AWSIAMTokenProvider) Token(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.region))
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config: %w", err)
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to build RDS auth token: %w", err)
	}
	return token, nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAMTokenProvider(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}
