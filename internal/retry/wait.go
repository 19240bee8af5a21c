package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/transitload/pkg/transitload"
)

// WaitFor runs probe through executor until service accepts a connection,
// printing a "Waiting for <service>..." line before every pause. Failure
// wraps transitload.ErrConnectionFailed together with the last probe error.
func WaitFor(ctx context.Context, executor *Executor, logger transitload.Logger, service string, probe func(ctx context.Context) error) error {
	err := executor.
		WithOnRetry(func(attempt, maxAttempts int, err error, delay time.Duration) {
			logger.Info("Waiting for %s... (%d/%d)", service, attempt, maxAttempts)
			logger.Verbose("%s probe failed: %v (next attempt in %s)", service, err, delay)
		}).
		Execute(ctx, probe)

	if err == nil {
		logger.Info("%s is up!", service)
		return nil
	}

	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return fmt.Errorf("%w: could not connect to %s after %d attempts: %w",
			transitload.ErrConnectionFailed, service, exhausted.Attempts, exhausted.Err)
	}
	if ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %s: %w", transitload.ErrConnectionFailed, service, err)
}
