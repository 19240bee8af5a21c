package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/transitload/pkg/transitload"
)

// ExhaustedError is returned when every allowed attempt failed with a
// transient error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// WaitFunc pauses for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Executor orchestrates attempts with a pause between them and error classification.
//
// The configuration methods WithOnRetry and WithWaitFunc return copies, so an
// Executor can be shared and specialised per call site.
type Executor struct {
	classifier transitload.ErrorClassifier
	strategy   transitload.BackoffStrategy
	onRetry    func(attempt, maxAttempts int, err error, delay time.Duration)
	wait       WaitFunc
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier transitload.ErrorClassifier, strategy transitload.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
		wait:       timerWait,
	}
}

// WithOnRetry returns a new Executor that calls callback after every failed
// attempt that will be followed by another one. attempt is one-indexed.
func (e *Executor) WithOnRetry(callback func(attempt, maxAttempts int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// WithWaitFunc returns a new Executor that pauses through fn instead of a timer.
func (e *Executor) WithWaitFunc(fn WaitFunc) *Executor {
	clone := *e
	clone.wait = fn
	return &clone
}

// MaxAttempts reports the total number of attempts Execute will make.
func (e *Executor) MaxAttempts() int {
	return e.strategy.MaxAttempts()
}

// Execute runs operation until it succeeds, fails with a non-transient error,
// the context is cancelled, or the attempt budget is spent.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	maxAttempts := e.strategy.MaxAttempts()

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
		if attempt >= maxAttempts {
			return &ExhaustedError{Attempts: attempt, Err: lastErr}
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, maxAttempts, lastErr, delay)
		}
		if err := e.wait(ctx, delay); err != nil {
			return err
		}
	}
}

func timerWait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
