package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWait captures requested pauses without sleeping.
type recordingWait struct {
	delays []time.Duration
}

func (r *recordingWait) wait(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

// flakyProbe fails with err until the given attempt number.
type flakyProbe struct {
	invocations int
	succeedOn   int
	err         error
}

func (p *flakyProbe) probe(context.Context) error {
	p.invocations++
	if p.succeedOn > 0 && p.invocations >= p.succeedOn {
		return nil
	}
	if p.err != nil {
		return p.err
	}
	return &pgconn.PgError{Code: "08006", Message: "connection failure"}
}

func newTestExecutor(maxAttempts int, wait time.Duration, rw *recordingWait) *Executor {
	return NewExecutor(NewPostgreSQLErrorClassifier(), NewFixedInterval(maxAttempts, wait)).
		WithWaitFunc(rw.wait)
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	rw := &recordingWait{}
	p := &flakyProbe{succeedOn: 1}

	err := newTestExecutor(15, 2*time.Second, rw).Execute(context.Background(), p.probe)

	require.NoError(t, err)
	assert.Equal(t, 1, p.invocations)
	assert.Empty(t, rw.delays)
}

func TestExecutor_SucceedsOnAttemptK(t *testing.T) {
	for _, k := range []int{2, 7, 15} {
		rw := &recordingWait{}
		p := &flakyProbe{succeedOn: k}

		err := newTestExecutor(15, 2*time.Second, rw).Execute(context.Background(), p.probe)

		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, k, p.invocations, "k=%d", k)
		assert.Len(t, rw.delays, k-1, "k=%d", k)
	}
}

func TestExecutor_NeverSucceeds(t *testing.T) {
	rw := &recordingWait{}
	p := &flakyProbe{}

	err := newTestExecutor(15, 2*time.Second, rw).Execute(context.Background(), p.probe)

	require.Error(t, err)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 15, exhausted.Attempts)
	assert.Equal(t, 15, p.invocations)

	require.Len(t, rw.delays, 14)
	for _, d := range rw.delays {
		assert.Equal(t, 2*time.Second, d)
	}

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr, "last error stays in the chain")
}

func TestExecutor_FatalErrorNoRetry(t *testing.T) {
	rw := &recordingWait{}
	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	p := &flakyProbe{err: fatal}

	err := newTestExecutor(15, time.Second, rw).Execute(context.Background(), p.probe)

	assert.Same(t, fatal, err)
	assert.Equal(t, 1, p.invocations)
	assert.Empty(t, rw.delays)
}

func TestExecutor_TransientThenFatal(t *testing.T) {
	rw := &recordingWait{}
	transient := &pgconn.PgError{Code: "57P03", Message: "the database system is starting up"}
	fatal := errors.New("relation does not exist")

	invocations := 0
	op := func(context.Context) error {
		invocations++
		if invocations < 3 {
			return transient
		}
		return fatal
	}

	err := newTestExecutor(10, time.Millisecond, rw).Execute(context.Background(), op)

	assert.Equal(t, fatal, err)
	assert.Equal(t, 3, invocations)
	assert.Len(t, rw.delays, 2)
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	rw := &recordingWait{}
	var attempts []int
	var maxes []int

	executor := newTestExecutor(4, 2*time.Second, rw).
		WithOnRetry(func(attempt, maxAttempts int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
			maxes = append(maxes, maxAttempts)
			assert.Error(t, err)
			assert.Equal(t, 2*time.Second, delay)
		})

	p := &flakyProbe{}
	err := executor.Execute(context.Background(), p.probe)

	require.Error(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, []int{4, 4, 4}, maxes)
}

func TestExecutor_WithOnRetryDoesNotMutateReceiver(t *testing.T) {
	base := NewExecutor(NewPostgreSQLErrorClassifier(), NewFixedInterval(2, 0))
	_ = base.WithOnRetry(func(int, int, error, time.Duration) {
		t.Fatal("callback leaked into the original executor")
	})

	rw := &recordingWait{}
	p := &flakyProbe{}
	_ = base.WithWaitFunc(rw.wait).Execute(context.Background(), p.probe)
}

func TestExecutor_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	executor := NewExecutor(NewPostgreSQLErrorClassifier(), NewFixedInterval(10, time.Hour)).
		WithOnRetry(func(int, int, error, time.Duration) { cancel() })

	p := &flakyProbe{}
	err := executor.Execute(ctx, p.probe)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, p.invocations)
}

func TestExecutor_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &flakyProbe{succeedOn: 1}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), NewFixedInterval(3, 0)).Execute(ctx, p.probe)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.invocations)
}

func TestExecutor_RealTimerWaits(t *testing.T) {
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), NewFixedInterval(3, 5*time.Millisecond))
	p := &flakyProbe{}

	start := time.Now()
	err := executor.Execute(context.Background(), p.probe)

	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, NewFixedInterval(1, 0)) })
	assert.Panics(t, func() { NewExecutor(NewPostgreSQLErrorClassifier(), nil) })
}

func TestFixedInterval(t *testing.T) {
	f := NewFixedInterval(15, 2*time.Second)
	assert.Equal(t, 15, f.MaxAttempts())
	assert.Equal(t, 2*time.Second, f.NextDelay(1))
	assert.Equal(t, 2*time.Second, f.NextDelay(14))
	assert.Equal(t, 2*time.Second, f.Interval())

	assert.Equal(t, 1, NewFixedInterval(0, time.Second).MaxAttempts())
	assert.Equal(t, time.Duration(0), NewFixedInterval(3, -time.Second).Interval())
}

func TestExhaustedError_Message(t *testing.T) {
	err := &ExhaustedError{Attempts: 15, Err: errors.New("connection refused")}
	assert.Equal(t, "gave up after 15 attempts: connection refused", err.Error())
}
