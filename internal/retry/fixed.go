package retry

import "time"

// FixedInterval waits the same duration between every pair of attempts.
type FixedInterval struct {
	maxAttempts int
	interval    time.Duration
}

// NewFixedInterval creates a strategy allowing maxAttempts attempts in total,
// separated by interval. maxAttempts below 1 is treated as 1.
func NewFixedInterval(maxAttempts int, interval time.Duration) *FixedInterval {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &FixedInterval{maxAttempts: maxAttempts, interval: interval}
}

// NextDelay returns the fixed interval regardless of attempt.
func (f *FixedInterval) NextDelay(int) time.Duration {
	return f.interval
}

// MaxAttempts returns the total number of attempts.
func (f *FixedInterval) MaxAttempts() int {
	return f.maxAttempts
}

// Interval returns the configured pause for tests and debugging.
func (f *FixedInterval) Interval() time.Duration {
	return f.interval
}
