package logging

import (
	"fmt"
	"sync"
)

// RecordingLogger keeps every formatted message in memory so tests can
// assert on progress output. Verbose messages are recorded too.
type RecordingLogger struct {
	mu    sync.Mutex
	lines []string
}

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.record("[VERBOSE] "+format, args)
}

func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.record(format, args)
}

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.record("[ERROR] "+format, args)
}

// Lines returns a copy of the recorded messages in arrival order.
func (l *RecordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *RecordingLogger) record(format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	l.lines = append(l.lines, msg)
	l.mu.Unlock()
}
