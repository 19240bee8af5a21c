package transitload

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", fmt.Errorf("unknown flag --x: %w", ErrUsage), ExitUsageError},
		{"config", fmt.Errorf("bad port: %w", ErrInvalidConfig), ExitConfigError},
		{"connection", fmt.Errorf("postgres: %w", ErrConnectionFailed), ExitConnectionError},
		{"input", fmt.Errorf("trips.csv: %w", ErrInputNotFound), ExitInputMissing},
		{"schema", fmt.Errorf("missing trip_id: %w", ErrSchemaMismatch), ExitSchemaMismatch},
		{"refused text", errors.New("dial tcp: connection refused"), ExitConnectionError},
		{"load", fmt.Errorf("copy: %w", ErrLoadFailed), ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
