// Package source reads a course CSV into typed records.
//
// The header is checked against the columns the destination expects before
// a single row is decoded, so a loader that reads through this package never
// issues a write for a file it cannot fully map.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/vvka-141/transitload/pkg/transitload"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MissingColumnsError lists expected columns absent from a CSV header or a
// destination table.
type MissingColumnsError struct {
	// Where names the side that lacks the columns, e.g. "CSV" or
	// "table transit.raw_events".
	Where   string
	Missing []string
	// Found lists the columns that were present, when known.
	Found []string
}

func (e *MissingColumnsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is missing these columns:\n  - %s", e.Where, strings.Join(e.Missing, "\n  - "))
	if len(e.Found) > 0 {
		fmt.Fprintf(&b, "\n\n%s columns found:\n  - %s", e.Where, strings.Join(e.Found, "\n  - "))
	}
	return b.String()
}

func (e *MissingColumnsError) Unwrap() error {
	return transitload.ErrSchemaMismatch
}

// Missing returns the entries of expected not present in have, in expected order.
func Missing(expected, have []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, c := range have {
		present[c] = struct{}{}
	}
	var missing []string
	for _, c := range expected {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Open opens path for reading. A missing file wraps transitload.ErrInputNotFound.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("CSV not found at %s: %w", path, transitload.ErrInputNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Reader decodes records of one dataset from a CSV stream.
type Reader struct {
	dec    *csvutil.Decoder
	header []string
	rows   int
}

// NewReader reads the header from r and checks it against expected.
func NewReader(r io.Reader, expected []string) (*Reader, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec, err := csvutil.NewDecoder(csv.NewReader(br))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("CSV has no header row: %w", transitload.ErrSchemaMismatch)
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	header := dec.Header()
	if missing := Missing(expected, header); len(missing) > 0 {
		return nil, &MissingColumnsError{Where: "CSV", Missing: missing}
	}

	dec.DisallowMissingColumns = true
	return &Reader{dec: dec, header: header}, nil
}

// Rows returns the number of rows decoded so far.
func (r *Reader) Rows() int {
	return r.rows
}

// Header returns the CSV header as read, extra columns included.
func (r *Reader) Header() []string {
	return r.header
}

// Next decodes the next row into v. It returns io.EOF after the last row.
func (r *Reader) Next(v any) error {
	if err := r.dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("CSV data row %d: %w", r.rows+1, err)
	}
	r.rows++
	return nil
}

// ReadAll opens path, validates its header against expected and decodes every
// row into a T. The context is checked between rows.
func ReadAll[T any](ctx context.Context, path string, expected []string) ([]T, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewReader(f, expected)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []T
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec T
		if err := r.Next(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, rec)
	}
}
