package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/transitload/internal/coerce"
	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/logging"
	"github.com/vvka-141/transitload/internal/source"
	"github.com/vvka-141/transitload/pkg/transitload"
)

type fakeRow struct {
	cols []string
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]string)) = r.cols
	return nil
}

// fakeTx records statements. Methods not overridden panic through the nil
// embedded interface.
type fakeTx struct {
	pgx.Tx
	execs      []string
	tableCols  []string
	copyErr    error
	copied     [][]any
	copyCols   []string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (tx *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return fakeRow{cols: tx.tableCols}
}

func (tx *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	if tx.copyErr != nil {
		return 0, tx.copyErr
	}
	tx.copyCols = cols
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return 0, err
		}
		tx.copied = append(tx.copied, vals)
	}
	return int64(len(tx.copied)), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (db fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return db.tx, nil
}

func sampleTrip() dataset.Trip {
	board := time.Date(2025, 3, 4, 8, 15, 0, 0, time.UTC)
	return dataset.Trip{
		TripID:        coerce.String{V: "T1", Valid: true},
		RiderID:       coerce.String{V: "R1", Valid: true},
		BoardDatetime: coerce.Time{V: board, Valid: true},
		Transfers:     coerce.Int{V: 2, Valid: true},
		DistanceKM:    coerce.Decimal{V: "12.50", Valid: true},
		DiscountRate:  coerce.Decimal{V: "1e-1", Valid: true},
		OnTimeArrival: coerce.Bool{V: true, Valid: true},
	}
}

func TestTripSchemaMatchesDataset(t *testing.T) {
	require.Len(t, tripSchema, len(dataset.TripColumns))
	for i, c := range tripSchema {
		assert.Equal(t, dataset.TripColumns[i], c.name)
	}
}

func TestCreateTripsDDL(t *testing.T) {
	ddl := createTripsDDL()
	assert.True(t, strings.HasPrefix(ddl, `CREATE TABLE "public"."raw_trips" (`))
	assert.Contains(t, ddl, "discount_rate NUMERIC(5,3),")
	assert.Contains(t, ddl, "board_datetime TIMESTAMP,")
	assert.Contains(t, ddl, "polyline_stations TEXT\n)")
}

func TestTripLoader_Load(t *testing.T) {
	tx := &fakeTx{tableCols: dataset.TripColumns}
	logger := logging.NewRecordingLogger()

	n, err := NewTripLoader(logger).Load(context.Background(), fakeDB{tx}, []dataset.Trip{sampleTrip(), {}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	require.Len(t, tx.execs, 2)
	assert.Equal(t, `DROP TABLE IF EXISTS "public"."raw_trips"`, tx.execs[0])
	assert.True(t, strings.HasPrefix(tx.execs[1], "CREATE TABLE"))
	assert.Equal(t, dataset.TripColumns, tx.copyCols)
	assert.Contains(t, logger.Lines(), "Created table public.raw_trips.")

	first := tx.copied[0]
	assert.Equal(t, "T1", first[0])
	assert.Equal(t, int32(2), first[12])
	assert.Equal(t, true, first[20])

	dist, ok := first[14].(pgtype.Numeric)
	require.True(t, ok)
	assert.True(t, dist.Valid)
	f, err := dist.Float64Value()
	require.NoError(t, err)
	assert.InDelta(t, 12.5, f.Float64, 1e-9)

	rate := first[16].(pgtype.Numeric)
	rf, err := rate.Float64Value()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, rf.Float64, 1e-9)

	empty := tx.copied[1]
	assert.Nil(t, empty[0])
	assert.False(t, empty[14].(pgtype.Numeric).Valid)
}

func TestTripLoader_TableMissingColumns(t *testing.T) {
	tx := &fakeTx{tableCols: dataset.TripColumns[:20]}

	_, err := NewTripLoader(logging.NewNullLogger()).Load(context.Background(), fakeDB{tx}, []dataset.Trip{sampleTrip()})
	require.Error(t, err)
	assert.ErrorIs(t, err, transitload.ErrSchemaMismatch)

	var mc *source.MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{"on_time_arrival", "service_disruption", "polyline_stations"}, mc.Missing)
	assert.Nil(t, tx.copied)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestTripLoader_CopyFailureRollsBack(t *testing.T) {
	tx := &fakeTx{tableCols: dataset.TripColumns, copyErr: errors.New("boom")}

	_, err := NewTripLoader(logging.NewNullLogger()).Load(context.Background(), fakeDB{tx}, []dataset.Trip{sampleTrip()})
	require.Error(t, err)
	assert.ErrorIs(t, err, transitload.ErrLoadFailed)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestTripLoader_BadDecimalFailsBeforeBegin(t *testing.T) {
	trip := sampleTrip()
	trip.DistanceKM = coerce.Decimal{V: "NaNish", Valid: true}
	tx := &fakeTx{tableCols: dataset.TripColumns}

	_, err := NewTripLoader(logging.NewNullLogger()).Load(context.Background(), fakeDB{tx}, []dataset.Trip{trip})
	require.Error(t, err)
	assert.Empty(t, tx.execs)
}

func TestPlainDecimal(t *testing.T) {
	assert.Equal(t, "12.50", plainDecimal("12.50"))
	assert.Equal(t, "0.1", plainDecimal("1e-1"))
	assert.Equal(t, "1500", plainDecimal("1.5E3"))
}
