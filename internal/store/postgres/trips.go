package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/source"
	"github.com/vvka-141/transitload/pkg/transitload"
)

const (
	tripsSchema = "public"
	tripsTable  = "raw_trips"
)

type column struct {
	name    string
	sqlType string
}

func (c column) numeric() bool {
	return strings.HasPrefix(c.sqlType, "NUMERIC")
}

// tripSchema must list dataset.TripColumns in the same order.
var tripSchema = []column{
	{"trip_id", "TEXT"},
	{"rider_id", "TEXT"},
	{"route_id", "TEXT"},
	{"mode", "TEXT"},
	{"origin_station_id", "TEXT"},
	{"destination_station_id", "TEXT"},
	{"board_datetime", "TIMESTAMP"},
	{"alight_datetime", "TIMESTAMP"},
	{"country", "TEXT"},
	{"province", "TEXT"},
	{"fare_class", "TEXT"},
	{"payment_method", "TEXT"},
	{"transfers", "INTEGER"},
	{"zones_charged", "INTEGER"},
	{"distance_km", "NUMERIC(10,2)"},
	{"base_fare_cad", "NUMERIC(12,2)"},
	{"discount_rate", "NUMERIC(5,3)"},
	{"discount_amount_cad", "NUMERIC(12,2)"},
	{"yvr_addfare_cad", "NUMERIC(12,2)"},
	{"total_fare_cad", "NUMERIC(12,2)"},
	{"on_time_arrival", "BOOLEAN"},
	{"service_disruption", "BOOLEAN"},
	{"polyline_stations", "TEXT"},
}

// TableName is the qualified destination of the trips load.
func TableName() string {
	return tripsSchema + "." + tripsTable
}

func createTripsDDL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", pgx.Identifier{tripsSchema, tripsTable}.Sanitize())
	for i, c := range tripSchema {
		fmt.Fprintf(&b, "  %s %s", c.name, c.sqlType)
		if i < len(tripSchema)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

const tableColumnsSQL = `
SELECT coalesce(array_agg(column_name::text ORDER BY ordinal_position), '{}')
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2`

// Beginner starts a transaction. *pgx.Conn satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripLoader replaces public.raw_trips with a set of trips.
type TripLoader struct {
	logger transitload.Logger
}

func NewTripLoader(logger transitload.Logger) *TripLoader {
	return &TripLoader{logger: logger}
}

// Load drops and recreates public.raw_trips, verifies its columns and copies
// trips into it, all in one transaction. Nothing is committed on failure.
func (l *TripLoader) Load(ctx context.Context, db Beginner, trips []dataset.Trip) (int64, error) {
	rows, err := copyRows(trips)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %w", transitload.ErrLoadFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ident := pgx.Identifier{tripsSchema, tripsTable}
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("%w: drop %s: %w", transitload.ErrLoadFailed, TableName(), err)
	}
	if _, err := tx.Exec(ctx, createTripsDDL()); err != nil {
		return 0, fmt.Errorf("%w: create %s: %w", transitload.ErrLoadFailed, TableName(), err)
	}
	l.logger.Info("Created table %s.", TableName())

	var have []string
	if err := tx.QueryRow(ctx, tableColumnsSQL, tripsSchema, tripsTable).Scan(&have); err != nil {
		return 0, fmt.Errorf("%w: read columns of %s: %w", transitload.ErrLoadFailed, TableName(), err)
	}
	if missing := source.Missing(dataset.TripColumns, have); len(missing) > 0 {
		return 0, &source.MissingColumnsError{Where: "table " + TableName(), Missing: missing, Found: have}
	}

	n, err := tx.CopyFrom(ctx, ident, dataset.TripColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("%w: copy into %s: %w", transitload.ErrLoadFailed, TableName(), err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", transitload.ErrLoadFailed, err)
	}
	l.logger.Verbose("Copied %d rows into %s", n, TableName())
	return n, nil
}

// copyRows converts trips to COPY rows. Decimal literals become
// pgtype.Numeric so the binary protocol can encode them.
func copyRows(trips []dataset.Trip) ([][]any, error) {
	rows := make([][]any, len(trips))
	for i := range trips {
		vals := trips[i].Values()
		for j, c := range tripSchema {
			if !c.numeric() {
				continue
			}
			var num pgtype.Numeric
			if lit, ok := vals[j].(string); ok {
				if err := num.Scan(plainDecimal(lit)); err != nil {
					return nil, fmt.Errorf("trip row %d column %s: %w", i+1, c.name, err)
				}
			}
			vals[j] = num
		}
		rows[i] = vals
	}
	return rows, nil
}

// plainDecimal rewrites exponent notation as a plain decimal literal.
func plainDecimal(lit string) string {
	if !strings.ContainsAny(lit, "eE") {
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
