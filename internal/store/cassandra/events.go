package cassandra

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gocql/gocql"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/source"
	"github.com/vvka-141/transitload/pkg/transitload"
)

const progressEvery = 500

// eventSchema must list dataset.EventColumns in the same order.
var eventSchema = []struct {
	name    string
	cqlType string
}{
	{"event_id", "text PRIMARY KEY"},
	{"session_id", "text"},
	{"mode", "text"},
	{"event_type", "text"},
	{"event_ts", "timestamp"},
	{"device_type", "text"},
	{"os", "text"},
	{"route_id", "text"},
	{"vehicle_id", "text"},
	{"from_station_id", "text"},
	{"to_station_id", "text"},
	{"latitude", "double"},
	{"longitude", "double"},
	{"speed_kmh", "double"},
	{"dwell_seconds", "int"},
	{"door_open", "boolean"},
	{"passenger_delta", "int"},
	{"load_factor", "double"},
	{"validator_id", "text"},
	{"inspector_id", "text"},
	{"incident_code", "text"},
	{"inspection_outcome", "text"},
	{"city", "text"},
	{"country", "text"},
	{"province", "text"},
}

// EnsureSchema creates the keyspace and the events table if absent. Both
// names must already be valid CQL identifiers.
func EnsureSchema(ctx context.Context, s Session, keyspace, table string, logger transitload.Logger) error {
	ks := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': '1'}", keyspace)
	if err := s.Exec(ctx, ks, gocql.One); err != nil {
		return fmt.Errorf("%w: create keyspace %s: %w", transitload.ErrLoadFailed, keyspace, err)
	}
	if err := s.Exec(ctx, createTableCQL(keyspace, table), gocql.One); err != nil {
		return fmt.Errorf("%w: create table %s.%s: %w", transitload.ErrLoadFailed, keyspace, table, err)
	}
	logger.Info("Ensured keyspace.table: %s.%s", keyspace, table)
	return nil
}

func createTableCQL(keyspace, table string) string {
	defs := make([]string, len(eventSchema))
	for i, c := range eventSchema {
		defs[i] = "  " + c.name + " " + c.cqlType
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (\n%s\n)", keyspace, table, strings.Join(defs, ",\n"))
}

func insertCQL(keyspace, table string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(dataset.EventColumns)), ", ")
	return fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)",
		keyspace, table, strings.Join(dataset.EventColumns, ", "), marks)
}

// EventLoader inserts events into keyspace.table.
type EventLoader struct {
	keyspace string
	table    string
	logger   transitload.Logger
}

func NewEventLoader(keyspace, table string, logger transitload.Logger) *EventLoader {
	return &EventLoader{keyspace: keyspace, table: table, logger: logger}
}

// Load checks the table has every event column, then inserts the events one
// by one at consistency ONE. Rows written before a failure stay written.
func (l *EventLoader) Load(ctx context.Context, s Session, events []dataset.Event) (int, error) {
	have, err := s.Columns(ctx, l.keyspace, l.table)
	if err != nil {
		return 0, fmt.Errorf("%w: read columns of %s.%s: %w", transitload.ErrLoadFailed, l.keyspace, l.table, err)
	}
	have = slices.Sorted(slices.Values(have))
	if missing := source.Missing(dataset.EventColumns, have); len(missing) > 0 {
		return 0, &source.MissingColumnsError{
			Where:   fmt.Sprintf("table %s.%s", l.keyspace, l.table),
			Missing: missing,
			Found:   have,
		}
	}

	stmt := insertCQL(l.keyspace, l.table)
	total := 0
	for i := range events {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if err := s.Exec(ctx, stmt, gocql.One, events[i].Values()...); err != nil {
			return total, fmt.Errorf("%w: insert event %d: %w", transitload.ErrLoadFailed, i+1, err)
		}
		total++
		if total%progressEvery == 0 {
			l.logger.Info("Inserted %d …", total)
		}
	}

	l.logger.Info("Inserted %d rows into %s.%s", total, l.keyspace, l.table)
	return total, nil
}
