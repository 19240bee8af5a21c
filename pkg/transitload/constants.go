package transitload

import "time"

// Exit codes for semantic error classification.
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Target store never became reachable
	ExitInputMissing    = 14 // CSV file not found
	ExitSchemaMismatch  = 15 // CSV or destination lacks expected columns
)

const (
	// DefaultMaxRetries is the number of connection attempts before giving up.
	DefaultMaxRetries = 15

	// DefaultWait is the fixed pause between connection attempts.
	DefaultWait = 2 * time.Second

	// DefaultBatchSize is the graph merge batch size and the progress interval
	// for row-by-row inserts.
	DefaultBatchSize = 500

	// DefaultLabel replaces empty node labels and relationship types.
	DefaultLabel = "Node"
)

// Fixed input locations, relative to the working directory.
const (
	DefaultTripsCSV  = "./data/van_transit_trips_postgres.csv"
	DefaultEventsCSV = "./data/van_transit_events_cassandra.csv"
	DefaultEdgesCSV  = "./data/van_transit_graph_edges_neo4j.csv"
)
