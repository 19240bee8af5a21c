package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/internal/source"
	cqlstore "github.com/vvka-141/transitload/internal/store/cassandra"
)

func newCassandraCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cassandra",
		Short: "Insert the events CSV into Cassandra",
		Long: `Reads the events CSV, waits for Cassandra, ensures the keyspace and table
exist, checks the table's columns and inserts every row at consistency ONE.

Connection settings: CASSANDRA_HOSTS (comma-separated), CASSANDRA_PORT,
CASSANDRA_KEYSPACE and CASSANDRA_TABLE.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCassandra(cmd, flags)
		},
	}
	cmd.Flags().String("csv", "", "Events CSV (default from config)")
	return cmd
}

func runCassandra(cmd *cobra.Command, flags *globalFlags) error {
	r, err := newRun(cmd, flags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := r.cfg.Cassandra
	path := csvPath(cmd, cfg.CSV)

	events, err := source.ReadAll[dataset.Event](ctx, path, dataset.EventColumns)
	if err != nil {
		return err
	}
	r.logger.Verbose("Read %d events from %s", len(events), path)

	session, err := cqlstore.Connect(ctx, cfg, r.executor(retry.NewCassandraErrorClassifier()), r.logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := cqlstore.EnsureSchema(ctx, session, cfg.Keyspace, cfg.Table, r.logger); err != nil {
		return err
	}
	_, err = cqlstore.NewEventLoader(cfg.Keyspace, cfg.Table, r.logger).Load(ctx, session, events)
	return err
}
