package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/internal/source"
	pgstore "github.com/vvka-141/transitload/internal/store/postgres"
)

func newPostgresCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postgres",
		Short: "Replace public.raw_trips with the trips CSV",
		Long: `Reads the trips CSV, waits for PostgreSQL, then drops and recreates
public.raw_trips and bulk-copies every row in a single transaction.

Connection settings: PG_HOST, PG_PORT, PG_DB, PG_USER, PG_PASSWORD,
PG_SSLMODE and PG_AUTH_METHOD (password or aws-iam).`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostgres(cmd, flags)
		},
	}
	cmd.Flags().String("csv", "", "Trips CSV (default from config)")
	return cmd
}

func runPostgres(cmd *cobra.Command, flags *globalFlags) error {
	r, err := newRun(cmd, flags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	path := csvPath(cmd, r.cfg.Postgres.CSV)

	trips, err := source.ReadAll[dataset.Trip](ctx, path, dataset.TripColumns)
	if err != nil {
		return err
	}
	r.logger.Verbose("Read %d trips from %s", len(trips), path)

	r.logger.Info("Connecting to PostgreSQL...")
	conn, err := pgstore.Connect(ctx, r.cfg.Postgres, r.cfg.AWS.Region, r.executor(retry.NewPostgreSQLErrorClassifier()), r.logger)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	n, err := pgstore.NewTripLoader(r.logger).Load(ctx, conn, trips)
	if err != nil {
		return err
	}
	r.logger.Info("Loaded %d trips from %s into %s.", n, path, pgstore.TableName())
	return nil
}
