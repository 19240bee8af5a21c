package cli

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/retry"
	"github.com/vvka-141/transitload/internal/source"
	graphstore "github.com/vvka-141/transitload/internal/store/neo4j"
)

func newNeo4jCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "neo4j",
		Short: "Merge the graph edges CSV into Neo4j",
		Long: `Reads the graph edges CSV, waits for Neo4j, creates an id uniqueness
constraint per node label and merges nodes and relationships in batches.

Node labels and relationship types come from from_node_type, to_node_type
and relationship; characters outside [A-Za-z0-9_] become '_'.

Connection settings: NEO4J_URI, NEO4J_USER and NEO4J_PASSWORD.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNeo4j(cmd, flags)
		},
	}
	cmd.Flags().String("csv", "", "Graph edges CSV (default from config)")
	return cmd
}

func runNeo4j(cmd *cobra.Command, flags *globalFlags) error {
	r, err := newRun(cmd, flags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := r.cfg.Neo4j
	path := csvPath(cmd, cfg.CSV)

	edges, err := source.ReadAll[dataset.Edge](ctx, path, dataset.EdgeColumns)
	if err != nil {
		return err
	}
	r.logger.Verbose("Read %d edges from %s", len(edges), path)

	driver, err := graphstore.Connect(ctx, cfg, r.executor(retry.NewNeo4jErrorClassifier()), r.logger)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	n, err := graphstore.NewEdgeLoader(cfg.BatchSize, r.logger).Load(ctx, graphstore.NewRunner(session), edges)
	if err != nil {
		return err
	}
	r.logger.Info("Loaded %d edges from %s", n, path)
	return nil
}
