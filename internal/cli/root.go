package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/transitload/internal/config"
	"github.com/vvka-141/transitload/pkg/transitload"
)

const longHelp = `transitload seeds the course databases with the Vancouver transit datasets.

Each loader reads its CSV, checks the header, waits for the database to accept
connections and then writes the rows:

  postgres   trips  -> public.raw_trips (dropped and recreated, bulk COPY)
  cassandra  events -> <keyspace>.<table> (created if absent, row inserts)
  neo4j      edges  -> typed nodes and relationships (batched MERGE)

Settings come from transitload.yaml, a .env file, the environment and flags,
later sources winning.

Exit Codes:
  0  - Success
  1  - General error (load failed)
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database never accepted a connection
  14 - CSV file not found
  15 - CSV or table is missing expected columns`

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	maxRetries int
	wait       string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&globalFlags{})
}

func newRootCommand(flags *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "transitload",
		Short:         "Load the transit course datasets into Postgres, Cassandra and Neo4j",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML settings file (default ./"+config.ConfigFileName+" if present)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	pf.IntVar(&flags.maxRetries, "max-retries", 0, "Connection attempts before giving up")
	pf.StringVar(&flags.wait, "wait", "", "Pause between connection attempts, e.g. 2s")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w\n\nRun '%s --help' for usage.", transitload.ErrUsage, err, cmd.CommandPath())
	})

	root.AddCommand(
		newPostgresCmd(flags),
		newCassandraCmd(flags),
		newNeo4jCmd(flags),
		newAWSEnvCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s takes no arguments, received %q", transitload.ErrUsage, cmd.CommandPath(), args)
	}
	return nil
}
