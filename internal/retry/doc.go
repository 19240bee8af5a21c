// Package retry provides the bounded connection-wait loop every loader runs
// before touching its target store.
//
// An Executor pairs an ErrorClassifier, which decides whether a failure is
// worth another attempt, with a BackoffStrategy, which decides how many
// attempts are made and how long to pause between them.
//
// # Example Usage
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewFixedInterval(15, 2*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return conn.Ping(ctx)
//	})
//
// # Error Classification
//
// PostgreSQLErrorClassifier, CassandraErrorClassifier and Neo4jErrorClassifier
// treat "server not up yet" conditions as transient: refused or reset
// connections, DNS hiccups, driver-level no-host errors, and server-reported
// transient codes. Authentication failures and syntax errors stop the loop
// immediately.
package retry
