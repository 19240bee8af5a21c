// Package logging provides concrete implementations of the transitload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted lines to stderr (or any io.Writer)
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
