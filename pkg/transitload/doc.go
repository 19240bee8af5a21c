// Package transitload holds the types shared by every loader: the logging and
// retry interfaces, sentinel errors with their exit codes, and the fixed
// defaults of the course setup.
package transitload
