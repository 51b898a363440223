// Package history persists a bounded trail of job records, their parameters
// and terminal outcomes, in a SQLite database under the log directory.
package history
