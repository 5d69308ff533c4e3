// Package database provides the session factory, transaction state machine,
// connection management, configuration loading, SQL error classification and
// bun query hooks (logging, slow queries, tracing, metrics) used by the
// repository package.
package database
