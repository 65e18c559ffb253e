// Package driver executes exql statements against a database.
//
// A Dialect describes how to reach a database server and which directives it
// needs: MySQL connects to the server and issues USE <database>; before every
// statement, SQLite keeps one file per database under a data directory.
//
// A Session is a scoped connection. It is opened for a single operation,
// owns one dedicated connection for its whole lifetime, and is closed before
// the operation returns. Statements executed on a Session commit immediately;
// Begin starts a transaction for callers that want several statements to be atomic.
package driver
