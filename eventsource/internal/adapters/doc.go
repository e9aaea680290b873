// Package adapters wraps pgxpool.Pool, sql.DB and sqlx.DB behind one read-only DBAdapter,
// so a Source streams rows the same way regardless of the connection type.
package adapters
