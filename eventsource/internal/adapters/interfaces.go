package adapters

import "context"

// DBAdapter runs the SELECT queries of a Source.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
}

// DBRows is a forward-only cursor over query results.
// Err reports the error, if any, that ended the iteration; Close must be safe to call after it.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
