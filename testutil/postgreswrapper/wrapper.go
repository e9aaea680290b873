// Package postgreswrapper sets up eventsource.Source instances against a real PostgreSQL database for integration tests.
//
// The database is taken from DATABASE_URL, the connection type from DB_ADAPTER (pgx, sql, sqlx).
// Tests using it are skipped when DATABASE_URL is not set.
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/eventsource"
)

const (
	envDatabaseURL = "DATABASE_URL"
	envDBAdapter   = "DB_ADAPTER"
	typePGX        = "pgx"
	typeSQL        = "sql"
	typeSQLX       = "sqlx"
	driverPostgres = "postgres"
	createTableDDL = `
		CREATE TABLE IF NOT EXISTS %[1]s (
			sequence_number BIGSERIAL PRIMARY KEY,
			occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
			event_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			metadata JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_event_type ON %[1]s(event_type);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_payload_gin ON %[1]s USING gin(payload jsonb_path_ops)`
)

// Wrapper abstracts over the supported connection types.
type Wrapper interface {
	NewSource(options ...eventsource.Option) (eventsource.Source, error)
	Exec(ctx context.Context, query string) error
	Close()
}

// PGXPoolWrapper wraps a pgxpool.Pool.
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
}

func (w *PGXPoolWrapper) NewSource(options ...eventsource.Option) (eventsource.Source, error) {
	return eventsource.NewSourceFromPGXPool(w.pool, options...)
}

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps a sql.DB.
type SQLDBWrapper struct {
	db *sql.DB
}

func (w *SQLDBWrapper) NewSource(options ...eventsource.Option) (eventsource.Source, error) {
	return eventsource.NewSourceFromSQLDB(w.db, options...)
}

func (w *SQLDBWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close()
}

// SQLXWrapper wraps a sqlx.DB.
type SQLXWrapper struct {
	db *sqlx.DB
}

func (w *SQLXWrapper) NewSource(options ...eventsource.Option) (eventsource.Source, error) {
	return eventsource.NewSourceFromSQLX(w.db, options...)
}

func (w *SQLXWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close()
}

// CreateWrapper connects to DATABASE_URL with the connection type from DB_ADAPTER and closes it on test cleanup.
func CreateWrapper(t testing.TB) Wrapper {
	t.Helper()

	dsn := os.Getenv(envDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", envDatabaseURL)
	}

	var wrapper Wrapper

	switch adapter := strings.ToLower(os.Getenv(envDBAdapter)); adapter {
	case typePGX, "":
		pool, err := pgxpool.New(context.Background(), dsn)
		require.NoError(t, err, "error connecting to DB pool in test setup")
		wrapper = &PGXPoolWrapper{pool: pool}

	case typeSQL:
		db, err := sql.Open(driverPostgres, dsn)
		require.NoError(t, err, "error opening DB in test setup")
		wrapper = &SQLDBWrapper{db: db}

	case typeSQLX:
		db, err := sqlx.Open(driverPostgres, dsn)
		require.NoError(t, err, "error opening DB in test setup")
		wrapper = &SQLXWrapper{db: db}

	default:
		t.Fatalf("unsupported %s: %s", envDBAdapter, adapter)
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}

// CreateEventsTable creates the events table and its indexes if they do not exist and truncates it.
func CreateEventsTable(t testing.TB, wrapper Wrapper, tableName string) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, wrapper.Exec(ctx, fmt.Sprintf(createTableDDL, tableName)), "error creating the events table")
	CleanUp(t, wrapper, tableName)
}

// CleanUp truncates the events table and resets its sequence.
func CleanUp(t testing.TB, wrapper Wrapper, tableName string) {
	t.Helper()

	err := wrapper.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", tableName))
	require.NoError(t, err, "error cleaning up the events table")
}

// Fixture is an event row to insert.
type Fixture struct {
	EventType  string
	OccurredAt time.Time
	Payload    string
}

// AppendFixtures inserts fixtures in order; they get the sequence numbers 1..n after CreateEventsTable.
func AppendFixtures(t testing.TB, wrapper Wrapper, tableName string, fixtures ...Fixture) {
	t.Helper()

	rows := make([]goqu.Record, 0, len(fixtures))
	for _, fixture := range fixtures {
		rows = append(rows, goqu.Record{
			"event_type":  fixture.EventType,
			"occurred_at": fixture.OccurredAt,
			"payload":     goqu.L("?::jsonb", fixture.Payload),
			"metadata":    goqu.L("'{}'::jsonb"),
		})
	}

	insertSQL, _, err := goqu.Dialect(driverPostgres).Insert(tableName).Rows(rows).ToSQL()
	require.NoError(t, err, "error building the fixture insert")
	require.NoError(t, wrapper.Exec(context.Background(), insertSQL), "error inserting fixtures")
}
