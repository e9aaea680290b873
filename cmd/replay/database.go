package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/dynamic-streams-observable-go/eventsource"
)

const (
	driverPostgres     = "postgres"
	maxConnections     = 4
	maxConnLifetime    = time.Hour
	connectTimeout     = 5 * time.Second
	logMsgAdapterInUse = "using database adapter"
)

// openSource connects with the configured adapter and returns the Source with a function releasing the connection.
func openSource(ctx context.Context, cfg Config, options ...eventsource.Option) (eventsource.Source, func(), error) {
	switch cfg.Adapter {
	case adapterSQL:
		db, err := sql.Open(driverPostgres, cfg.DSN)
		if err != nil {
			return eventsource.Source{}, nil, err
		}

		db.SetMaxOpenConns(maxConnections)
		db.SetConnMaxLifetime(maxConnLifetime)

		if pingErr := db.PingContext(ctx); pingErr != nil {
			_ = db.Close()
			return eventsource.Source{}, nil, pingErr
		}

		source, err := eventsource.NewSourceFromSQLDB(db, options...)

		return withCloser(source, err, func() { _ = db.Close() })

	case adapterSQLX:
		db, err := sqlx.ConnectContext(ctx, driverPostgres, cfg.DSN)
		if err != nil {
			return eventsource.Source{}, nil, err
		}

		db.SetMaxOpenConns(maxConnections)
		db.SetConnMaxLifetime(maxConnLifetime)

		source, err := eventsource.NewSourceFromSQLX(db, options...)

		return withCloser(source, err, func() { _ = db.Close() })

	default:
		poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return eventsource.Source{}, nil, err
		}

		poolConfig.MaxConns = maxConnections
		poolConfig.MaxConnLifetime = maxConnLifetime
		poolConfig.ConnConfig.ConnectTimeout = connectTimeout

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return eventsource.Source{}, nil, err
		}

		if pingErr := pool.Ping(ctx); pingErr != nil {
			pool.Close()
			return eventsource.Source{}, nil, pingErr
		}

		source, err := eventsource.NewSourceFromPGXPool(pool, options...)

		return withCloser(source, err, pool.Close)
	}
}

// withCloser hands closeDB to the caller on success and calls it right away when the Source could not be built.
func withCloser(source eventsource.Source, err error, closeDB func()) (eventsource.Source, func(), error) {
	if err != nil {
		closeDB()
		return eventsource.Source{}, nil, err
	}

	return source, closeDB, nil
}
