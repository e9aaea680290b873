package eventsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/eventsource/internal/adapters"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

const (
	defaultEventTableName = "events"
	streamNamePrefix      = "eventsource."
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colSequenceNumber     = "sequence_number"
	dialectPostgres       = "postgres"
	containsJsonb         = "? @> ?::jsonb"
)

// Source creates observable event streams over one PostgreSQL events table.
// A Source is immutable once built and safe for concurrent use.
type Source struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           observable.Logger
	contextualLogger observable.ContextualLogger
	metricsCollector observable.MetricsCollector
	tracingCollector observable.TracingCollector
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber int64
}

// NewSourceFromPGXPool creates a new Source using a pgx Pool with optional configuration.
func NewSourceFromPGXPool(db *pgxpool.Pool, options ...Option) (Source, error) {
	if db == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewPGXAdapter(db), options...)
}

// NewSourceFromPGXPoolWithReplica creates a new Source that streams from a read replica.
func NewSourceFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Source, error) {
	if db == nil || replica == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewSourceFromSQLDB creates a new Source using a sql.DB with optional configuration.
func NewSourceFromSQLDB(db *sql.DB, options ...Option) (Source, error) {
	if db == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewSQLAdapter(db), options...)
}

// NewSourceFromSQLX creates a new Source using a sqlx.DB with optional configuration.
func NewSourceFromSQLX(db *sqlx.DB, options ...Option) (Source, error) {
	if db == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewSQLXAdapter(db), options...)
}

func newSource(db adapters.DBAdapter, options ...Option) (Source, error) {
	s := Source{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Source{}, err
		}
	}

	return s, nil
}

// Stream returns an Observable of the events matching filter, in sequence_number order.
//
// The query is built once; it runs on every subscription, with ctx.
// Cancelling ctx aborts a running query, which surfaces as an Error notification.
func (s Source) Stream(ctx context.Context, filter Filter) (observable.Observable[StoredEvent, error], error) {
	sqlQuery, buildQueryErr := s.buildSelectQuery(filter)
	if buildQueryErr != nil {
		s.logError(ctx, logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())

		return observable.Observable[StoredEvent, error]{}, buildQueryErr
	}

	subscribe := func(observer *observable.Observer[StoredEvent, error]) observable.Teardown {
		return s.produce(ctx, sqlQuery, observer)
	}

	return observable.New(subscribe, s.observableOptions()...)
}

// produce runs one subscription: query, emit rows until exhausted or unsubscribed, terminate.
func (s Source) produce(ctx context.Context, sqlQuery string, observer *observable.Observer[StoredEvent, error]) observable.Teardown {
	if observer.IsUnsubscribed() {
		return nil
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, time.Since(start))

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		s.recordQuery(ctx, statusError, time.Since(start))
		observer.Error(errors.Join(ErrQueryingEventsFailed, queryErr))

		return nil
	}

	teardown := s.rowsCloser(ctx, rows)
	eventCount := 0
	result := queryResultRow{}

	for !observer.IsUnsubscribed() && rows.Next() {
		if scanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber); scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, logAttrError, scanErr.Error())
			s.recordQuery(ctx, statusError, time.Since(start))
			observer.Error(errors.Join(ErrScanningDBRowFailed, scanErr))

			return teardown
		}

		event, buildErr := BuildStoredEvent(result.eventType, result.occurredAt, result.payload, result.metadata, uint64(result.sequenceNumber))
		if buildErr != nil {
			s.logError(ctx, logMsgBuildStoredEventFailed, logAttrError, buildErr.Error(), logAttrEventType, result.eventType)
			s.recordQuery(ctx, statusError, time.Since(start))
			observer.Error(errors.Join(ErrBuildingStoredEventFailed, buildErr))

			return teardown
		}

		eventCount++
		observer.Next(event)
	}

	if observer.IsUnsubscribed() {
		s.recordQuery(ctx, statusCanceled, time.Since(start))
		return teardown
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(ctx, logMsgIteratingRowsFailed, logAttrError, rowsErr.Error())
		s.recordQuery(ctx, statusError, time.Since(start))
		observer.Error(errors.Join(ErrIteratingRowsFailed, rowsErr))

		return teardown
	}

	duration := time.Since(start)
	s.recordQuery(ctx, statusSuccess, duration)
	s.logInfo(ctx, logMsgStreamCompleted,
		logAttrTable, s.eventTableName,
		logAttrEventCount, eventCount,
		logAttrDurationMS, toMilliseconds(duration),
	)

	observer.Complete()

	return teardown
}

// rowsCloser returns the subscription's Teardown, which closes rows at most once.
func (s Source) rowsCloser(ctx context.Context, rows adapters.DBRows) observable.Teardown {
	var once sync.Once

	return func() {
		once.Do(func() {
			if closeErr := rows.Close(); closeErr != nil {
				s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
			}
		})
	}
}

func (s Source) buildSelectQuery(filter Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	whereExpressions, buildErr := whereExpressionsFor(filter)
	if buildErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, buildErr)
	}

	if len(whereExpressions) > 0 {
		selectStmt = selectStmt.Where(whereExpressions...)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// whereExpressionsFor returns the conditions of filter; goqu ANDs them.
func whereExpressionsFor(filter Filter) ([]goqu.Expression, error) {
	expressions := make([]goqu.Expression, 0)

	if len(filter.EventTypes()) > 0 {
		expressions = append(expressions, goqu.C(colEventType).In(filter.EventTypes()))
	}

	if len(filter.Predicates()) > 0 {
		predicateExpressions := make([]goqu.Expression, 0, len(filter.Predicates()))

		for _, predicate := range filter.Predicates() {
			contained, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(
				map[string]string{predicate.Key(): predicate.Val()},
			)
			if err != nil {
				return nil, fmt.Errorf("predicate %q: %w", predicate.Key(), err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, goqu.I(colPayload), contained))
		}

		if filter.AllPredicatesMustMatch() {
			expressions = append(expressions, goqu.And(predicateExpressions...))
		} else {
			expressions = append(expressions, goqu.Or(predicateExpressions...))
		}
	}

	if !filter.OccurredFrom().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	if filter.AfterSequenceNumber() > 0 {
		expressions = append(expressions, goqu.C(colSequenceNumber).Gt(filter.AfterSequenceNumber()))
	}

	return expressions, nil
}

func (s Source) observableOptions() []observable.Option {
	options := []observable.Option{observable.WithName(streamNamePrefix + s.eventTableName)}

	if s.logger != nil {
		options = append(options, observable.WithLogger(s.logger))
	}

	if s.contextualLogger != nil {
		options = append(options, observable.WithContextualLogger(s.contextualLogger))
	}

	if s.metricsCollector != nil {
		options = append(options, observable.WithMetrics(s.metricsCollector))
	}

	if s.tracingCollector != nil {
		options = append(options, observable.WithTracing(s.tracingCollector))
	}

	return options
}
