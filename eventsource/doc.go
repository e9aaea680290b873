// Package eventsource turns a PostgreSQL events table into an observable.Observable.
//
// Every subscription to a stream runs one SELECT over the events table (columns event_type,
// occurred_at, payload, metadata, sequence_number) and emits one StoredEvent per row in
// sequence_number order. The producer checks for cancellation before fetching each row,
// so a consumer that unsubscribes from inside its Next handler stops the read immediately.
// Query, scan and iteration failures are delivered as Error notifications; the database
// rows are closed exactly once by the subscription's teardown.
//
// Supported database connections: pgxpool.Pool, sql.DB, sqlx.DB.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	source, _ := eventsource.NewSourceFromPGXPool(pool, eventsource.WithLogger(slog.Default()))
//
//	filter := eventsource.BuildFilter().
//		AnyEventTypeOf("BookCopyLentToReader", "BookCopyReturnedByReader").
//		AnyPredicateOf(eventsource.P("BookID", bookID)).
//		FromSequenceNumber(lastSeen).
//		Finalize()
//
//	stream, _ := source.Stream(ctx, filter)
//	stream.Subscribe(observable.Handlers[eventsource.StoredEvent, error]{
//		Next:  func(e eventsource.StoredEvent) { project(e) },
//		Error: func(err error) { log.Println(err) },
//	})
package eventsource
