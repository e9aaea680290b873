package eventsource

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/eventsource/internal/adapters"
)

type fakeRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber int64
}

type fakeRows struct {
	rows       []fakeRow
	cursor     int
	scanErrAt  int
	iterErr    error
	closeErr   error
	nextCalls  int
	closeCalls int
}

func (r *fakeRows) Next() bool {
	r.nextCalls++
	if r.cursor >= len(r.rows) {
		return false
	}

	r.cursor++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErrAt > 0 && r.cursor == r.scanErrAt {
		return errors.New("scan failed")
	}

	row := r.rows[r.cursor-1]
	*dest[0].(*string) = row.eventType
	*dest[1].(*time.Time) = row.occurredAt
	*dest[2].(*[]byte) = row.payload
	*dest[3].(*[]byte) = row.metadata
	*dest[4].(*int64) = row.sequenceNumber

	return nil
}

func (r *fakeRows) Err() error {
	return r.iterErr
}

func (r *fakeRows) Close() error {
	r.closeCalls++
	return r.closeErr
}

type fakeDB struct {
	rows     *fakeRows
	queryErr error
	queries  []string
}

func (db *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	db.queries = append(db.queries, query)
	if db.queryErr != nil {
		return nil, db.queryErr
	}

	return db.rows, nil
}

func fixtureRows(n int) []fakeRow {
	rows := make([]fakeRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, fakeRow{
			eventType:      "BookCopyLentToReader",
			occurredAt:     time.Date(2025, 1, i, 12, 0, 0, 0, time.UTC),
			payload:        []byte(`{"BookID":"b-1","ReaderID":"r-1"}`),
			metadata:       []byte(`{}`),
			sequenceNumber: int64(i),
		})
	}

	return rows
}
