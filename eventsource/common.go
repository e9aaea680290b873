package eventsource

import "errors"

var ErrNilDatabaseConnection = errors.New("database connection is nil")
var ErrEmptyEventsTableName = errors.New("events table name must not be empty")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingEventsFailed = errors.New("querying events failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrIteratingRowsFailed = errors.New("iterating db rows failed")
var ErrBuildingStoredEventFailed = errors.New("building stored event failed")
var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
var ErrDecodingPayloadFailed = errors.New("decoding payload failed")
