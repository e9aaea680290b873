package eventsource

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// StoredEvent is one row of the events table as emitted by a stream.
//
// It is built on scalars so the client code stays in charge of its domain event types.
// Use DecodePayload to unmarshal the payload into one of them.
type StoredEvent struct {
	EventType      string
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
	SequenceNumber uint64
}

// BuildStoredEvent is a factory method for StoredEvent.
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildStoredEvent(
	eventType string,
	occurredAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
	sequenceNumber uint64,
) (StoredEvent, error) {

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return StoredEvent{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return StoredEvent{}, ErrInvalidMetadataJSON
	}

	return StoredEvent{
		EventType:      eventType,
		OccurredAt:     occurredAt,
		PayloadJSON:    payloadJSON,
		MetadataJSON:   metadataJSON,
		SequenceNumber: sequenceNumber,
	}, nil
}

// DecodePayload unmarshals the payload of event into a new P.
func DecodePayload[P any](event StoredEvent) (P, error) {
	var payload P

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(event.PayloadJSON, &payload); err != nil {
		return payload, errors.Join(ErrDecodingPayloadFailed, err)
	}

	return payload, nil
}
