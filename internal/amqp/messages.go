package amqp

import (
	"encoding/json"
	"time"

	"outgo/internal/core"
)

// EventKind names the transaction lifecycle events published to the queue.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventDeleted EventKind = "deleted"
)

// TransactionEventMessage carries the full transaction payload so consumers
// never need read access to the record store.
type TransactionEventMessage struct {
	Kind        EventKind        `json:"kind"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewTransactionEvent creates an event message stamped with the current time.
func NewTransactionEvent(kind EventKind, tx core.Transaction) *TransactionEventMessage {
	return &TransactionEventMessage{
		Kind:        kind,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON creates a message from JSON bytes
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != EventCreated && msg.Kind != EventDeleted {
		return nil, ErrUnknownEventKind
	}
	return &msg, nil
}
