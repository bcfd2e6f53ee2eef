package storage

import (
	"context"

	"outgo/internal/core"
)

// TransactionStore is the record store port: a durable collection of
// transactions reachable through insert, list-all-sorted and delete-by-id.
type TransactionStore interface {
	// Insert persists the draft and returns the stored record with its
	// assigned ID. The store supplies defaults for a zero date (the insert
	// instant) and a missing or unrecognized category (Other).
	Insert(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error)

	// List returns every transaction ordered descending by date. Records
	// sharing a date come back in a stable order across calls.
	List(ctx context.Context) ([]core.Transaction, error)

	// Delete removes the record with the given id. Deleting an unknown id
	// is a successful no-op.
	Delete(ctx context.Context, id string) error

	Close() error
}
