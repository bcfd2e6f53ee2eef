package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"outgo/internal/amqp"
	"outgo/internal/core"
	"outgo/internal/storage"
)

// TransactionService validates input, delegates to the record store and
// publishes lifecycle events. Event publication is best-effort: a broker
// failure never fails the request, since the store write already succeeded.
type TransactionService struct {
	store  storage.TransactionStore
	events *amqp.Client
}

func NewTransactionService(store storage.TransactionStore, events *amqp.Client) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
	}
}

// IsValidationError reports whether err is a client-input validation error
// rather than an infrastructure fault.
func IsValidationError(err error) bool {
	return errors.Is(err, core.ErrMissingAmount) || errors.Is(err, core.ErrMissingDate)
}

// Create validates the draft and persists it. Amount and date presence are
// the only enforced constraints; the category passes through for the store
// to normalize.
func (s *TransactionService) Create(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.Insert(ctx, draft)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.EventCreated, tx)
	return tx, nil
}

// List returns all transactions ordered descending by date.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Delete removes a transaction by id. Deleting an id that does not exist
// is still a success; callers cannot distinguish the two outcomes.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.EventDeleted, core.Transaction{ID: id})
	return nil
}

func (s *TransactionService) publish(ctx context.Context, kind amqp.EventKind, tx core.Transaction) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping", "event_kind", kind)
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(kind, tx)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"event_kind", kind,
			"transaction_id", tx.ID,
			"error", err)
	}
}

// Close closes the store and the event publisher.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
