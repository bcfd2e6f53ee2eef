// Package worker consumes transaction lifecycle events and mirrors created
// records to the configured export backend.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"outgo/internal/amqp"
	"outgo/internal/export"
)

// ExportWorker appends each created transaction to the export ledger.
// Deletion events are acknowledged but not mirrored; the ledger is an
// append-only audit trail.
type ExportWorker struct {
	appender export.TransactionAppender
}

func NewExportWorker(appender export.TransactionAppender) *ExportWorker {
	return &ExportWorker{appender: appender}
}

// HandleEvent processes a single transaction event. Returning an error makes
// the consumer requeue the message for another attempt.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	switch msg.Kind {
	case amqp.EventCreated:
		ref, err := w.appender.Append(ctx, msg.Transaction)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				"transaction_id", msg.Transaction.ID,
				"error", err)
			return fmt.Errorf("export transaction %s: %w", msg.Transaction.ID, err)
		}
		slog.InfoContext(ctx, "Transaction exported",
			"transaction_id", msg.Transaction.ID,
			"sheet_ref", ref)
		return nil

	case amqp.EventDeleted:
		slog.InfoContext(ctx, "Transaction deleted upstream, ledger row kept",
			"transaction_id", msg.Transaction.ID)
		return nil

	default:
		// Unknown kinds are dropped rather than requeued; a redelivery
		// would fail the same way forever.
		slog.WarnContext(ctx, "Ignoring event of unknown kind", "event_kind", msg.Kind)
		return nil
	}
}

// Run subscribes to the transaction event queue and processes messages until
// the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, events *amqp.Client) error {
	slog.InfoContext(ctx, "Export worker starting")
	return events.ConsumeTransactionEvents(ctx, w.HandleEvent)
}
