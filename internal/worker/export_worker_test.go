package worker

import (
	"context"
	"errors"
	"testing"

	"outgo/internal/amqp"
	"outgo/internal/core"
	"outgo/internal/export/memory"
)

func event(kind amqp.EventKind, tx core.Transaction) *amqp.TransactionEventMessage {
	return amqp.NewTransactionEvent(kind, tx)
}

func TestHandleEventCreated(t *testing.T) {
	rec := memory.New()
	w := NewExportWorker(rec)

	tx := core.Transaction{
		ID:          "7",
		Amount:      core.Money{Cents: 1500},
		Date:        core.NewDate(2025, 5, 10),
		Description: "Pharmacy",
		Category:    core.Health,
	}
	if err := w.HandleEvent(context.Background(), event(amqp.EventCreated, tx)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	rows := rec.Rows()
	if len(rows) != 1 || rows[0].ID != "7" || rows[0].Amount.Cents != 1500 {
		t.Fatalf("exported rows: %+v", rows)
	}
}

func TestHandleEventDeletedIsSkipped(t *testing.T) {
	rec := memory.New()
	w := NewExportWorker(rec)

	msg := event(amqp.EventDeleted, core.Transaction{ID: "7"})
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(rec.Rows()) != 0 {
		t.Fatal("delete events must not touch the ledger")
	}
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleEventReturnsErrorForRequeue(t *testing.T) {
	w := NewExportWorker(failingAppender{})

	err := w.HandleEvent(context.Background(), event(amqp.EventCreated, core.Transaction{ID: "1"}))
	if err == nil {
		t.Fatal("append failures must propagate so the message is requeued")
	}
}

func TestHandleEventUnknownKind(t *testing.T) {
	rec := memory.New()
	w := NewExportWorker(rec)

	msg := &amqp.TransactionEventMessage{Kind: amqp.EventKind("transaction.renamed")}
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("unknown kinds must be dropped, not requeued: %v", err)
	}
	if len(rec.Rows()) != 0 {
		t.Fatal("unknown kinds must not touch the ledger")
	}
}
