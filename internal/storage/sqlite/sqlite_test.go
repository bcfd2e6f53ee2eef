package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"outgo/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "outgo_test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAssignsIDAndDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Insert(ctx, core.TransactionDraft{
		Amount: core.Money{Cents: 10000},
		Date:   core.NewDate(2025, 1, 1),
		// category omitted
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if tx.ID == "" {
		t.Fatal("store must assign an id")
	}
	if tx.Category != core.Other {
		t.Fatalf("omitted category should default to Other, got %q", tx.Category)
	}

	// Zero date defaults to the insert instant.
	defaulted, err := repo.Insert(ctx, core.TransactionDraft{Amount: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("Insert with zero date: %v", err)
	}
	if defaulted.Date.IsZero() {
		t.Fatal("zero date should default to now")
	}
	if defaulted.ID == tx.ID {
		t.Fatal("ids must be unique")
	}
}

func TestListOrderedByDateDesc(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []core.Date{
		core.NewDate(2025, 2, 1),
		core.NewDate(2025, 3, 15),
		core.NewDate(2025, 1, 10),
		core.NewDate(2025, 3, 15), // duplicate date, inserted later
	}
	for i, d := range dates {
		if _, err := repo.Insert(ctx, core.TransactionDraft{
			Amount:   core.Money{Cents: int64(100 * (i + 1))},
			Date:     d,
			Category: core.Food,
		}); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	txs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date.Time) {
			t.Fatalf("list not descending at %d", i)
		}
	}
	// Same-date records: later insert first (id desc).
	if txs[0].Amount.Cents != 400 || txs[1].Amount.Cents != 200 {
		t.Fatalf("same-date tiebreak: got %d then %d cents", txs[0].Amount.Cents, txs[1].Amount.Cents)
	}
}

func TestCreateListRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, core.TransactionDraft{
		Amount:      core.Money{Cents: 50000},
		Date:        core.NewDate(2025, 3, 15),
		Description: "Groceries",
		Category:    core.Food,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	txs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(txs))
	}
	got := txs[0]
	if got.ID != created.ID || got.Amount.Cents != 50000 || got.Category != core.Food || got.Description != "Groceries" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	totals := core.CategoryTotals(txs)
	if len(totals) != 1 || totals[0].Category != core.Food || totals[0].Total.Cents != 50000 {
		t.Fatalf("category totals after create: %+v", totals)
	}
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 3; i++ {
		tx, err := repo.Insert(ctx, core.TransactionDraft{
			Amount:   core.Money{Cents: int64(i * 1000)},
			Date:     core.NewDate(2025, 3, i),
			Category: core.Bills,
		})
		if err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		ids = append(ids, tx.ID)
	}

	before, _ := repo.List(ctx)
	totalBefore := core.RunningTotal(before)

	if err := repo.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	after, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 records after delete, got %d", len(after))
	}
	for _, tx := range after {
		if tx.ID == ids[1] {
			t.Fatal("deleted record still listed")
		}
	}
	if core.RunningTotal(after).Cents != totalBefore.Cents-2000 {
		t.Fatalf("running total should drop by the deleted amount: %d -> %d",
			totalBefore.Cents, core.RunningTotal(after).Cents)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Delete(ctx, "12345"); err != nil {
		t.Fatalf("deleting an unknown id must succeed: %v", err)
	}
	if err := repo.Delete(ctx, "not-a-number"); err != nil {
		t.Fatalf("deleting a malformed id must succeed: %v", err)
	}
}
