package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"outgo/internal/core"
)

type fakeAPI struct {
	listFn   func(ctx context.Context) ([]core.Transaction, error)
	createFn func(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error)
	deleteFn func(ctx context.Context, id string) error

	listCalls   int32
	createCalls int32
}

func (f *fakeAPI) List(ctx context.Context) ([]core.Transaction, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeAPI) Create(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	atomic.AddInt32(&f.createCalls, 1)
	if f.createFn == nil {
		return core.Transaction{}, errors.New("create not configured")
	}
	return f.createFn(ctx, draft)
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func tx(id string, cents int64, date core.Date) core.Transaction {
	return core.Transaction{ID: id, Amount: core.Money{Cents: cents}, Date: date, Category: core.Other}
}

func TestRefreshPopulatesSnapshot(t *testing.T) {
	want := []core.Transaction{
		tx("2", 2000, core.NewDate(2025, 3, 2)),
		tx("1", 1000, core.NewDate(2025, 3, 1)),
	}
	api := &fakeAPI{listFn: func(context.Context) ([]core.Transaction, error) { return want, nil }}
	c := NewCache(api)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := c.Snapshot()
	if snap.Loading || snap.Err != nil {
		t.Fatalf("snapshot after refresh: loading=%v err=%v", snap.Loading, snap.Err)
	}
	if len(snap.Transactions) != 2 || snap.Transactions[0].ID != "2" {
		t.Fatalf("snapshot transactions: %+v", snap.Transactions)
	}

	// The snapshot is a copy; mutating it must not leak into the cache.
	snap.Transactions[0].ID = "mutated"
	if got := c.Snapshot().Transactions[0].ID; got != "2" {
		t.Fatalf("cache copy mutated through snapshot: %q", got)
	}
}

func TestRefreshKeepsStaleDataOnFailure(t *testing.T) {
	seeded := []core.Transaction{tx("1", 1000, core.NewDate(2025, 3, 1))}
	fail := false
	api := &fakeAPI{listFn: func(context.Context) ([]core.Transaction, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return seeded, nil
	}}
	c := NewCache(api)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	fail = true
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	snap := c.Snapshot()
	if snap.Err == nil {
		t.Fatal("snapshot should carry the fetch error")
	}
	if snap.Loading {
		t.Fatal("loading must clear after the failed fetch completes")
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "1" {
		t.Fatalf("stale data should survive a failed refresh: %+v", snap.Transactions)
	}

	// A later successful refresh clears the recorded error.
	fail = false
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("recovery refresh: %v", err)
	}
	if snap := c.Snapshot(); snap.Err != nil {
		t.Fatalf("error should clear on success: %v", snap.Err)
	}
}

func TestRefreshDiscardsOutOfOrderResponse(t *testing.T) {
	older := []core.Transaction{tx("old", 100, core.NewDate(2025, 1, 1))}
	newer := []core.Transaction{tx("new", 200, core.NewDate(2025, 2, 1))}

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls int32
	api := &fakeAPI{listFn: func(context.Context) ([]core.Transaction, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return older, nil
		}
		return newer, nil
	}}
	c := NewCache(api)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(context.Background())
	}()

	<-firstStarted
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	close(releaseFirst)
	wg.Wait()

	snap := c.Snapshot()
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "new" {
		t.Fatalf("late first response must not overwrite the newer one: %+v", snap.Transactions)
	}
	if snap.Loading {
		t.Fatal("loading must be clear once the newest fetch has completed")
	}
}

func TestCreateOptimisticReplacesInPlace(t *testing.T) {
	stored := tx("42", 1000, core.NewDate(2025, 3, 1))
	createStarted := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{createFn: func(context.Context, core.TransactionDraft) (core.Transaction, error) {
		close(createStarted)
		<-release
		return stored, nil
	}}
	c := NewCache(api)

	var wg sync.WaitGroup
	wg.Add(1)
	var got core.Transaction
	var createErr error
	go func() {
		defer wg.Done()
		got, createErr = c.CreateOptimistic(context.Background(), core.TransactionDraft{
			Amount: core.Money{Cents: 1000},
			Date:   core.NewDate(2025, 3, 1),
		})
	}()

	<-createStarted
	snap := c.Snapshot()
	if len(snap.Transactions) != 1 || !strings.HasPrefix(snap.Transactions[0].ID, "tmp-") {
		t.Fatalf("in-flight create should show a provisional record: %+v", snap.Transactions)
	}

	close(release)
	wg.Wait()

	if createErr != nil {
		t.Fatalf("CreateOptimistic: %v", createErr)
	}
	if got.ID != "42" {
		t.Fatalf("returned record id = %q, want 42", got.ID)
	}

	snap = c.Snapshot()
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "42" {
		t.Fatalf("provisional record should be replaced in place: %+v", snap.Transactions)
	}
}

func TestCreateOptimisticRetractsOnFailure(t *testing.T) {
	api := &fakeAPI{
		listFn: func(context.Context) ([]core.Transaction, error) {
			return []core.Transaction{tx("1", 500, core.NewDate(2025, 2, 1))}, nil
		},
		createFn: func(context.Context, core.TransactionDraft) (core.Transaction, error) {
			return core.Transaction{}, errors.New("boom")
		},
	}
	c := NewCache(api)
	c.Refresh(context.Background())

	_, err := c.CreateOptimistic(context.Background(), core.TransactionDraft{
		Amount: core.Money{Cents: 1000},
		Date:   core.NewDate(2025, 3, 1),
	})
	if err == nil {
		t.Fatal("expected create error")
	}

	snap := c.Snapshot()
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "1" {
		t.Fatalf("failed create must retract the provisional record: %+v", snap.Transactions)
	}
	if snap.Err == nil {
		t.Fatal("snapshot should carry the create error")
	}
}

func TestCreateOptimisticRejectsLocally(t *testing.T) {
	api := &fakeAPI{}
	c := NewCache(api)

	cases := []core.TransactionDraft{
		{Amount: core.Money{Cents: -500}, Date: core.NewDate(2025, 3, 1)},
		{Amount: core.Money{Cents: 0}, Date: core.NewDate(2025, 3, 1)},
		{Amount: core.Money{Cents: 1000}},
	}
	for _, draft := range cases {
		if _, err := c.CreateOptimistic(context.Background(), draft); err == nil {
			t.Fatalf("draft %+v should fail local validation", draft)
		}
	}

	if atomic.LoadInt32(&api.createCalls) != 0 {
		t.Fatal("locally rejected drafts must not reach the API")
	}
	if snap := c.Snapshot(); len(snap.Transactions) != 0 {
		t.Fatalf("locally rejected drafts must not leave records behind: %+v", snap.Transactions)
	}
}

func TestDeleteConfirmedRefreshes(t *testing.T) {
	remaining := []core.Transaction{tx("2", 2000, core.NewDate(2025, 3, 2))}
	var deleted string
	api := &fakeAPI{
		listFn:   func(context.Context) ([]core.Transaction, error) { return remaining, nil },
		deleteFn: func(_ context.Context, id string) error { deleted = id; return nil },
	}
	c := NewCache(api)

	if err := c.DeleteConfirmed(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteConfirmed: %v", err)
	}
	if deleted != "1" {
		t.Fatalf("deleted id = %q, want 1", deleted)
	}
	if calls := atomic.LoadInt32(&api.listCalls); calls != 1 {
		t.Fatalf("delete should trigger exactly one refresh, got %d", calls)
	}
	if snap := c.Snapshot(); len(snap.Transactions) != 1 || snap.Transactions[0].ID != "2" {
		t.Fatalf("view after delete: %+v", snap.Transactions)
	}
}

func TestDeleteConfirmedSurfacesAPIError(t *testing.T) {
	api := &fakeAPI{deleteFn: func(context.Context, string) error { return errors.New("boom") }}
	c := NewCache(api)

	if err := c.DeleteConfirmed(context.Background(), "1"); err == nil {
		t.Fatal("expected delete error")
	}
	if calls := atomic.LoadInt32(&api.listCalls); calls != 0 {
		t.Fatalf("failed delete must not refresh, got %d list calls", calls)
	}
	if snap := c.Snapshot(); snap.Err == nil {
		t.Fatal("snapshot should carry the delete error")
	}
}
