package client

import (
	"context"
	"fmt"
	"sync"

	"outgo/internal/core"
)

// API is the surface the cache needs from the transaction API.
type API interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// Snapshot is a point-in-time view of the cached collection.
type Snapshot struct {
	Transactions []core.Transaction
	Loading      bool
	Err          error
}

// Cache holds the client-side copy of the transaction collection. Reads are
// served locally; mutations update the local copy immediately and reconcile
// with the API in the background of the caller's flow.
//
// Fetches carry monotonically increasing tokens. A response whose token is
// older than one already applied is discarded, so out-of-order completions
// can never roll the view backwards.
type Cache struct {
	api API

	mu       sync.Mutex
	txs      []core.Transaction
	loading  bool
	err      error
	fetchSeq uint64
	applied  uint64
	tmpSeq   uint64
}

// NewCache creates an empty cache backed by the given API.
func NewCache(api API) *Cache {
	return &Cache{api: api}
}

// Snapshot returns the current view. The slice is a copy; callers may keep it.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	txs := make([]core.Transaction, len(c.txs))
	copy(txs, c.txs)
	return Snapshot{Transactions: txs, Loading: c.loading, Err: c.err}
}

// Refresh fetches the collection and replaces the local copy. On failure the
// previous copy is kept so the caller still has data to show, and the error
// is recorded in the snapshot as well as returned.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	token := c.fetchSeq
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	txs, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token <= c.applied {
		// A newer fetch already landed; this response is stale.
		return err
	}
	c.applied = token

	if token == c.fetchSeq {
		c.loading = false
	}

	if err != nil {
		c.err = err
		return err
	}
	c.err = nil
	c.txs = txs
	return nil
}

// CreateOptimistic validates the draft locally, prepends a provisional record
// and submits the draft. On success the provisional record is replaced in
// place by the stored one; on failure it is retracted and the view returns
// to its previous state.
func (c *Cache) CreateOptimistic(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	draft = draft.Normalized()
	if err := draft.ValidateLocal(); err != nil {
		return core.Transaction{}, err
	}

	c.mu.Lock()
	c.tmpSeq++
	provisional := core.Transaction{
		ID:          fmt.Sprintf("tmp-%d", c.tmpSeq),
		Amount:      draft.Amount,
		Date:        draft.Date,
		Description: draft.Description,
		Category:    draft.Category,
	}
	c.txs = append([]core.Transaction{provisional}, c.txs...)
	c.mu.Unlock()

	stored, err := c.api.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.removeLocked(provisional.ID)
		c.err = err
		return core.Transaction{}, err
	}

	for i := range c.txs {
		if c.txs[i].ID == provisional.ID {
			c.txs[i] = stored
			break
		}
	}
	// If the provisional record is gone a refresh has taken over; the
	// stored record is already (or about to be) in the fetched copy.
	return stored, nil
}

// DeleteConfirmed removes the record with the given id and refreshes the
// local copy from the API.
func (c *Cache) DeleteConfirmed(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return err
	}
	return c.Refresh(ctx)
}

func (c *Cache) removeLocked(id string) {
	for i := range c.txs {
		if c.txs[i].ID == id {
			c.txs = append(c.txs[:i], c.txs[i+1:]...)
			return
		}
	}
}
