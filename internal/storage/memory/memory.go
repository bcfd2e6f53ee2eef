package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"outgo/internal/core"
	"outgo/internal/storage"
)

// Store is an in-memory record store with the same contract as the SQLite
// repository. It backs the memory data backend and the tests.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []record
}

type record struct {
	seq int64
	tx  core.Transaction
}

var _ storage.TransactionStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Insert(_ context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	draft = draft.Normalized()
	if draft.Date.IsZero() {
		draft.Date = core.Date{Time: time.Now().UTC()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	tx := core.Transaction{
		ID:          strconv.FormatInt(s.nextID, 10),
		Amount:      draft.Amount,
		Date:        draft.Date,
		Description: draft.Description,
		Category:    draft.Category,
	}
	s.items = append(s.items, record{seq: s.nextID, tx: tx})
	return tx, nil
}

func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]record, len(s.items))
	copy(sorted, s.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].tx.Date.Equal(sorted[j].tx.Date.Time) {
			return sorted[i].tx.Date.After(sorted[j].tx.Date.Time)
		}
		return sorted[i].seq > sorted[j].seq
	})

	out := make([]core.Transaction, len(sorted))
	for i, r := range sorted {
		out[i] = r.tx
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.items {
		if r.tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	// Unknown id: already deleted as far as the caller is concerned.
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Len reports the current record count. Used by tests to assert that failed
// creations leave the store untouched.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
