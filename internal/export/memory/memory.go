// Package memory is an in-process TransactionAppender for tests and for
// running the worker without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"outgo/internal/core"
)

type Recorder struct {
	mu   sync.Mutex
	rows []core.Transaction
}

func New() *Recorder {
	return &Recorder{}
}

// Append stores the transaction and returns a synthetic row reference.
func (r *Recorder) Append(_ context.Context, tx core.Transaction) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, tx)
	return fmt.Sprintf("mem:%d", len(r.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (r *Recorder) Rows() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Transaction, len(r.rows))
	copy(out, r.rows)
	return out
}
