package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"outgo/internal/core"
	"outgo/internal/storage"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed record store.
type Repository struct {
	db *sql.DB
}

var _ storage.TransactionStore = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert persists the draft, assigning the record its ID. A zero date
// defaults to the insert instant; the category is folded into the enum.
func (r *Repository) Insert(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	draft = draft.Normalized()
	if draft.Date.IsZero() {
		draft.Date = core.Date{Time: time.Now().UTC()}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount_cents, date, description, category) VALUES (?, ?, ?, ?)`,
		draft.Amount.Cents,
		draft.Date.UTC().Format(time.RFC3339),
		draft.Description,
		string(draft.Category),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read assigned id: %w", err)
	}

	tx := core.Transaction{
		ID:          strconv.FormatInt(id, 10),
		Amount:      draft.Amount,
		Date:        draft.Date,
		Description: draft.Description,
		Category:    draft.Category,
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return tx, nil
}

// List returns all transactions ordered descending by date, with the
// assigned id as a stable tiebreak for records sharing a date.
func (r *Repository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, date, description, category
		 FROM transactions
		 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		var (
			id       int64
			cents    int64
			dateStr  string
			desc     string
			category string
		)
		if err := rows.Scan(&id, &cents, &dateStr, &desc, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		txs = append(txs, core.Transaction{
			ID:          strconv.FormatInt(id, 10),
			Amount:      core.Money{Cents: cents},
			Date:        date,
			Description: desc,
			Category:    core.NormalizeCategory(category),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

// Delete removes the record by id. Unknown and malformed ids are treated
// as already deleted.
func (r *Repository) Delete(ctx context.Context, id string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.WarnContext(ctx, "Delete called with malformed id, treating as absent", "id", id)
		return nil
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, numericID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}
