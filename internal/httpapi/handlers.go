package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"outgo/internal/core"
	"outgo/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleList serves GET /api/transactions: the full collection ordered
// descending by date. Responses are cached until the next mutation.
func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	if txs, ok := a.listCache.Get(listCacheKey); ok {
		writeJSON(w, http.StatusOK, txs)
		return
	}

	txs, err := a.svc.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	a.listCache.Set(listCacheKey, txs)
	writeJSON(w, http.StatusOK, txs)
}

// handleCreate serves POST /api/transactions. Missing amount or date is the
// only 400; everything else the store accepts.
func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft core.TransactionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := a.svc.Create(r.Context(), draft)
	if err != nil {
		if service.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, "Amount and date are required")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add transaction")
		return
	}

	a.listCache.Delete(listCacheKey)
	writeJSON(w, http.StatusCreated, tx)
}

// handleDelete serves DELETE /api/transactions/{id}. Unknown ids still get
// a 200 acknowledgement; callers cannot tell the difference.
func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := a.svc.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "transaction_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	a.listCache.Delete(listCacheKey)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

// handleHealth performs basic liveness check
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(a.uptime).String(),
	})
}
