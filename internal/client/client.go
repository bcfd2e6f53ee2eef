// Package client talks to the transaction API and keeps a local view of
// the collection that stays responsive while requests are in flight.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outgo/internal/core"
)

// Client is a thin JSON client for the transaction API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient allows callers to supply their own transport.
func NewWithHTTPClient(baseURL string, httpc *http.Client) *Client {
	c := New(baseURL)
	if httpc != nil {
		c.httpc = httpc
	}
	return c
}

// List fetches the full collection, ordered descending by date.
func (c *Client) List(ctx context.Context) ([]core.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/transactions", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	var txs []core.Transaction
	if err := c.do(req, http.StatusOK, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Create submits a draft and returns the stored record with its assigned id.
func (c *Client) Create(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("encode transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transactions", bytes.NewReader(body))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var tx core.Transaction
	if err := c.do(req, http.StatusCreated, &tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Delete removes the record with the given id. The API acknowledges
// unknown ids the same way, so this only fails on transport errors.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/transactions/"+id, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	return c.do(req, http.StatusOK, nil)
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, apiError(resp))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// apiError extracts the error message from a failed response, falling back
// to the HTTP status when the body is not the usual {"error": ...} shape.
func apiError(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
