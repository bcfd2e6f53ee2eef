// Package google appends transactions to a Google Sheets spreadsheet using
// service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"outgo/internal/core"
	"outgo/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.TransactionAppender = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet. Credentials come
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, tried in that order.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// Append writes one transaction as a row: id, date, description, amount,
// category. The returned reference is the range Sheets reports it wrote.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{
		tx.ID,
		tx.Date.UTC().Format(time.RFC3339),
		tx.Description,
		tx.Amount.Float64(),
		string(tx.Category),
	}

	rng := fmt.Sprintf("%s!A:E", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}
