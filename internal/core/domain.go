package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food      Category = "Food"
	Transport Category = "Transport"
	Shopping  Category = "Shopping"
	Bills     Category = "Bills"
	Health    Category = "Health"
	Other     Category = "Other"
)

type (
	// Category is one of the six enumerated spending tags. Anything else
	// folds into Other at ingestion time.
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a persisted record. The ID is assigned by the record
	// store exactly once, at creation, and is opaque to every other layer.
	Transaction struct {
		ID          string   `json:"_id"`
		Amount      Money    `json:"amount"`
		Date        Date     `json:"date"`
		Description string   `json:"description,omitempty"`
		Category    Category `json:"category"`
	}

	// TransactionDraft is the creation payload: a Transaction without an ID.
	TransactionDraft struct {
		Amount      Money    `json:"amount"`
		Date        Date     `json:"date"`
		Description string   `json:"description,omitempty"`
		Category    Category `json:"category,omitempty"`
	}
)

var (
	ErrMissingAmount     = errors.New("amount is required")
	ErrMissingDate       = errors.New("date is required")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Categories returns the six enumerated categories in their canonical order.
func Categories() []Category {
	return []Category{Food, Transport, Shopping, Bills, Health, Other}
}

// Valid reports whether c is one of the six enumerated values.
func (c Category) Valid() bool {
	switch c {
	case Food, Transport, Shopping, Bills, Health, Other:
		return true
	}
	return false
}

// NormalizeCategory maps free-form input to an enumerated category.
// Empty and unrecognized values become Other.
func NormalizeCategory(s string) Category {
	c := Category(strings.TrimSpace(s))
	if c.Valid() {
		return c
	}
	return Other
}

// Normalized returns the draft with its category folded into the enum.
func (d TransactionDraft) Normalized() TransactionDraft {
	d.Category = NormalizeCategory(string(d.Category))
	return d
}

// Validate applies the server-side creation rules: amount and date must be
// present. These are the only constraints the service enforces; a negative
// amount is storable.
func (d TransactionDraft) Validate() error {
	if d.Amount.Cents == 0 {
		return ErrMissingAmount
	}
	if d.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// ValidateLocal applies the stricter client-side rules checked before any
// network call: the amount must be strictly positive.
func (d TransactionDraft) ValidateLocal() error {
	if d.Amount.Cents <= 0 {
		return ErrNonPositiveAmount
	}
	if d.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// dateFormats are the accepted wire formats, tried in order.
var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or timestamp string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, errors.New("invalid date: " + s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
