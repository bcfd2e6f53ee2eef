// Package core provides the transaction domain model and the pure
// aggregation functions computed over it.
//
// This file contains parsing and JSON handling for monetary amounts.
// Amounts travel over the wire as plain JSON numbers but are held
// internally as integer cents to keep sums exact.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts a decimal string to signed cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Zero is a valid parse result; presence checks happen in
// validation, not here.
//
// Examples:
//
//	ParseAmountToCents("12.34")  -> 1234, nil
//	ParseAmountToCents("-3,5")   -> -350, nil
//	ParseAmountToCents("12.346") -> 1235, nil (rounds up)
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	// Exponent notation falls back to float parsing.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		cents := int64(math.Round(f * 100))
		if negative {
			cents = -cents
		}
		return cents, nil
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}

// Float64 returns the amount in whole currency units for display and
// percentage math. Use cents for anything that must stay exact.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount without a trailing fraction when it is whole.
func (m Money) String() string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10)
	}
	return strconv.FormatFloat(m.Float64(), 'f', 2, 64)
}

// MarshalJSON emits the amount as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number, or a numeric string for lenient
// clients. A missing field leaves the zero value, which validation treats
// as an absent amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	cents, err := ParseAmountToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
