package core

import (
	"sort"
	"time"
)

type (
	// CategoryTotal is the summed amount for one category plus its share of
	// the overall total, in percent.
	CategoryTotal struct {
		Category Category
		Total    Money
		Percent  float64
	}

	// MonthlyTotal is the summed amount for one calendar month. Anchor is
	// the first day of that month and is the only value used for ordering;
	// Label is derived from it for display.
	MonthlyTotal struct {
		Anchor time.Time
		Label  string
		Total  Money
	}
)

// RunningTotal sums every amount in the sequence. An empty sequence sums
// to zero. Negative amounts are summed like any other.
func RunningTotal(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}

// CategoryTotals groups the sequence by category, folding missing or
// unrecognized categories into Other, and sums amounts per group. Rows are
// ordered descending by total; equal totals keep first-encountered order.
//
// Percent is each group's share of the running total, or 0 for every row
// when the running total is zero.
func CategoryTotals(txs []Transaction) []CategoryTotal {
	sums := make(map[Category]int64)
	var order []Category
	for _, t := range txs {
		c := NormalizeCategory(string(t.Category))
		if _, seen := sums[c]; !seen {
			order = append(order, c)
		}
		sums[c] += t.Amount.Cents
	}

	overall := RunningTotal(txs).Cents
	rows := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		row := CategoryTotal{Category: c, Total: Money{Cents: sums[c]}}
		if overall != 0 {
			row.Percent = float64(sums[c]) / float64(overall) * 100
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.Cents > rows[j].Total.Cents
	})
	return rows
}

// MonthlyTotals groups the sequence by calendar year and month and sums
// amounts per group. Rows come back in chronological order of the month
// anchor, never by label, so December 2024 sorts before January 2025.
func MonthlyTotals(txs []Transaction) []MonthlyTotal {
	type key struct {
		year  int
		month time.Month
	}
	sums := make(map[key]int64)
	for _, t := range txs {
		k := key{year: t.Date.Year(), month: t.Date.Month()}
		sums[k] += t.Amount.Cents
	}

	rows := make([]MonthlyTotal, 0, len(sums))
	for k, cents := range sums {
		anchor := time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC)
		rows = append(rows, MonthlyTotal{
			Anchor: anchor,
			Label:  anchor.Format("Jan 2006"),
			Total:  Money{Cents: cents},
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Anchor.Before(rows[j].Anchor)
	})
	return rows
}

// Recent returns at most n transactions ordered descending by date. The
// sort is stable, so records sharing a date keep their server-provided
// relative order. The input slice is never modified.
func Recent(txs []Transaction, n int) []Transaction {
	if n <= 0 || len(txs) == 0 {
		return nil
	}
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
