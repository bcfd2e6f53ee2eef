// Command outgo-dash is a terminal dashboard over the transaction API.
//
//	outgo-dash summary            totals by category and month
//	outgo-dash recent             latest transactions
//	outgo-dash add -amount 12.50 -date 2025-03-15 [-desc ...] [-category ...]
//	outgo-dash rm <id>            delete after confirmation
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"outgo/internal/client"
	"outgo/internal/config"
	"outgo/internal/core"
	applog "outgo/internal/log"
)

func main() {
	_ = godotenv.Load()

	logConfig := applog.DefaultConfig()
	logConfig.Component = applog.ComponentClient
	logger := applog.New(logConfig)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cache := client.NewCache(client.New(cfg.APIBaseURL))

	cmd := "summary"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	var err error
	switch cmd {
	case "summary":
		err = runSummary(ctx, cache)
	case "recent":
		err = runRecent(ctx, cache, cfg.RecentLimit)
	case "add":
		err = runAdd(ctx, cache, args)
	case "rm":
		err = runRemove(ctx, cache, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected summary, recent, add or rm)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func runSummary(ctx context.Context, cache *client.Cache) error {
	if err := cache.Refresh(ctx); err != nil {
		return err
	}
	txs := cache.Snapshot().Transactions

	fmt.Printf("Total: %s (%d transactions)\n", formatMoney(core.RunningTotal(txs)), len(txs))

	if rows := core.CategoryTotals(txs); len(rows) > 0 {
		fmt.Println("\nBy category:")
		for _, row := range rows {
			fmt.Printf("  %-10s %12s  %5.1f%%\n", row.Category, formatMoney(row.Total), row.Percent)
		}
	}

	if rows := core.MonthlyTotals(txs); len(rows) > 0 {
		fmt.Println("\nBy month:")
		for _, row := range rows {
			fmt.Printf("  %-10s %12s\n", row.Label, formatMoney(row.Total))
		}
	}
	return nil
}

func runRecent(ctx context.Context, cache *client.Cache, limit int) error {
	if err := cache.Refresh(ctx); err != nil {
		return err
	}
	txs := core.Recent(cache.Snapshot().Transactions, limit)
	if len(txs) == 0 {
		fmt.Println("No transactions yet.")
		return nil
	}
	for _, tx := range txs {
		printTransaction(tx)
	}
	return nil
}

func runAdd(ctx context.Context, cache *client.Cache, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amount := fs.String("amount", "", "amount, e.g. 12.50")
	date := fs.String("date", "", "date, e.g. 2025-03-15 (default today)")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "category (Food, Transport, Shopping, Bills, Health, Other)")
	fs.Parse(args)

	cents, err := core.ParseAmountToCents(*amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	when := core.Date{Time: time.Now().UTC()}
	if *date != "" {
		when, err = core.ParseDate(*date)
		if err != nil {
			return err
		}
	}

	tx, err := cache.CreateOptimistic(ctx, core.TransactionDraft{
		Amount:      core.Money{Cents: cents},
		Date:        when,
		Description: *desc,
		Category:    core.Category(*category),
	})
	if err != nil {
		return err
	}

	fmt.Print("Added ")
	printTransaction(tx)
	return nil
}

func runRemove(ctx context.Context, cache *client.Cache, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <id>")
	}
	id := args[0]

	fmt.Printf("Delete transaction %s? [y/N] ", id)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := cache.DeleteConfirmed(ctx, id); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

func printTransaction(tx core.Transaction) {
	fmt.Printf("%-6s %s  %-10s %12s  %s\n",
		tx.ID,
		tx.Date.UTC().Format("2006-01-02"),
		tx.Category,
		formatMoney(tx.Amount),
		tx.Description)
}

func formatMoney(m core.Money) string {
	return fmt.Sprintf("%.2f", m.Float64())
}
