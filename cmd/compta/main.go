package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"compta/internal/cli"
	"compta/internal/core"
	"compta/internal/ledger"
	"compta/internal/services"
)

const usage = `compta - personal finance ledger

Usage:
  compta add     -account A -type T -category C -desc D -amount M
  compta edit    -id N [-account A] [-type T] [-category C] [-desc D] [-amount M]
  compta delete  -id N
  compta list    [-type T] [-category C] [-search S]
  compta report  [-year Y] [-month M]
  compta budget  -category C -amount M
  compta export  -out FILE
  compta account -name NAME

Types and categories use their display labels (e.g. "Débit", "Nourriture").
`

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(cli.SetupLogger("info"))
	logger := cli.SetupLogger(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	store := cli.InitStore(ctx, logger, cfg)

	led := ledger.New()
	reports := services.NewReportService(led)
	svc := services.NewLedgerService(led, store, reports, logger.WithComponent("ledger"))
	defer svc.Close()

	if err := svc.Load(ctx); err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}

	mutated, err := run(os.Args[1], os.Args[2:], svc, reports)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if mutated {
		if err := svc.Save(ctx); err != nil {
			os.Exit(1)
		}
	}
}

func run(command string, args []string, svc *services.LedgerService, reports *services.ReportService) (mutated bool, err error) {
	switch command {
	case "add":
		return true, runAdd(args, svc)
	case "edit":
		return true, runEdit(args, svc)
	case "delete":
		return true, runDelete(args, svc)
	case "list":
		return false, runList(args, reports)
	case "report":
		return false, runReport(args, svc, reports)
	case "budget":
		return true, runBudget(args, svc)
	case "export":
		return false, runExport(args, svc)
	case "account":
		return true, runAccount(args, svc)
	default:
		fmt.Fprint(os.Stderr, usage)
		return false, fmt.Errorf("unknown command %q", command)
	}
}

func runAdd(args []string, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	account := fs.String("account", "", "account name")
	typeLabel := fs.String("type", core.Debit.Label(), "transaction type")
	catLabel := fs.String("category", core.General.Label(), "category")
	desc := fs.String("desc", "", "description")
	amountText := fs.String("amount", "", "amount")
	fs.Parse(args)

	dir, err := core.ParseDirectionLabel(*typeLabel)
	if err != nil {
		return err
	}
	cat, err := core.ParseCategoryLabel(*catLabel)
	if err != nil {
		return err
	}
	amount, err := core.ParseAmount(*amountText)
	if err != nil {
		return err
	}

	t, err := svc.AddTransaction(*account, dir, cat, *desc, amount)
	if err != nil {
		return err
	}
	fmt.Printf("added transaction %d (%s %s on %s)\n", t.ID, t.Direction.Label(), core.FormatCurrency(t.Amount), t.Account)
	return nil
}

func runEdit(args []string, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	account := fs.String("account", "", "account name")
	typeLabel := fs.String("type", "", "transaction type")
	catLabel := fs.String("category", "", "category")
	desc := fs.String("desc", "", "description")
	amountText := fs.String("amount", "", "amount")
	fs.Parse(args)

	// Unset flags keep the stored field values.
	var current core.Transaction
	found := false
	for _, t := range svc.Transactions() {
		if t.ID == *id {
			current, found = t, true
			break
		}
	}
	if !found {
		return core.ErrNotFound
	}

	if *account == "" {
		*account = current.Account
	}
	dir := current.Direction
	if *typeLabel != "" {
		var err error
		if dir, err = core.ParseDirectionLabel(*typeLabel); err != nil {
			return err
		}
	}
	cat := current.Category
	if *catLabel != "" {
		var err error
		if cat, err = core.ParseCategoryLabel(*catLabel); err != nil {
			return err
		}
	}
	if *desc == "" {
		*desc = current.Description
	}
	amount := current.Amount
	if *amountText != "" {
		var err error
		if amount, err = core.ParseAmount(*amountText); err != nil {
			return err
		}
	}

	if err := svc.EditTransaction(*id, *account, dir, cat, *desc, amount); err != nil {
		return err
	}
	fmt.Printf("edited transaction %d\n", *id)
	return nil
}

func runDelete(args []string, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	fs.Parse(args)

	if err := svc.DeleteTransaction(*id); err != nil {
		return err
	}
	fmt.Printf("deleted transaction %d\n", *id)
	return nil
}

func runList(args []string, reports *services.ReportService) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	typeLabel := fs.String("type", "", "filter by transaction type")
	catLabel := fs.String("category", "", "filter by category")
	search := fs.String("search", "", "case-insensitive search")
	fs.Parse(args)

	var criteria ledger.Criteria
	if *typeLabel != "" {
		dir, err := core.ParseDirectionLabel(*typeLabel)
		if err != nil {
			return err
		}
		criteria.Direction = &dir
	}
	if *catLabel != "" {
		cat, err := core.ParseCategoryLabel(*catLabel)
		if err != nil {
			return err
		}
		criteria.Category = &cat
	}
	criteria.Search = *search

	for _, t := range reports.Filter(criteria) {
		fmt.Printf("%4d  %s  %-10s %-8s %-12s %-30s %12s\n",
			t.ID, t.Date.Format("02/01/2006"), t.Account, t.Direction.Label(),
			t.Category.Label(), t.Description, core.FormatCurrency(t.Amount))
	}
	return nil
}

func runReport(args []string, svc *services.LedgerService, reports *services.ReportService) error {
	now := time.Now()
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "report year")
	month := fs.Int("month", int(now.Month()), "report month (1-12)")
	fs.Parse(args)

	totals := reports.Totals()
	fmt.Printf("Global balance: %s\n", core.FormatCurrency(svc.GlobalBalance()))
	fmt.Printf("Total credits:  %s\n", core.FormatCurrency(totals.Credit))
	fmt.Printf("Total debits:   %s\n\n", core.FormatCurrency(totals.Debit))

	fmt.Println("Account balances:")
	balances := svc.Balances()
	for _, name := range svc.Accounts() {
		fmt.Printf("  %-10s %12s\n", name, core.FormatCurrency(balances[name]))
	}

	ov := reports.MonthOverview(*year, *month)
	fmt.Printf("\nBudgets %02d/%d (spent %s):\n", ov.Month, ov.Year, core.FormatCurrency(ov.Spent))
	for _, line := range ov.Budgets {
		fmt.Printf("  %-12s %12s / %-12s [%s]\n",
			line.Category.Label(), core.FormatCurrency(line.Spent), core.FormatCurrency(line.Ceiling), line.Status)
	}

	shares := reports.ExpenseShares()
	if len(shares) > 0 {
		fmt.Println("\nExpense shares (all time):")
		for _, share := range shares {
			fmt.Printf("  %-12s %12s\n", share.Category.Label(), core.FormatCurrency(share.Amount))
		}
	}
	return nil
}

func runBudget(args []string, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	catLabel := fs.String("category", "", "category")
	amountText := fs.String("amount", "", "budget ceiling")
	fs.Parse(args)

	cat, err := core.ParseCategoryLabel(*catLabel)
	if err != nil {
		return err
	}
	// A ceiling of zero clears the budget, so zero is accepted here even
	// though transaction amounts must be strictly positive.
	ceiling := decimal.Zero
	if *amountText != "" && *amountText != "0" {
		if ceiling, err = core.ParseAmount(*amountText); err != nil {
			return err
		}
	}

	if err := svc.SetBudget(cat, ceiling); err != nil {
		return err
	}
	fmt.Printf("budget for %s set to %s\n", cat.Label(), core.FormatCurrency(ceiling))
	return nil
}

func runExport(args []string, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "transactions.csv", "destination file")
	fs.Parse(args)

	if err := svc.ExportCSV(*out); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", *out)
	return nil
}

func runAccount(args []string, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("account", flag.ExitOnError)
	name := fs.String("name", "", "account name")
	fs.Parse(args)

	if err := svc.AddAccount(*name); err != nil {
		return err
	}
	fmt.Printf("account %s ready\n", *name)
	return nil
}
