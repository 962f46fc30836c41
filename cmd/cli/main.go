package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/logger"
	"github.com/confia-app/confia/internal/stats"
	"github.com/confia-app/confia/internal/store/local"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "customers":
		runCustomers(log)
	case "suppliers":
		runSuppliers(log)
	case "transactions":
		runTransactions(log)
	case "summary":
		runSummary(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("CONFIA CLI (local store)")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  customers     List, add or delete customers")
	fmt.Println("  suppliers     List, add or delete suppliers")
	fmt.Println("  transactions  List, add or delete transactions")
	fmt.Println("  summary       Show the dashboard summary")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func openStore(fs *flag.FlagSet, log zerolog.Logger) *local.Store {
	dbPath := "confia.db"
	if v := os.Getenv("CONFIA_LOCAL_DB"); v != "" {
		dbPath = v
	}
	if f := fs.Lookup("db"); f != nil && f.Value.String() != "" {
		dbPath = f.Value.String()
	}

	s, err := local.Open(dbPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("Failed to open local store")
	}
	return s
}

func runCustomers(log zerolog.Logger) {
	fs := flag.NewFlagSet("customers", flag.ExitOnError)
	fs.String("db", "", "Path of the local store (defaults to CONFIA_LOCAL_DB or confia.db)")
	add := fs.Bool("add", false, "Add a customer")
	del := fs.String("delete", "", "Delete the customer with this ID")
	name := fs.String("name", "", "Customer name (with -add)")
	taxID := fs.String("tax-id", "", "Customer tax id (with -add)")
	phone := fs.String("phone", "", "Customer phone (with -add)")
	email := fs.String("email", "", "Customer email (with -add)")
	notes := fs.String("notes", "", "Customer notes (with -add)")
	fs.Parse(os.Args[2:])

	s := openStore(fs, log)
	defer s.Close()
	ctx := logger.WithContext(context.Background(), log)

	switch {
	case *add:
		in := domain.CustomerInput{Name: *name, TaxID: *taxID, Phone: *phone, Email: *email, Notes: *notes}
		created, err := s.CreateCustomer(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to add customer")
		}
		fmt.Printf("Added customer %s (%s)\n", created.Name, created.ID)
	case *del != "":
		if err := s.DeleteCustomer(ctx, *del); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete customer")
		}
		fmt.Printf("Deleted customer %s\n", *del)
	default:
		customers, err := s.ListCustomers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list customers")
		}
		fmt.Printf("=== Customers (%d) ===\n", len(customers))
		for i, c := range customers {
			fmt.Printf("\n%d. %s\n", i+1, c.Name)
			fmt.Printf("   ID:     %s\n", c.ID)
			fmt.Printf("   Tax ID: %s\n", c.TaxID)
			if c.Phone != "" {
				fmt.Printf("   Phone:  %s\n", c.Phone)
			}
			if c.Email != "" {
				fmt.Printf("   Email:  %s\n", c.Email)
			}
		}
	}
}

func runSuppliers(log zerolog.Logger) {
	fs := flag.NewFlagSet("suppliers", flag.ExitOnError)
	fs.String("db", "", "Path of the local store (defaults to CONFIA_LOCAL_DB or confia.db)")
	add := fs.Bool("add", false, "Add a supplier")
	del := fs.String("delete", "", "Delete the supplier with this ID")
	name := fs.String("name", "", "Supplier name (with -add)")
	taxID := fs.String("tax-id", "", "Supplier tax id (with -add)")
	phone := fs.String("phone", "", "Supplier phone (with -add)")
	email := fs.String("email", "", "Supplier email (with -add)")
	product := fs.String("product", "", "Product or service supplied (with -add)")
	fs.Parse(os.Args[2:])

	s := openStore(fs, log)
	defer s.Close()
	ctx := logger.WithContext(context.Background(), log)

	switch {
	case *add:
		in := domain.SupplierInput{Name: *name, TaxID: *taxID, Phone: *phone, Email: *email, ProductService: *product}
		created, err := s.CreateSupplier(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to add supplier")
		}
		fmt.Printf("Added supplier %s (%s)\n", created.Name, created.ID)
	case *del != "":
		if err := s.DeleteSupplier(ctx, *del); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete supplier")
		}
		fmt.Printf("Deleted supplier %s\n", *del)
	default:
		suppliers, err := s.ListSuppliers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list suppliers")
		}
		fmt.Printf("=== Suppliers (%d) ===\n", len(suppliers))
		for i, sp := range suppliers {
			fmt.Printf("\n%d. %s\n", i+1, sp.Name)
			fmt.Printf("   ID:     %s\n", sp.ID)
			fmt.Printf("   Tax ID: %s\n", sp.TaxID)
			if sp.ProductService != "" {
				fmt.Printf("   Offers: %s\n", sp.ProductService)
			}
		}
	}
}

func runTransactions(log zerolog.Logger) {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	fs.String("db", "", "Path of the local store (defaults to CONFIA_LOCAL_DB or confia.db)")
	add := fs.Bool("add", false, "Add a transaction")
	del := fs.String("delete", "", "Delete the transaction with this ID")
	kind := fs.String("kind", "", "income or expense (with -add)")
	amount := fs.String("amount", "", "Amount, e.g. 150.00 (with -add)")
	date := fs.String("date", "", "Date in YYYY-MM-DD form (with -add)")
	category := fs.String("category", "", "Category (with -add)")
	description := fs.String("description", "", "Description (with -add)")
	fs.Parse(os.Args[2:])

	s := openStore(fs, log)
	defer s.Close()
	ctx := logger.WithContext(context.Background(), log)

	switch {
	case *add:
		amt, err := decimal.NewFromString(*amount)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -amount")
		}
		d, err := civil.ParseDate(*date)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -date")
		}
		in := domain.TransactionInput{
			Kind:        domain.TransactionKind(*kind),
			Amount:      amt,
			Date:        d,
			Category:    *category,
			Description: *description,
		}
		created, err := s.CreateTransaction(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to add transaction")
		}
		fmt.Printf("Added %s of %s on %s (%s)\n", created.Kind, created.Amount, created.Date, created.ID)
	case *del != "":
		if err := s.DeleteTransaction(ctx, *del); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete transaction")
		}
		fmt.Printf("Deleted transaction %s\n", *del)
	default:
		transactions, err := s.ListTransactions(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list transactions")
		}
		fmt.Printf("=== Transactions (%d) ===\n", len(transactions))
		for i, t := range transactions {
			fmt.Printf("\n%d. %s\n", i+1, t.Description)
			fmt.Printf("   ID:       %s\n", t.ID)
			fmt.Printf("   Kind:     %s\n", t.Kind)
			fmt.Printf("   Amount:   %s\n", t.Amount.StringFixed(2))
			fmt.Printf("   Date:     %s\n", t.Date)
			if t.Category != "" {
				fmt.Printf("   Category: %s\n", t.Category)
			}
		}
	}
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	fs.String("db", "", "Path of the local store (defaults to CONFIA_LOCAL_DB or confia.db)")
	fs.Parse(os.Args[2:])

	s := openStore(fs, log)
	defer s.Close()
	ctx := logger.WithContext(context.Background(), log)

	transactions, err := s.ListTransactions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	summary := stats.Compute(transactions)

	fmt.Println("=== Dashboard ===")
	fmt.Printf("Balance:       %s\n", summary.Balance.StringFixed(2))
	fmt.Printf("Total income:  %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Printf("Total expense: %s\n", summary.TotalExpense.StringFixed(2))
	fmt.Printf("Net profit:    %s\n", summary.NetProfit.StringFixed(2))
	fmt.Printf("Transactions:  %d\n", len(transactions))
}
