// Command seed-demo fills the local store with sample records so demo mode
// has something to show on first launch.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/logger"
	"github.com/confia-app/confia/internal/store/local"
)

func main() {
	dbPath := flag.String("db", envOr("CONFIA_LOCAL_DB", "confia.db"), "Path of the local store")
	flag.Parse()

	log := logger.New()

	s, err := local.Open(*dbPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to open local store")
	}
	defer s.Close()

	ctx := logger.WithContext(context.Background(), log)

	customers := []domain.CustomerInput{
		{Name: "Padaria do João", TaxID: "12.345.678/0001-90", Phone: "(11) 98765-4321", Email: "joao@padariadojoao.com.br"},
		{Name: "Mercado Boa Vista", TaxID: "98.765.432/0001-10", Phone: "(11) 91234-5678"},
		{Name: "Ana Souza", TaxID: "123.456.789-00", Email: "ana.souza@gmail.com", Notes: "Paga sempre no dia 5"},
	}

	suppliers := []domain.SupplierInput{
		{Name: "Distribuidora Central", TaxID: "11.222.333/0001-44", ProductService: "Farinha e insumos"},
		{Name: "Embalagens Rápidas", TaxID: "55.666.777/0001-88", ProductService: "Embalagens", Phone: "(11) 95555-0000"},
	}

	transactions := []domain.TransactionInput{
		{Kind: domain.KindIncome, Amount: decimal.RequireFromString("2500.00"), Date: civil.Date{Year: 2025, Month: 8, Day: 1}, Category: "Vendas", Description: "Vendas da semana"},
		{Kind: domain.KindIncome, Amount: decimal.RequireFromString("800.00"), Date: civil.Date{Year: 2025, Month: 8, Day: 10}, Category: "Serviços", Description: "Encomenda especial"},
		{Kind: domain.KindExpense, Amount: decimal.RequireFromString("650.00"), Date: civil.Date{Year: 2025, Month: 8, Day: 5}, Category: "Insumos", Description: "Compra de farinha"},
		{Kind: domain.KindExpense, Amount: decimal.RequireFromString("120.00"), Date: civil.Date{Year: 2025, Month: 8, Day: 12}, Category: "Logística", Description: "Frete de embalagens"},
	}

	for _, in := range customers {
		created, err := s.CreateCustomer(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Str("name", in.Name).Msg("Failed to seed customer")
		}
		fmt.Printf("customer    %s  %s\n", created.ID, created.Name)
	}

	for _, in := range suppliers {
		created, err := s.CreateSupplier(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Str("name", in.Name).Msg("Failed to seed supplier")
		}
		fmt.Printf("supplier    %s  %s\n", created.ID, created.Name)
	}

	for _, in := range transactions {
		created, err := s.CreateTransaction(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Str("description", in.Description).Msg("Failed to seed transaction")
		}
		fmt.Printf("transaction %s  %s %s\n", created.ID, created.Kind, created.Amount.StringFixed(2))
	}

	fmt.Printf("\nSeeded %d customers, %d suppliers, %d transactions into %s\n",
		len(customers), len(suppliers), len(transactions), *dbPath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
