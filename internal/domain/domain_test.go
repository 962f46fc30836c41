package domain

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func TestCustomerInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   CustomerInput
		wantErr bool
	}{
		{
			name:    "valid customer",
			input:   CustomerInput{Name: "Acme", TaxID: "123", Email: "a@a.com"},
			wantErr: false,
		},
		{
			name:    "missing name",
			input:   CustomerInput{TaxID: "123"},
			wantErr: true,
		},
		{
			name:    "missing tax id",
			input:   CustomerInput{Name: "Acme"},
			wantErr: true,
		},
		{
			name:    "invalid email",
			input:   CustomerInput{Name: "Acme", TaxID: "123", Email: "not-an-email"},
			wantErr: true,
		},
		{
			name:    "empty email is fine",
			input:   CustomerInput{Name: "Acme", TaxID: "123"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSupplierInput_Validate(t *testing.T) {
	if err := (SupplierInput{Name: "Fresh Foods", TaxID: "98765", ProductService: "Produce"}).Validate(); err != nil {
		t.Errorf("valid supplier rejected: %v", err)
	}
	if err := (SupplierInput{ProductService: "Produce"}).Validate(); err == nil {
		t.Error("supplier without name and tax id accepted")
	}
}

func TestTransactionInput_Validate(t *testing.T) {
	date := civil.Date{Year: 2024, Month: 6, Day: 1}

	tests := []struct {
		name    string
		input   TransactionInput
		wantErr bool
	}{
		{
			name:    "valid income",
			input:   TransactionInput{Kind: KindIncome, Amount: decimal.NewFromInt(1000), Date: date, Category: "Vendas"},
			wantErr: false,
		},
		{
			name:    "valid expense with zero amount",
			input:   TransactionInput{Kind: KindExpense, Amount: decimal.Zero, Date: date},
			wantErr: false,
		},
		{
			name:    "unknown kind",
			input:   TransactionInput{Kind: "transfer", Amount: decimal.NewFromInt(10), Date: date},
			wantErr: true,
		},
		{
			name:    "negative amount",
			input:   TransactionInput{Kind: KindExpense, Amount: decimal.NewFromInt(-5), Date: date},
			wantErr: true,
		},
		{
			name:    "missing date",
			input:   TransactionInput{Kind: KindIncome, Amount: decimal.NewFromInt(10)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionInput_Record(t *testing.T) {
	in := TransactionInput{
		Kind:        KindExpense,
		Amount:      decimal.NewFromFloat(42.50),
		Date:        civil.Date{Year: 2024, Month: 3, Day: 15},
		Category:    "Transporte",
		Description: "Taxi",
	}

	tx := in.Record("tx-1", "user-1")
	if tx.ID != "tx-1" || tx.OwnerID != "user-1" {
		t.Errorf("Record() id/owner = %q/%q", tx.ID, tx.OwnerID)
	}
	if !tx.Amount.Equal(in.Amount) || tx.Kind != in.Kind || tx.Date != in.Date {
		t.Errorf("Record() did not carry fields over: %+v", tx)
	}
}
