package bigquery

import (
	"math/big"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/confia-app/confia/internal/domain"
)

// CustomerRow mirrors the confia.customers table schema.
type CustomerRow struct {
	CustomerID string `bigquery:"customer_id"` // REQUIRED
	Name       string `bigquery:"name"`        // REQUIRED
	TaxID      string `bigquery:"tax_id"`      // REQUIRED
	Phone      string `bigquery:"phone"`       // NULLABLE
	Email      string `bigquery:"email"`       // NULLABLE
	Notes      string `bigquery:"notes"`       // NULLABLE
	OwnerID    string `bigquery:"owner_id"`    // NULLABLE
}

// SupplierRow mirrors the confia.suppliers table schema.
type SupplierRow struct {
	SupplierID     string `bigquery:"supplier_id"`     // REQUIRED
	Name           string `bigquery:"name"`            // REQUIRED
	TaxID          string `bigquery:"tax_id"`          // REQUIRED
	Phone          string `bigquery:"phone"`           // NULLABLE
	Email          string `bigquery:"email"`           // NULLABLE
	ProductService string `bigquery:"product_service"` // NULLABLE
	OwnerID        string `bigquery:"owner_id"`        // NULLABLE
}

// TransactionRow mirrors the confia.transactions table schema.
type TransactionRow struct {
	TransactionID string     `bigquery:"transaction_id"`   // REQUIRED
	Kind          string     `bigquery:"kind"`             // REQUIRED ("income"|"expense")
	Amount        *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC
	Date          civil.Date `bigquery:"transaction_date"` // REQUIRED DATE
	Category      string     `bigquery:"category"`         // NULLABLE
	Description   string     `bigquery:"description"`      // NULLABLE
	OwnerID       string     `bigquery:"owner_id"`         // NULLABLE
}

func (r *CustomerRow) toDomain() domain.Customer {
	return domain.Customer{
		ID:      r.CustomerID,
		Name:    r.Name,
		TaxID:   r.TaxID,
		Phone:   r.Phone,
		Email:   r.Email,
		Notes:   r.Notes,
		OwnerID: r.OwnerID,
	}
}

func customerRow(c domain.Customer) *CustomerRow {
	return &CustomerRow{
		CustomerID: c.ID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		Phone:      c.Phone,
		Email:      c.Email,
		Notes:      c.Notes,
		OwnerID:    c.OwnerID,
	}
}

func (r *SupplierRow) toDomain() domain.Supplier {
	return domain.Supplier{
		ID:             r.SupplierID,
		Name:           r.Name,
		TaxID:          r.TaxID,
		Phone:          r.Phone,
		Email:          r.Email,
		ProductService: r.ProductService,
		OwnerID:        r.OwnerID,
	}
}

func supplierRow(s domain.Supplier) *SupplierRow {
	return &SupplierRow{
		SupplierID:     s.ID,
		Name:           s.Name,
		TaxID:          s.TaxID,
		Phone:          s.Phone,
		Email:          s.Email,
		ProductService: s.ProductService,
		OwnerID:        s.OwnerID,
	}
}

func (r *TransactionRow) toDomain() domain.Transaction {
	amount := decimal.Zero
	if r.Amount != nil {
		// NUMERIC has 9 fractional digits; far more than currency needs.
		amount = decimal.NewFromBigRat(r.Amount, 9)
	}
	return domain.Transaction{
		ID:          r.TransactionID,
		Kind:        domain.TransactionKind(r.Kind),
		Amount:      amount,
		Date:        r.Date,
		Category:    r.Category,
		Description: r.Description,
		OwnerID:     r.OwnerID,
	}
}

func transactionRow(t domain.Transaction) *TransactionRow {
	return &TransactionRow{
		TransactionID: t.ID,
		Kind:          string(t.Kind),
		Amount:        t.Amount.Rat(),
		Date:          t.Date,
		Category:      t.Category,
		Description:   t.Description,
		OwnerID:       t.OwnerID,
	}
}
