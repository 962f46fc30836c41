package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Valid reports whether k is one of the two known kinds.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is one income or expense entry. Amount is always
// non-negative; the sign is carried by Kind.
type Transaction struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Date        civil.Date      `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	OwnerID     string          `json:"owner_id,omitempty"`
}

// TransactionInput is the create payload for a transaction. The store
// assigns the ID and, in remote mode, the owner.
type TransactionInput struct {
	Kind        TransactionKind `json:"kind" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        civil.Date      `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// Validate enforces the creation invariants: a known kind, a non-negative
// amount and a set date.
func (in TransactionInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("transaction kind must be %q or %q, got %q", KindIncome, KindExpense, in.Kind)
	}
	if in.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must not be negative, got %s", in.Amount)
	}
	if !in.Date.IsValid() {
		return fmt.Errorf("transaction date is required")
	}
	return nil
}

// Record builds the stored record from the input with the given id.
func (in TransactionInput) Record(id, ownerID string) Transaction {
	return Transaction{
		ID:          id,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    in.Category,
		Description: in.Description,
		OwnerID:     ownerID,
	}
}
