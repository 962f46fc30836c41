package store

import (
	"context"

	"github.com/confia-app/confia/internal/domain"
)

// disabled is the store used when neither backend is available. All three
// collections are empty and every mutation fails with ErrNotConfigured.
type disabled struct{}

// Disabled returns the always-empty, mutation-refusing store.
func Disabled() Store {
	return disabled{}
}

func (disabled) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return []domain.Customer{}, nil
}

func (disabled) CreateCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	return domain.Customer{}, ErrNotConfigured
}

func (disabled) DeleteCustomer(ctx context.Context, id string) error {
	return ErrNotConfigured
}

func (disabled) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return []domain.Supplier{}, nil
}

func (disabled) CreateSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error) {
	return domain.Supplier{}, ErrNotConfigured
}

func (disabled) DeleteSupplier(ctx context.Context, id string) error {
	return ErrNotConfigured
}

func (disabled) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return []domain.Transaction{}, nil
}

func (disabled) CreateTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	return domain.Transaction{}, ErrNotConfigured
}

func (disabled) DeleteTransaction(ctx context.Context, id string) error {
	return ErrNotConfigured
}

func (disabled) Mode() Mode { return ModeDisabled }

func (disabled) Close() error { return nil }
