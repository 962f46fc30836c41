package local

import (
	"context"

	"github.com/google/uuid"

	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/store"
)

// Mode implements store.Store.
func (s *Store) Mode() store.Mode { return store.ModeLocal }

// ListCustomers returns all locally stored customers.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return readAll[domain.Customer](s, customersKey), nil
}

// CreateCustomer appends a new customer with a freshly generated id.
// There is no principal in local mode, so owner_id stays unset.
func (s *Store) CreateCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return domain.Customer{}, err
	}
	customer := in.Record(uuid.NewString(), "")
	if err := appendRecord(s, customersKey, customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// DeleteCustomer removes the customer with the given id, if present.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return removeRecord(s, customersKey, func(c domain.Customer) bool { return c.ID != id })
}

// ListSuppliers returns all locally stored suppliers.
func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return readAll[domain.Supplier](s, suppliersKey), nil
}

// CreateSupplier appends a new supplier with a freshly generated id.
func (s *Store) CreateSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error) {
	if err := in.Validate(); err != nil {
		return domain.Supplier{}, err
	}
	supplier := in.Record(uuid.NewString(), "")
	if err := appendRecord(s, suppliersKey, supplier); err != nil {
		return domain.Supplier{}, err
	}
	return supplier, nil
}

// DeleteSupplier removes the supplier with the given id, if present.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	return removeRecord(s, suppliersKey, func(sp domain.Supplier) bool { return sp.ID != id })
}

// ListTransactions returns all locally stored transactions.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return readAll[domain.Transaction](s, transactionsKey), nil
}

// CreateTransaction appends a new transaction with a freshly generated id.
func (s *Store) CreateTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	tx := in.Record(uuid.NewString(), "")
	if err := appendRecord(s, transactionsKey, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes the transaction with the given id, if present.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return removeRecord(s, transactionsKey, func(t domain.Transaction) bool { return t.ID != id })
}

var _ store.Store = (*Store)(nil)
