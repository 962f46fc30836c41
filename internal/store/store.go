// Package store defines the uniform data-access facade over the three
// CONFIA record collections. Exactly two working backends exist: the
// remote BigQuery store used with an authenticated session, and the local
// bbolt store used in offline/demo mode. Callers pick one via Select and
// never branch on the active mode themselves.
package store

import (
	"context"

	"github.com/confia-app/confia/internal/domain"
)

// Mode identifies which backend a selection resolved to.
type Mode string

const (
	// ModeRemote persists records in the hosted BigQuery dataset.
	ModeRemote Mode = "remote"
	// ModeLocal persists records in the device-scoped bbolt file.
	ModeLocal Mode = "local"
	// ModeDisabled means no backend is available: lists are empty and
	// mutations are refused.
	ModeDisabled Mode = "disabled"
)

// Store is the record store facade: one list/create/delete triple per
// entity type, independent of which backend is active. Create assigns the
// record id; delete of an unknown id is a no-op.
type Store interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Mode reports which backend this store is.
	Mode() Mode

	Close() error
}

// Select applies the mode selection policy: an authenticated session with
// a configured remote store wins, an explicitly entered demo mode falls
// back to the local store, and otherwise the disabled store is returned.
//
// remote and local may be nil when the respective backend is not
// configured; authenticated and demoMode describe the caller's session
// state.
func Select(remote, local Store, authenticated, demoMode bool) Store {
	if authenticated && remote != nil {
		return remote
	}
	if demoMode && local != nil {
		return local
	}
	return Disabled()
}
