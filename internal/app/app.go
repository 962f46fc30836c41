// Package app composes the session manager, store selection and the
// in-memory record collections into the CONFIA application core. After
// every create or delete, all three collections are re-fetched wholesale;
// that trades per-operation efficiency for never having to reconcile
// optimistic state with backend truth.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/session"
	"github.com/confia-app/confia/internal/stats"
	"github.com/confia-app/confia/internal/store"
)

// CollectionState distinguishes a genuinely loaded (possibly empty)
// collection from one whose last fetch failed.
type CollectionState string

const (
	StateLoaded CollectionState = "loaded"
	StateFailed CollectionState = "failed"
)

// CollectionStatus is the sync outcome for one collection. When State is
// StateFailed the in-memory collection still holds the last successful
// fetch.
type CollectionStatus struct {
	State CollectionState `json:"state"`
	Error string          `json:"error,omitempty"`
}

// SyncState reports the last refresh outcome per collection.
type SyncState struct {
	Customers    CollectionStatus `json:"customers"`
	Suppliers    CollectionStatus `json:"suppliers"`
	Transactions CollectionStatus `json:"transactions"`
}

// RemoteFactory builds the remote store for an authenticated principal.
// A nil factory means no remote backend is configured.
type RemoteFactory func(ctx context.Context, ownerID string) (store.Store, error)

// App is the application core. It owns the active store and the three
// in-memory collections the dashboard and assistant read from.
type App struct {
	sessions      *session.Manager
	remoteFactory RemoteFactory
	local         store.Store
	log           zerolog.Logger

	mu           sync.RWMutex
	active       store.Store
	remote       store.Store // owned remote store, closed on session change
	customers    []domain.Customer
	suppliers    []domain.Supplier
	transactions []domain.Transaction
	sync         SyncState

	unsubscribe func()
}

// New wires the application core to the session manager. The store is
// selected immediately and re-selected (followed by a full refresh) on
// every session-state change. local may be nil when no offline store is
// configured.
func New(sessions *session.Manager, remoteFactory RemoteFactory, local store.Store, log zerolog.Logger) *App {
	a := &App{
		sessions:      sessions,
		remoteFactory: remoteFactory,
		local:         local,
		log:           log,
		active:        store.Disabled(),
	}

	a.unsubscribe = sessions.Subscribe(func() {
		ctx := context.Background()
		a.selectStore(ctx)
		a.Refresh(ctx)
	})

	a.selectStore(context.Background())
	return a
}

// Close tears down the session subscription and the owned stores.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.remote != nil {
		a.remote.Close()
		a.remote = nil
	}
	a.active = store.Disabled()
	return nil
}

// selectStore applies the mode selection policy to the current session
// state, constructing or discarding the remote store as needed.
func (a *App) selectStore(ctx context.Context) {
	current := a.sessions.Current()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Drop a remote store that no longer matches the session.
	if a.remote != nil {
		a.remote.Close()
		a.remote = nil
	}

	if current != nil && a.remoteFactory != nil {
		remote, err := a.remoteFactory(ctx, current.UserID)
		if err != nil {
			a.log.Error().Err(err).Msg("Failed to open remote store")
		} else {
			a.remote = remote
		}
	}

	a.active = store.Select(a.remote, a.local, current != nil, a.sessions.DemoMode())
	a.log.Info().Str("mode", string(a.active.Mode())).Msg("Store selected")
}

// Mode reports the active backend.
func (a *App) Mode() store.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active.Mode()
}

// Refresh re-fetches all three collections and replaces the in-memory
// copies wholesale. A collection whose fetch fails keeps its previous
// contents and is marked failed in the sync state.
func (a *App) Refresh(ctx context.Context) {
	a.mu.RLock()
	active := a.active
	a.mu.RUnlock()

	customers, customersErr := active.ListCustomers(ctx)
	suppliers, suppliersErr := active.ListSuppliers(ctx)
	transactions, transactionsErr := active.ListTransactions(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if customersErr != nil {
		a.log.Error().Err(customersErr).Msg("Failed to list customers")
		a.sync.Customers = CollectionStatus{State: StateFailed, Error: customersErr.Error()}
	} else {
		a.customers = customers
		a.sync.Customers = CollectionStatus{State: StateLoaded}
	}

	if suppliersErr != nil {
		a.log.Error().Err(suppliersErr).Msg("Failed to list suppliers")
		a.sync.Suppliers = CollectionStatus{State: StateFailed, Error: suppliersErr.Error()}
	} else {
		a.suppliers = suppliers
		a.sync.Suppliers = CollectionStatus{State: StateLoaded}
	}

	if transactionsErr != nil {
		a.log.Error().Err(transactionsErr).Msg("Failed to list transactions")
		a.sync.Transactions = CollectionStatus{State: StateFailed, Error: transactionsErr.Error()}
	} else {
		a.transactions = transactions
		a.sync.Transactions = CollectionStatus{State: StateLoaded}
	}
}

// Sync reports the last refresh outcome per collection.
func (a *App) Sync() SyncState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sync
}

// Customers returns a copy of the loaded customer collection.
func (a *App) Customers() []domain.Customer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Customer, len(a.customers))
	copy(out, a.customers)
	return out
}

// Suppliers returns a copy of the loaded supplier collection.
func (a *App) Suppliers() []domain.Supplier {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Supplier, len(a.suppliers))
	copy(out, a.suppliers)
	return out
}

// Transactions returns a copy of the loaded transaction collection.
func (a *App) Transactions() []domain.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Stats recomputes the dashboard summary from the loaded transactions.
func (a *App) Stats() stats.Summary {
	return stats.Compute(a.Transactions())
}

// ChatContext renders the assistant's context snapshot from the loaded
// collections.
func (a *App) ChatContext() string {
	txs := a.Transactions()
	return stats.ContextText(stats.Compute(txs), txs)
}

func (a *App) store() store.Store {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active
}

// AddCustomer writes through the active store, then refreshes everything.
func (a *App) AddCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	created, err := a.store().CreateCustomer(ctx, in)
	a.Refresh(ctx)
	return created, err
}

// DeleteCustomer writes through the active store, then refreshes.
func (a *App) DeleteCustomer(ctx context.Context, id string) error {
	err := a.store().DeleteCustomer(ctx, id)
	a.Refresh(ctx)
	return err
}

// AddSupplier writes through the active store, then refreshes.
func (a *App) AddSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error) {
	created, err := a.store().CreateSupplier(ctx, in)
	a.Refresh(ctx)
	return created, err
}

// DeleteSupplier writes through the active store, then refreshes.
func (a *App) DeleteSupplier(ctx context.Context, id string) error {
	err := a.store().DeleteSupplier(ctx, id)
	a.Refresh(ctx)
	return err
}

// AddTransaction writes through the active store, then refreshes.
func (a *App) AddTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	created, err := a.store().CreateTransaction(ctx, in)
	a.Refresh(ctx)
	return created, err
}

// DeleteTransaction writes through the active store, then refreshes.
func (a *App) DeleteTransaction(ctx context.Context, id string) error {
	err := a.store().DeleteTransaction(ctx, id)
	a.Refresh(ctx)
	return err
}
