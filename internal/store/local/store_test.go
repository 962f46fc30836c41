package local

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "confia.db"), logger.New())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateThenListCustomer(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	in := domain.CustomerInput{Name: "Acme", TaxID: "123", Phone: "", Email: "a@a.com", Notes: ""}
	created, err := s.CreateCustomer(ctx, in)
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateCustomer assigned empty id")
	}
	if created.OwnerID != "" {
		t.Errorf("local mode must not stamp an owner, got %q", created.OwnerID)
	}

	customers, err := s.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("ListCustomers returned %d records, want 1", len(customers))
	}
	if customers[0] != created {
		t.Errorf("listed customer %+v, want %+v", customers[0], created)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.CreateCustomer(ctx, domain.CustomerInput{Name: "", TaxID: "1"}); err == nil {
		t.Error("customer without name accepted")
	}
	if _, err := s.CreateTransaction(ctx, domain.TransactionInput{
		Kind:   domain.KindIncome,
		Amount: decimal.NewFromInt(-1),
		Date:   civil.Date{Year: 2024, Month: 1, Day: 1},
	}); err == nil {
		t.Error("negative amount accepted")
	}

	customers, _ := s.ListCustomers(ctx)
	if len(customers) != 0 {
		t.Errorf("rejected create still stored %d records", len(customers))
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	in := domain.TransactionInput{
		Kind:     domain.KindExpense,
		Amount:   decimal.NewFromInt(50),
		Date:     civil.Date{Year: 2024, Month: 2, Day: 2},
		Category: "Compras",
	}
	created, err := s.CreateTransaction(ctx, in)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	txs, _ := s.ListTransactions(ctx)
	for _, tx := range txs {
		if tx.ID == created.ID {
			t.Errorf("deleted transaction %s still listed", created.ID)
		}
	}
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	created, err := s.CreateSupplier(ctx, domain.SupplierInput{Name: "Fresh Foods", TaxID: "98765"})
	if err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}

	before, _ := s.ListSuppliers(ctx)
	if err := s.DeleteSupplier(ctx, "does-not-exist"); err != nil {
		t.Fatalf("DeleteSupplier of unknown id failed: %v", err)
	}
	after, _ := s.ListSuppliers(ctx)

	if !reflect.DeepEqual(before, after) {
		t.Errorf("deleting unknown id changed collection: %v vs %v", before, after)
	}
	if len(after) != 1 || after[0].ID != created.ID {
		t.Errorf("supplier %s lost", created.ID)
	}
}

func TestListIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.CreateCustomer(ctx, domain.CustomerInput{Name: "C", TaxID: "1"}); err != nil {
			t.Fatalf("CreateCustomer failed: %v", err)
		}
	}

	first, _ := s.ListCustomers(ctx)
	for i := 0; i < 5; i++ {
		again, _ := s.ListCustomers(ctx)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ListCustomers not stable: %v vs %v", first, again)
		}
	}
}

func TestFreshIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		c, err := s.CreateCustomer(ctx, domain.CustomerInput{Name: "C", TaxID: "1"})
		if err != nil {
			t.Fatalf("CreateCustomer failed: %v", err)
		}
		if seen[c.ID] {
			t.Fatalf("id %s assigned twice", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestMalformedValueListsEmpty(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.CreateTransaction(ctx, domain.TransactionInput{
		Kind:   domain.KindIncome,
		Amount: decimal.NewFromInt(10),
		Date:   civil.Date{Year: 2024, Month: 1, Day: 1},
	}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	// Corrupt the stored payload behind the store's back.
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(transactionsKey), []byte("{not json["))
	})
	if err != nil {
		t.Fatalf("corrupting payload failed: %v", err)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions returned error for malformed data: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("malformed payload listed %d records, want 0", len(txs))
	}

	// A create after corruption starts a fresh collection.
	created, err := s.CreateTransaction(ctx, domain.TransactionInput{
		Kind:   domain.KindExpense,
		Amount: decimal.NewFromInt(5),
		Date:   civil.Date{Year: 2024, Month: 1, Day: 2},
	})
	if err != nil {
		t.Fatalf("CreateTransaction after corruption failed: %v", err)
	}
	txs, _ = s.ListTransactions(ctx)
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Errorf("post-corruption collection = %v, want just %s", txs, created.ID)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "confia.db")

	s, err := Open(path, logger.New())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	created, err := s.CreateCustomer(ctx, domain.CustomerInput{Name: "Acme", TaxID: "123"})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	s.Close()

	reopened, err := Open(path, logger.New())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	customers, _ := reopened.ListCustomers(ctx)
	if len(customers) != 1 || customers[0].ID != created.ID {
		t.Errorf("customer %s did not survive reopen: %v", created.ID, customers)
	}
}
