package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/confia-app/confia/internal/domain"
)

// ListTransactions queries all rows of the transactions table, most
// recent first.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			kind,
			amount,
			transaction_date,
			category,
			description,
			owner_id
		FROM `+"`%s.%s.%s`"+`
		ORDER BY transaction_date DESC
	`, s.projectID, s.datasetID, transactionsTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: query read: %w", err)
	}

	var txs []domain.Transaction
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list transactions: iter next: %w", err)
		}
		txs = append(txs, r.toDomain())
	}
	return txs, nil
}

// CreateTransaction inserts one transaction row stamped with the store's
// owner.
func (s *Store) CreateTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	tx := in.Record(uuid.NewString(), s.ownerID)
	if err := s.insert(ctx, transactionsTable, "create transaction", transactionRow(tx)); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes the transaction row matching id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, transactionsTable, "transaction_id", id)
}

// TransactionsSchema describes the transactions table for migration.
func TransactionsSchema() bigquery.Schema {
	return bigquery.Schema{
		{Name: "transaction_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "kind", Type: bigquery.StringFieldType, Required: true},
		{Name: "amount", Type: bigquery.NumericFieldType, Required: true},
		{Name: "transaction_date", Type: bigquery.DateFieldType, Required: true},
		{Name: "category", Type: bigquery.StringFieldType},
		{Name: "description", Type: bigquery.StringFieldType},
		{Name: "owner_id", Type: bigquery.StringFieldType},
	}
}
