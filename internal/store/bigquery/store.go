// Package bigquery implements the remote record store on a hosted
// BigQuery dataset: one table per entity, generic select-all list,
// streaming insert-one create and parameterized DML delete-by-id. Access
// scoping beyond owner stamping is the backend's concern, not computed
// here.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/confia-app/confia/internal/store"
)

const (
	customersTable    = "customers"
	suppliersTable    = "suppliers"
	transactionsTable = "transactions"
)

// Store is the remote Store implementation. It holds one shared BigQuery
// client and stamps every created record with the owning principal.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	ownerID   string
}

// New creates a remote store for the given project and dataset. ownerID is
// the authenticated principal's identifier; it is written into the
// owner_id column of every record created through this store.
func New(ctx context.Context, projectID, datasetID, ownerID string) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery store: creating client: %w", err)
	}
	return NewWithClient(client, projectID, datasetID, ownerID), nil
}

// NewWithClient creates a remote store using the provided BigQuery client.
func NewWithClient(client *bigquery.Client, projectID, datasetID, ownerID string) *Store {
	return &Store{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		ownerID:   ownerID,
	}
}

// Mode implements store.Store.
func (s *Store) Mode() store.Mode { return store.ModeRemote }

// Close releases the underlying BigQuery client.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *Store) table(name string) *bigquery.Table {
	return s.client.DatasetInProject(s.projectID, s.datasetID).Table(name)
}

// insert streams one row into the named table, translating a backend
// rejection into a PersistenceError so the caller can surface the message.
func (s *Store) insert(ctx context.Context, tableName, op string, row interface{}) error {
	if err := s.table(tableName).Inserter().Put(ctx, row); err != nil {
		return &store.PersistenceError{Op: op, Message: err.Error(), Err: err}
	}
	return nil
}

// deleteByID removes the row whose id column matches. Deleting an id that
// does not exist matches zero rows and is a no-op. DML cannot touch rows
// still in the streaming buffer, so deleting a just-inserted row may fail
// until the buffer drains.
func (s *Store) deleteByID(ctx context.Context, tableName, idColumn, id string) error {
	q := s.client.Query(fmt.Sprintf(
		"DELETE FROM `%s.%s.%s` WHERE %s = @id",
		s.projectID, s.datasetID, tableName, idColumn,
	))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "id", Value: id},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("delete from %s: run query: %w", tableName, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("delete from %s: wait for job: %w", tableName, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("delete from %s: job error: %w", tableName, err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
