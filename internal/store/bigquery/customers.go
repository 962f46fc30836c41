package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/confia-app/confia/internal/domain"
)

// ListCustomers queries all rows of the customers table.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			customer_id,
			name,
			tax_id,
			phone,
			email,
			notes,
			owner_id
		FROM `+"`%s.%s.%s`"+`
		ORDER BY name
	`, s.projectID, s.datasetID, customersTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: query read: %w", err)
	}

	var customers []domain.Customer
	for {
		var r CustomerRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list customers: iter next: %w", err)
		}
		customers = append(customers, r.toDomain())
	}
	return customers, nil
}

// CreateCustomer inserts one customer row stamped with the store's owner.
func (s *Store) CreateCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return domain.Customer{}, err
	}

	customer := in.Record(uuid.NewString(), s.ownerID)
	if err := s.insert(ctx, customersTable, "create customer", customerRow(customer)); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// DeleteCustomer removes the customer row matching id.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return s.deleteByID(ctx, customersTable, "customer_id", id)
}

// CustomersSchema describes the customers table for migration.
func CustomersSchema() bigquery.Schema {
	return bigquery.Schema{
		{Name: "customer_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "name", Type: bigquery.StringFieldType, Required: true},
		{Name: "tax_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "phone", Type: bigquery.StringFieldType},
		{Name: "email", Type: bigquery.StringFieldType},
		{Name: "notes", Type: bigquery.StringFieldType},
		{Name: "owner_id", Type: bigquery.StringFieldType},
	}
}
