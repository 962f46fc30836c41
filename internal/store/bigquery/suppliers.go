package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/confia-app/confia/internal/domain"
)

// ListSuppliers queries all rows of the suppliers table.
func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			supplier_id,
			name,
			tax_id,
			phone,
			email,
			product_service,
			owner_id
		FROM `+"`%s.%s.%s`"+`
		ORDER BY name
	`, s.projectID, s.datasetID, suppliersTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: query read: %w", err)
	}

	var suppliers []domain.Supplier
	for {
		var r SupplierRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list suppliers: iter next: %w", err)
		}
		suppliers = append(suppliers, r.toDomain())
	}
	return suppliers, nil
}

// CreateSupplier inserts one supplier row stamped with the store's owner.
func (s *Store) CreateSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error) {
	if err := in.Validate(); err != nil {
		return domain.Supplier{}, err
	}

	supplier := in.Record(uuid.NewString(), s.ownerID)
	if err := s.insert(ctx, suppliersTable, "create supplier", supplierRow(supplier)); err != nil {
		return domain.Supplier{}, err
	}
	return supplier, nil
}

// DeleteSupplier removes the supplier row matching id.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	return s.deleteByID(ctx, suppliersTable, "supplier_id", id)
}

// SuppliersSchema describes the suppliers table for migration.
func SuppliersSchema() bigquery.Schema {
	return bigquery.Schema{
		{Name: "supplier_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "name", Type: bigquery.StringFieldType, Required: true},
		{Name: "tax_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "phone", Type: bigquery.StringFieldType},
		{Name: "email", Type: bigquery.StringFieldType},
		{Name: "product_service", Type: bigquery.StringFieldType},
		{Name: "owner_id", Type: bigquery.StringFieldType},
	}
}
