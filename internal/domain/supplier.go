package domain

// Supplier is a vendor the business buys products or services from.
type Supplier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TaxID          string `json:"tax_id"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	ProductService string `json:"product_service"`
	OwnerID        string `json:"owner_id,omitempty"`
}

// SupplierInput is the create payload for a supplier.
type SupplierInput struct {
	Name           string `json:"name" validate:"required"`
	TaxID          string `json:"tax_id" validate:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	ProductService string `json:"product_service"`
}

// Validate enforces the creation invariants (name and tax id non-empty).
func (in SupplierInput) Validate() error {
	return validate.Struct(in)
}

// Record builds the stored record from the input with the given id.
func (in SupplierInput) Record(id, ownerID string) Supplier {
	return Supplier{
		ID:             id,
		Name:           in.Name,
		TaxID:          in.TaxID,
		Phone:          in.Phone,
		Email:          in.Email,
		ProductService: in.ProductService,
		OwnerID:        ownerID,
	}
}
