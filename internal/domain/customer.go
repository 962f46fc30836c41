// Package domain holds the core CONFIA record types shared by every
// store backend: customers, suppliers and income/expense transactions.
package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Customer is a registered client of the business.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
	OwnerID string `json:"owner_id,omitempty"`
}

// CustomerInput is the create payload for a customer.
type CustomerInput struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"tax_id" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes"`
}

// Validate enforces the creation invariants (name and tax id non-empty).
func (in CustomerInput) Validate() error {
	return validate.Struct(in)
}

// Record builds the stored record from the input with the given id.
func (in CustomerInput) Record(id, ownerID string) Customer {
	return Customer{
		ID:      id,
		Name:    in.Name,
		TaxID:   in.TaxID,
		Phone:   in.Phone,
		Email:   in.Email,
		Notes:   in.Notes,
		OwnerID: ownerID,
	}
}
