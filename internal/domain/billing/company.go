package billing

import "github.com/google/uuid"

// Company is a read-only view of a customer company owned by the account
// management system. Only active companies are included in batch invoicing.
type Company struct {
	ID           uuid.UUID
	Name         string
	PaymentTerms PaymentTerms
	IsActive     bool
}
