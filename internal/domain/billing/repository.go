package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceRepository persists invoices together with their line items
type InvoiceRepository interface {
	// FindByID loads an invoice with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByNumber loads an invoice by its unique invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	// FindByCompany lists a company's invoices, newest first
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Invoice, error)
	// Create inserts a new invoice and all its line items. Returns
	// ErrNumberingConflict if the invoice number is already taken.
	Create(ctx context.Context, inv *Invoice) error
	// Save updates an existing invoice (line items are immutable and not touched)
	Save(ctx context.Context, inv *Invoice) error
	// NextInvoiceNumber computes the next sequential number for the month of
	// the reference date: highest existing suffix under the month prefix plus
	// one, or 001 when the month has no invoices yet. Concurrent callers can
	// receive the same number; the unique constraint on invoice_number plus
	// retry in the caller resolves the race.
	NextInvoiceNumber(ctx context.Context, ref time.Time) (string, error)
}

// AuditLogRepository persists the append-only audit trail
type AuditLogRepository interface {
	Append(ctx context.Context, entry *AuditLogEntry) error
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]AuditLogEntry, error)
}

// OrderSource reads billable orders from the ordering system
type OrderSource interface {
	// FindBillableOrders returns the company's orders created within
	// [start, end] whose status is in the billable set
	FindBillableOrders(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]Order, error)
}

// CompanySource reads companies from the account management system
type CompanySource interface {
	// FindByID returns ErrCompanyNotFound if the company does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	// FindActive lists companies included in batch invoicing
	FindActive(ctx context.Context) ([]Company, error)
}

// TxRepositories is the repository bundle available inside a unit of work
type TxRepositories interface {
	Invoices() InvoiceRepository
	AuditLog() AuditLogRepository
}

// UnitOfWork runs a function against transaction-scoped repositories. All
// writes inside fn commit together or not at all.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx TxRepositories) error) error
}

// Notifier delivers customer-facing notifications. Delivery is best-effort:
// failures are logged by implementations and never surfaced to billing.
type Notifier interface {
	InvoiceIssued(ctx context.Context, inv *Invoice) error
}
