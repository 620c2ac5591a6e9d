package billing

import (
	"github.com/mealflow/backend/internal/domain/shared"
)

// Event types for the invoice aggregate
const (
	EventTypeInvoiceGenerated = "billing.invoice.generated"
	EventTypeInvoiceIssued    = "billing.invoice.issued"
	EventTypeInvoicePaid      = "billing.invoice.paid"
)

const aggregateTypeInvoice = "Invoice"

// InvoiceGeneratedEvent is raised when a draft invoice is created
type InvoiceGeneratedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	CompanyID     string `json:"company_id"`
	TotalCents    int64  `json:"total_cents"`
	LineItemCount int    `json:"line_item_count"`
}

// NewInvoiceGeneratedEvent creates an InvoiceGeneratedEvent
func NewInvoiceGeneratedEvent(inv *Invoice) *InvoiceGeneratedEvent {
	return &InvoiceGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceGenerated, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		CompanyID:       inv.CompanyID.String(),
		TotalCents:      inv.TotalCents,
		LineItemCount:   inv.LineItemCount(),
	}
}

// InvoiceIssuedEvent is raised when an invoice transitions to ISSUED
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	CompanyID     string `json:"company_id"`
	TotalCents    int64  `json:"total_cents"`
}

// NewInvoiceIssuedEvent creates an InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		CompanyID:       inv.CompanyID.String(),
		TotalCents:      inv.TotalCents,
	}
}

// InvoicePaidEvent is raised when an invoice transitions to PAID
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber    string `json:"invoice_number"`
	CompanyID        string `json:"company_id"`
	PaymentReference string `json:"payment_reference"`
}

// NewInvoicePaidEvent creates an InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoicePaid, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:    inv.InvoiceNumber,
		CompanyID:        inv.CompanyID.String(),
		PaymentReference: inv.PaymentReference,
	}
}
