package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/shared"
	"github.com/mealflow/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "DRAFT"
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is the aggregate root for a company's monthly invoice. Status
// transitions are monotonic: DRAFT -> ISSUED -> PAID, never backward. The
// invoice number is immutable once assigned and invoices are never deleted.
type Invoice struct {
	shared.BaseAggregateRoot
	CompanyID        uuid.UUID
	InvoiceNumber    string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	Status           InvoiceStatus
	SubtotalCents    int64
	TaxCents         int64
	TotalCents       int64
	Currency         valueobject.Currency
	DueDate          time.Time
	IssuedAt         *time.Time
	PaidAt           *time.Time
	PaymentReference string
	LineItems        []InvoiceLineItem
}

// NewInvoice creates a DRAFT invoice with its line items. The line items
// are attached to the new invoice and must not belong to another one.
func NewInvoice(
	companyID uuid.UUID,
	invoiceNumber string,
	periodStart, periodEnd time.Time,
	subtotal, tax valueobject.Money,
	dueDate time.Time,
	lineItems []InvoiceLineItem,
) (*Invoice, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot precede period start")
	}
	if len(lineItems) == 0 {
		return nil, shared.NewDomainError("INVALID_LINE_ITEMS", "Invoice must have at least one line item")
	}
	if subtotal.Currency() != tax.Currency() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subtotal and tax currencies must match")
	}

	total, err := subtotal.Add(tax)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		InvoiceNumber:     invoiceNumber,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		Status:            InvoiceStatusDraft,
		SubtotalCents:     subtotal.Cents(),
		TaxCents:          tax.Cents(),
		TotalCents:        total.Cents(),
		Currency:          subtotal.Currency(),
		DueDate:           dueDate,
		LineItems:         make([]InvoiceLineItem, len(lineItems)),
	}

	for i, li := range lineItems {
		li.InvoiceID = inv.ID
		inv.LineItems[i] = li
	}

	inv.AddDomainEvent(NewInvoiceGeneratedEvent(inv))

	return inv, nil
}

// Issue transitions the invoice from DRAFT to ISSUED and stamps issuedAt
func (inv *Invoice) Issue() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot issue invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// MarkPaid transitions the invoice from ISSUED to PAID, recording the
// external payment reference and stamping paidAt. Paying a DRAFT invoice is
// rejected: an invoice must be issued to the customer before money can be
// applied against it.
func (inv *Invoice) MarkPaid(paymentReference string) error {
	if inv.Status != InvoiceStatusIssued {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark invoice paid in %s status", inv.Status))
	}
	if paymentReference == "" {
		return shared.NewDomainError("INVALID_PAYMENT_REFERENCE", "Payment reference cannot be empty")
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.PaymentReference = paymentReference
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// Subtotal returns the subtotal as Money
func (inv *Invoice) Subtotal() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.SubtotalCents, inv.Currency)
	return m
}

// Tax returns the tax amount as Money
func (inv *Invoice) Tax() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.TaxCents, inv.Currency)
	return m
}

// Total returns the total as Money
func (inv *Invoice) Total() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.TotalCents, inv.Currency)
	return m
}

// IsDraft returns true if the invoice has not been issued yet
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsIssued returns true if the invoice has been issued and awaits payment
func (inv *Invoice) IsIssued() bool {
	return inv.Status == InvoiceStatusIssued
}

// IsPaid returns true if the invoice has been paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsOverdue returns true if the invoice is past its due date and unpaid
func (inv *Invoice) IsOverdue() bool {
	if inv.Status != InvoiceStatusIssued {
		return false
	}
	return time.Now().After(inv.DueDate)
}

// LineItemCount returns the number of line items on the invoice
func (inv *Invoice) LineItemCount() int {
	return len(inv.LineItems)
}
