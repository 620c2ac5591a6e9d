package dto

import (
	"time"

	"github.com/mealflow/backend/internal/domain/billing"
)

// GenerateInvoiceRequest is the payload for manual invoice generation.
// Dates use YYYY-MM-DD.
type GenerateInvoiceRequest struct {
	CompanyID   string `json:"company_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" binding:"required,datetime=2006-01-02"`
	PerformedBy string `json:"performed_by"`
}

// IssueInvoiceRequest is the payload for issuing an invoice
type IssueInvoiceRequest struct {
	PerformedBy string `json:"performed_by"`
}

// PayInvoiceRequest is the payload for recording a payment
type PayInvoiceRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
	PerformedBy      string `json:"performed_by"`
}

// LineItemResponse is one line item in an invoice response
type LineItemResponse struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Description    string            `json:"description"`
	Quantity       int64             `json:"quantity"`
	UnitPriceCents int64             `json:"unit_price_cents"`
	TotalCents     int64             `json:"total_cents"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// InvoiceResponse is the API view of an invoice
type InvoiceResponse struct {
	ID               string             `json:"id"`
	CompanyID        string             `json:"company_id"`
	InvoiceNumber    string             `json:"invoice_number"`
	PeriodStart      string             `json:"period_start"`
	PeriodEnd        string             `json:"period_end"`
	Status           string             `json:"status"`
	SubtotalCents    int64              `json:"subtotal_cents"`
	TaxCents         int64              `json:"tax_cents"`
	TotalCents       int64              `json:"total_cents"`
	Currency         string             `json:"currency"`
	DueDate          string             `json:"due_date"`
	IssuedAt         *time.Time         `json:"issued_at,omitempty"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	LineItems        []LineItemResponse `json:"line_items"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// ToInvoiceResponse maps a domain invoice to its API representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:               inv.ID.String(),
		CompanyID:        inv.CompanyID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		PeriodStart:      inv.PeriodStart.Format(time.DateOnly),
		PeriodEnd:        inv.PeriodEnd.Format(time.DateOnly),
		Status:           inv.Status.String(),
		SubtotalCents:    inv.SubtotalCents,
		TaxCents:         inv.TaxCents,
		TotalCents:       inv.TotalCents,
		Currency:         string(inv.Currency),
		DueDate:          inv.DueDate.Format(time.DateOnly),
		IssuedAt:         inv.IssuedAt,
		PaidAt:           inv.PaidAt,
		PaymentReference: inv.PaymentReference,
		LineItems:        make([]LineItemResponse, len(inv.LineItems)),
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
	for i, li := range inv.LineItems {
		resp.LineItems[i] = LineItemResponse{
			ID:             li.ID.String(),
			Type:           string(li.Type),
			Description:    li.Description,
			Quantity:       li.Quantity,
			UnitPriceCents: li.UnitPriceCents,
			TotalCents:     li.TotalCents,
			Metadata:       li.Metadata,
		}
	}
	return resp
}

// InvoiceListResponse is a list of invoices for one company
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Count    int               `json:"count"`
}

// ToInvoiceListResponse maps domain invoices to the list representation
func ToInvoiceListResponse(invoices []billing.Invoice) InvoiceListResponse {
	resp := InvoiceListResponse{
		Invoices: make([]InvoiceResponse, len(invoices)),
		Count:    len(invoices),
	}
	for i := range invoices {
		resp.Invoices[i] = ToInvoiceResponse(&invoices[i])
	}
	return resp
}

// AuditEntryResponse is one audit trail entry
type AuditEntryResponse struct {
	ID          string            `json:"id"`
	Action      string            `json:"action"`
	PerformedBy string            `json:"performed_by"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AuditTrailResponse is the full audit history of one invoice
type AuditTrailResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Count   int                  `json:"count"`
}

// ToAuditTrailResponse maps audit entries to their API representation
func ToAuditTrailResponse(entries []billing.AuditLogEntry) AuditTrailResponse {
	resp := AuditTrailResponse{
		Entries: make([]AuditEntryResponse, len(entries)),
		Count:   len(entries),
	}
	for i, e := range entries {
		resp.Entries[i] = AuditEntryResponse{
			ID:          e.ID.String(),
			Action:      string(e.Action),
			PerformedBy: e.PerformedBy,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		}
	}
	return resp
}

// RunSummaryResponse is the outcome of a billing run
type RunSummaryResponse struct {
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`
}
