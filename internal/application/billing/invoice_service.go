package billing

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// maxNumberingAttempts bounds the retry loop around invoice number
// assignment. Each attempt recomputes the number, so a conflict with a
// concurrent writer resolves on the next pass.
const maxNumberingAttempts = 3

// InvoiceService provides the single-invoice billing operations: generation,
// issuing and payment recording. Every state change is written atomically
// with its audit entry through the unit of work.
type InvoiceService struct {
	companies billing.CompanySource
	orders    billing.OrderSource
	invoices  billing.InvoiceRepository
	audit     billing.AuditLogRepository
	uow       billing.UnitOfWork
	notifier  billing.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	companies billing.CompanySource,
	orders billing.OrderSource,
	invoices billing.InvoiceRepository,
	audit billing.AuditLogRepository,
	uow billing.UnitOfWork,
	notifier billing.Notifier,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		companies: companies,
		orders:    orders,
		invoices:  invoices,
		audit:     audit,
		uow:       uow,
		notifier:  notifier,
		logger:    logger.Named("invoice-service"),
		now:       time.Now,
	}
}

// GenerateInvoiceRequest describes one invoice generation
type GenerateInvoiceRequest struct {
	CompanyID   uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	PerformedBy string // empty means SYSTEM
}

// GenerateInvoiceResult summarizes a generated invoice
type GenerateInvoiceResult struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	TotalCents    int64     `json:"total_cents"`
	LineItemCount int       `json:"line_item_count"`
}

// GenerateInvoice aggregates the company's billable orders for the period
// into a DRAFT invoice: one MEAL line per product, flat-rate tax, due date
// from the company's payment terms. Invoice, line items and the
// INVOICE_GENERATED audit entry commit in one transaction.
//
// Generation is not idempotent: a repeat call for the same company and
// period creates a second, distinct invoice.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, req GenerateInvoiceRequest) (*GenerateInvoiceResult, error) {
	company, err := s.companies.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindBillableOrders(ctx, req.CompanyID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	lines, subtotal, err := billing.AggregateOrders(orders)
	if err != nil {
		return nil, err
	}

	tax := billing.Tax(subtotal)
	dueDate := company.PaymentTerms.DueDate(req.PeriodEnd)

	for attempt := 1; attempt <= maxNumberingAttempts; attempt++ {
		number, err := s.invoices.NextInvoiceNumber(ctx, req.PeriodEnd)
		if err != nil {
			return nil, err
		}

		inv, err := billing.NewInvoice(req.CompanyID, number, req.PeriodStart, req.PeriodEnd, subtotal, tax, dueDate, lines)
		if err != nil {
			return nil, err
		}

		err = s.uow.Execute(ctx, func(tx billing.TxRepositories) error {
			if err := tx.Invoices().Create(ctx, inv); err != nil {
				return err
			}
			entry := billing.NewAuditLogEntry(billing.AuditEntityInvoice, inv.ID,
				billing.AuditActionInvoiceGenerated, req.PerformedBy, billing.Metadata{
					"invoice_number":  inv.InvoiceNumber,
					"period_start":    req.PeriodStart.Format(time.DateOnly),
					"period_end":      req.PeriodEnd.Format(time.DateOnly),
					"total_cents":     strconv.FormatInt(inv.TotalCents, 10),
					"line_item_count": strconv.Itoa(inv.LineItemCount()),
				})
			return tx.AuditLog().Append(ctx, entry)
		})
		if errors.Is(err, billing.ErrNumberingConflict) {
			s.logger.Warn("invoice number conflict, retrying",
				zap.String("invoice_number", number),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("invoice generated",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.String("company_id", req.CompanyID.String()),
			zap.Int64("total_cents", inv.TotalCents),
			zap.Int("line_items", inv.LineItemCount()))

		return &GenerateInvoiceResult{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			TotalCents:    inv.TotalCents,
			LineItemCount: inv.LineItemCount(),
		}, nil
	}

	return nil, billing.ErrNumberingConflict
}

// Issue transitions an invoice from DRAFT to ISSUED, writing the
// INVOICE_ISSUED audit entry in the same transaction. After the commit the
// customer notification is dispatched best-effort: a broken notification
// channel never rolls back or fails the transition.
func (s *InvoiceService) Issue(ctx context.Context, invoiceID uuid.UUID, performedBy string) error {
	var issued *billing.Invoice

	err := s.uow.Execute(ctx, func(tx billing.TxRepositories) error {
		inv, err := tx.Invoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.Issue(); err != nil {
			return err
		}
		if err := tx.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		entry := billing.NewAuditLogEntry(billing.AuditEntityInvoice, inv.ID,
			billing.AuditActionInvoiceIssued, performedBy, billing.Metadata{
				"invoice_number": inv.InvoiceNumber,
			})
		if err := tx.AuditLog().Append(ctx, entry); err != nil {
			return err
		}
		issued = inv
		return nil
	})
	if err != nil {
		return err
	}

	if notifyErr := s.notifier.InvoiceIssued(ctx, issued); notifyErr != nil {
		s.logger.Warn("invoice notification failed",
			zap.String("invoice_number", issued.InvoiceNumber),
			zap.Error(notifyErr))
	}

	return nil
}

// MarkPaid transitions an invoice from ISSUED to PAID, recording the
// external payment reference and the INVOICE_PAID audit entry atomically.
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID, paymentReference, performedBy string) error {
	return s.uow.Execute(ctx, func(tx billing.TxRepositories) error {
		inv, err := tx.Invoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.MarkPaid(paymentReference); err != nil {
			return err
		}
		if err := tx.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		entry := billing.NewAuditLogEntry(billing.AuditEntityInvoice, inv.ID,
			billing.AuditActionInvoicePaid, performedBy, billing.Metadata{
				"invoice_number":    inv.InvoiceNumber,
				"payment_reference": paymentReference,
			})
		return tx.AuditLog().Append(ctx, entry)
	})
}

// GetInvoice loads an invoice with its line items
func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoices.FindByID(ctx, invoiceID)
}

// ListCompanyInvoices lists a company's invoices, newest first
func (s *InvoiceService) ListCompanyInvoices(ctx context.Context, companyID uuid.UUID) ([]billing.Invoice, error) {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.invoices.FindByCompany(ctx, companyID)
}

// GetAuditTrail returns the invoice's audit entries, oldest first
func (s *InvoiceService) GetAuditTrail(ctx context.Context, invoiceID uuid.UUID) ([]billing.AuditLogEntry, error) {
	if _, err := s.invoices.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.audit.FindByEntity(ctx, billing.AuditEntityInvoice, invoiceID)
}
