package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/mealflow/backend/internal/application/billing"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InvoiceOperations is the invoice surface the handler depends on
type InvoiceOperations interface {
	GenerateInvoice(ctx context.Context, req appbilling.GenerateInvoiceRequest) (*appbilling.GenerateInvoiceResult, error)
	Issue(ctx context.Context, invoiceID uuid.UUID, performedBy string) error
	MarkPaid(ctx context.Context, invoiceID uuid.UUID, paymentReference, performedBy string) error
	GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error)
	ListCompanyInvoices(ctx context.Context, companyID uuid.UUID) ([]billing.Invoice, error)
	GetAuditTrail(ctx context.Context, invoiceID uuid.UUID) ([]billing.AuditLogEntry, error)
}

// BatchOperations triggers a full billing run
type BatchOperations interface {
	Run(ctx context.Context) appbilling.RunSummary
}

// BillingHandler handles invoice and billing-run API endpoints
type BillingHandler struct {
	BaseHandler
	invoices InvoiceOperations
	batch    BatchOperations
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(invoices InvoiceOperations, batch BatchOperations) *BillingHandler {
	return &BillingHandler{
		invoices: invoices,
		batch:    batch,
	}
}

// RegisterRoutes wires the billing endpoints under the API group
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/generate", h.GenerateInvoice)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/issue", h.IssueInvoice)
		invoices.POST("/:id/pay", h.PayInvoice)
		invoices.GET("/:id/audit", h.GetAuditTrail)
	}

	rg.GET("/companies/:id/invoices", h.ListCompanyInvoices)
	rg.POST("/billing/runs", h.TriggerBillingRun)
}

// GenerateInvoice creates a DRAFT invoice for one company and period
// POST /api/v1/invoices/generate
func (h *BillingHandler) GenerateInvoice(c *gin.Context) {
	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	periodStart, err := time.ParseInLocation(time.DateOnly, req.PeriodStart, time.UTC)
	if err != nil {
		h.BadRequest(c, "Invalid period_start format, expected YYYY-MM-DD")
		return
	}
	periodEnd, err := time.ParseInLocation(time.DateOnly, req.PeriodEnd, time.UTC)
	if err != nil {
		h.BadRequest(c, "Invalid period_end format, expected YYYY-MM-DD")
		return
	}
	// The period end is inclusive, so extend it to the last instant of the day.
	periodEnd = periodEnd.Add(24*time.Hour - time.Nanosecond)

	result, err := h.invoices.GenerateInvoice(c.Request.Context(), appbilling.GenerateInvoiceRequest{
		CompanyID:   companyID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PerformedBy: req.PerformedBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetInvoice returns one invoice with its line items
// GET /api/v1/invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	inv, err := h.invoices.GetInvoice(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToInvoiceResponse(inv))
}

// IssueInvoice transitions a DRAFT invoice to ISSUED
// POST /api/v1/invoices/:id/issue
func (h *BillingHandler) IssueInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	// The body is optional: it only carries the acting user.
	var body dto.IssueInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	invoiceID := uuid.MustParse(req.ID)
	if err := h.invoices.Issue(c.Request.Context(), invoiceID, body.PerformedBy); err != nil {
		h.HandleError(c, err)
		return
	}

	inv, err := h.invoices.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToInvoiceResponse(inv))
}

// PayInvoice records payment against an ISSUED invoice
// POST /api/v1/invoices/:id/pay
func (h *BillingHandler) PayInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var body dto.PayInvoiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoiceID := uuid.MustParse(req.ID)
	if err := h.invoices.MarkPaid(c.Request.Context(), invoiceID, body.PaymentReference, body.PerformedBy); err != nil {
		h.HandleError(c, err)
		return
	}

	inv, err := h.invoices.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToInvoiceResponse(inv))
}

// ListCompanyInvoices returns all invoices for one company, newest first
// GET /api/v1/companies/:id/invoices
func (h *BillingHandler) ListCompanyInvoices(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	invoices, err := h.invoices.ListCompanyInvoices(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToInvoiceListResponse(invoices))
}

// GetAuditTrail returns the invoice's audit entries, oldest first
// GET /api/v1/invoices/:id/audit
func (h *BillingHandler) GetAuditTrail(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	entries, err := h.invoices.GetAuditTrail(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToAuditTrailResponse(entries))
}

// TriggerBillingRun bills every active company for the previous calendar month
// POST /api/v1/billing/runs
func (h *BillingHandler) TriggerBillingRun(c *gin.Context) {
	summary := h.batch.Run(c.Request.Context())

	h.Success(c, dto.RunSummaryResponse{
		SuccessCount: summary.SuccessCount,
		ErrorCount:   summary.ErrorCount,
	})
}
