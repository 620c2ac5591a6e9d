package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// MonthlyRunService drives the scheduled billing run: one invoice per active
// company for the previous calendar month, issued immediately. It is the only
// component allowed to absorb per-company billing errors; everywhere else
// they propagate to the caller.
type MonthlyRunService struct {
	companies billing.CompanySource
	invoices  *InvoiceService
	logger    *zap.Logger
	now       func() time.Time
}

// NewMonthlyRunService creates a new MonthlyRunService
func NewMonthlyRunService(companies billing.CompanySource, invoices *InvoiceService, logger *zap.Logger) *MonthlyRunService {
	return &MonthlyRunService{
		companies: companies,
		invoices:  invoices,
		logger:    logger.Named("monthly-run"),
		now:       time.Now,
	}
}

// RunSummary is the outcome of one batch run
type RunSummary struct {
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`
}

// companyResult is one company's tagged outcome within a run. The runner
// folds these into the summary, which keeps the never-abort behavior
// structural rather than hidden in error handling.
type companyResult struct {
	companyID     uuid.UUID
	companyName   string
	invoiceNumber string
	err           error
}

// PreviousMonth returns the full previous calendar month for a reference
// date: midnight UTC on the first day through the last instant of the last
// day. The end must cover the whole final day because the order window
// filter treats it as inclusive.
func PreviousMonth(ref time.Time) (start, end time.Time) {
	firstOfCurrent := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	start = firstOfCurrent.AddDate(0, -1, 0)
	end = firstOfCurrent.Add(-time.Nanosecond)
	return start, end
}

// Run bills every active company for the previous calendar month and
// auto-issues each generated invoice as SYSTEM. A failure for one company,
// including a company with nothing to bill, is counted and logged but never
// stops the remaining companies. Run itself never fails: every outcome is
// reflected in the summary.
func (s *MonthlyRunService) Run(ctx context.Context) RunSummary {
	periodStart, periodEnd := PreviousMonth(s.now())

	s.logger.Info("monthly invoicing run started",
		zap.String("period_start", periodStart.Format(time.DateOnly)),
		zap.String("period_end", periodEnd.Format(time.DateOnly)))

	companies, err := s.companies.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active companies", zap.Error(err))
		return RunSummary{}
	}

	results := make([]companyResult, 0, len(companies))
	for _, company := range companies {
		results = append(results, s.billCompany(ctx, company, periodStart, periodEnd))
	}

	var summary RunSummary
	for _, r := range results {
		if r.err != nil {
			summary.ErrorCount++
			s.logger.Warn("company billing failed",
				zap.String("company_id", r.companyID.String()),
				zap.String("company_name", r.companyName),
				zap.Error(r.err))
			continue
		}
		summary.SuccessCount++
	}

	s.logger.Info("monthly invoicing run finished",
		zap.Int("success_count", summary.SuccessCount),
		zap.Int("error_count", summary.ErrorCount))

	return summary
}

// billCompany generates and issues one company's invoice, returning the
// tagged outcome. Each company runs in its own transactions, so a rollback
// here cannot affect another company's commit.
func (s *MonthlyRunService) billCompany(ctx context.Context, company billing.Company, periodStart, periodEnd time.Time) companyResult {
	result := companyResult{companyID: company.ID, companyName: company.Name}

	generated, err := s.invoices.GenerateInvoice(ctx, GenerateInvoiceRequest{
		CompanyID:   company.ID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PerformedBy: billing.SystemActor,
	})
	if err != nil {
		result.err = err
		return result
	}
	result.invoiceNumber = generated.InvoiceNumber

	if err := s.invoices.Issue(ctx, generated.InvoiceID, billing.SystemActor); err != nil {
		result.err = err
		return result
	}

	s.logger.Info("company billed",
		zap.String("company_id", company.ID.String()),
		zap.String("invoice_number", generated.InvoiceNumber),
		zap.Int64("total_cents", generated.TotalCents))

	return result
}
