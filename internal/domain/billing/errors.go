package billing

import "github.com/mealflow/backend/internal/domain/shared"

// Billing-specific domain errors. These are sentinel values so callers can
// branch with errors.Is; the batch runner is the only caller allowed to
// absorb them.
var (
	// ErrNoBillableOrders is a terminal per-company condition, not a system
	// error: the company simply had nothing to bill in the period.
	ErrNoBillableOrders = shared.NewDomainError("NO_BILLABLE_ORDERS", "No billable orders in the billing period")

	// ErrCompanyNotFound indicates a data integrity problem: the company
	// referenced for payment-terms lookup does not exist.
	ErrCompanyNotFound = shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")

	// ErrNumberingConflict is transient: another writer claimed the same
	// invoice number. Generation retries with a freshly computed number.
	ErrNumberingConflict = shared.NewDomainError("NUMBERING_CONFLICT", "Invoice number already assigned")
)
