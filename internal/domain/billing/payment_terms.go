package billing

import "time"

// PaymentTerms controls how many days after period end an invoice is due
type PaymentTerms string

const (
	PaymentTermsNet15 PaymentTerms = "NET_15"
	PaymentTermsNet30 PaymentTerms = "NET_30"
	PaymentTermsNet60 PaymentTerms = "NET_60"
	PaymentTermsNet90 PaymentTerms = "NET_90"
)

// DefaultPaymentTerms applies when a company carries no recognized terms
const DefaultPaymentTerms = PaymentTermsNet30

// IsValid checks if the value is a recognized PaymentTerms
func (p PaymentTerms) IsValid() bool {
	switch p {
	case PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet60, PaymentTermsNet90:
		return true
	}
	return false
}

// Days returns the number of days after period end until payment is due.
// Unrecognized or missing terms intentionally fall back to NET_30; the
// default arm is the documented behavior, not an oversight.
func (p PaymentTerms) Days() int {
	switch p {
	case PaymentTermsNet15:
		return 15
	case PaymentTermsNet30:
		return 30
	case PaymentTermsNet60:
		return 60
	case PaymentTermsNet90:
		return 90
	default:
		return 30
	}
}

// DueDate returns the invoice due date for a billing period ending at
// periodEnd. Callers may pass the period end as midnight or as the last
// instant of the day; the due date is always the calendar day at midnight UTC.
func (p PaymentTerms) DueDate(periodEnd time.Time) time.Time {
	day := time.Date(periodEnd.Year(), periodEnd.Month(), periodEnd.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, p.Days())
}
