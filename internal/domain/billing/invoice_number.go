package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Invoice numbers follow INV-YYYY-MM-NNN where NNN is a per-month sequence
// zero-padded to three digits. Sequences past 999 widen naturally
// (INV-2025-03-1000).

// InvoiceNumberPrefix returns the month prefix for a reference date,
// e.g. "INV-2025-03-"
func InvoiceNumberPrefix(ref time.Time) string {
	return fmt.Sprintf("INV-%04d-%02d-", ref.Year(), int(ref.Month()))
}

// FormatInvoiceNumber builds the invoice number for a month prefix and
// sequence value
func FormatInvoiceNumber(ref time.Time, sequence int) string {
	return fmt.Sprintf("%s%03d", InvoiceNumberPrefix(ref), sequence)
}

// SequenceFromInvoiceNumber parses the trailing numeric suffix from an
// invoice number. Returns an error if the suffix is not numeric.
func SequenceFromInvoiceNumber(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("malformed invoice number %q", number)
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed invoice number %q: %w", number, err)
	}
	return seq, nil
}
