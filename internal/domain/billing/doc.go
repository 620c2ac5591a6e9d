// Package billing contains the invoice generation core: order aggregation,
// tax and due-date calculation, sequential invoice numbering, the invoice
// lifecycle state machine and the audit trail written alongside every
// state change.
//
// Orders and companies are owned by the ordering system and appear here as
// read-only models. Invoices and their line items are owned by this package:
// they are created atomically in DRAFT, transition DRAFT -> ISSUED -> PAID
// and are never deleted. Corrections are expressed as ADJUSTMENT or CREDIT
// line items on a later invoice.
package billing
