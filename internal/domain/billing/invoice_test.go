package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/shared"
	"github.com/mealflow/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()

	line, err := NewLineItem(LineItemTypeMeal, "Garden Salad", 80, valueobject.USDFromCents(1250), nil)
	require.NoError(t, err)

	periodStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	subtotal := valueobject.USDFromCents(100000)
	tax := Tax(subtotal)

	inv, err := NewInvoice(
		uuid.New(),
		"INV-2025-02-001",
		periodStart, periodEnd,
		subtotal, tax,
		PaymentTermsNet15.DueDate(periodEnd),
		[]InvoiceLineItem{*line},
	)
	require.NoError(t, err)
	return inv
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice with derived total", func(t *testing.T) {
		inv := createTestInvoice(t)

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, int64(100000), inv.SubtotalCents)
		assert.Equal(t, int64(6500), inv.TaxCents)
		assert.Equal(t, int64(106500), inv.TotalCents)
		assert.Equal(t, valueobject.USD, inv.Currency)
		assert.Nil(t, inv.IssuedAt)
		assert.Nil(t, inv.PaidAt)
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), inv.DueDate)
	})

	t.Run("total always equals subtotal plus tax", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Equal(t, inv.SubtotalCents+inv.TaxCents, inv.TotalCents)
	})

	t.Run("line items are attached to the new invoice", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.Len(t, inv.LineItems, 1)
		assert.Equal(t, inv.ID, inv.LineItems[0].InvoiceID)
	})

	t.Run("raises generated event", func(t *testing.T) {
		inv := createTestInvoice(t)
		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeInvoiceGenerated, events[0].EventType())
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		line, err := NewLineItem(LineItemTypeMeal, "Wrap", 1, valueobject.USDFromCents(899), nil)
		require.NoError(t, err)
		_, err = NewInvoice(uuid.New(), "", time.Now(), time.Now(),
			valueobject.USDFromCents(899), valueobject.USDFromCents(58),
			time.Now(), []InvoiceLineItem{*line})
		assertDomainErrorCode(t, err, "INVALID_INVOICE_NUMBER")
	})

	t.Run("rejects empty line items", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-2025-02-002", time.Now(), time.Now(),
			valueobject.USDFromCents(0), valueobject.USDFromCents(0),
			time.Now(), nil)
		assertDomainErrorCode(t, err, "INVALID_LINE_ITEMS")
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		line, err := NewLineItem(LineItemTypeMeal, "Wrap", 1, valueobject.USDFromCents(899), nil)
		require.NoError(t, err)
		start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		_, err = NewInvoice(uuid.New(), "INV-2025-02-003", start, start.AddDate(0, 0, -1),
			valueobject.USDFromCents(899), valueobject.USDFromCents(58),
			time.Now(), []InvoiceLineItem{*line})
		assertDomainErrorCode(t, err, "INVALID_PERIOD")
	})
}

func TestInvoice_Issue(t *testing.T) {
	t.Run("issues a draft invoice exactly once", func(t *testing.T) {
		inv := createTestInvoice(t)

		err := inv.Issue()
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		require.NotNil(t, inv.IssuedAt)

		// Second issue fails
		err = inv.Issue()
		assertDomainErrorCode(t, err, "INVALID_STATE")
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
	})

	t.Run("cannot issue a paid invoice", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.MarkPaid("PAY-REF-123"))

		err := inv.Issue()
		assertDomainErrorCode(t, err, "INVALID_STATE")
	})

	t.Run("raises issued event", func(t *testing.T) {
		inv := createTestInvoice(t)
		inv.ClearDomainEvents()
		require.NoError(t, inv.Issue())

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeInvoiceIssued, events[0].EventType())
	})
}

func TestInvoice_MarkPaid(t *testing.T) {
	t.Run("marks issued invoice paid with payment reference", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.Issue())

		err := inv.MarkPaid("PAY-REF-123")
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.PaidAt)
		assert.Equal(t, "PAY-REF-123", inv.PaymentReference)
	})

	t.Run("rejects payment of a draft invoice", func(t *testing.T) {
		// Paying before issuing is rejected: the invoice must reach the
		// customer before money can be applied against it.
		inv := createTestInvoice(t)

		err := inv.MarkPaid("PAY-REF-123")
		assertDomainErrorCode(t, err, "INVALID_STATE")
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
	})

	t.Run("rejects empty payment reference", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.Issue())

		err := inv.MarkPaid("")
		assertDomainErrorCode(t, err, "INVALID_PAYMENT_REFERENCE")
	})

	t.Run("no transition out of PAID", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.MarkPaid("PAY-REF-123"))

		err := inv.MarkPaid("PAY-REF-456")
		assertDomainErrorCode(t, err, "INVALID_STATE")
		assert.Equal(t, "PAY-REF-123", inv.PaymentReference)
	})
}

func TestInvoiceStatus(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.IsValid())
	assert.True(t, InvoiceStatusIssued.IsValid())
	assert.True(t, InvoiceStatusPaid.IsValid())
	assert.False(t, InvoiceStatus("VOID").IsValid())

	assert.True(t, InvoiceStatusPaid.IsTerminal())
	assert.False(t, InvoiceStatusDraft.IsTerminal())
	assert.False(t, InvoiceStatusIssued.IsTerminal())
}

func TestNewLineItem(t *testing.T) {
	t.Run("computes line total", func(t *testing.T) {
		li, err := NewLineItem(LineItemTypeMeal, "Grain Bowl", 3, valueobject.USDFromCents(1500), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(4500), li.TotalCents)
		assert.NotNil(t, li.Metadata)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewLineItem(LineItemType("FEE"), "Service fee", 1, valueobject.USDFromCents(100), nil)
		assertDomainErrorCode(t, err, "INVALID_LINE_ITEM_TYPE")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewLineItem(LineItemTypeMeal, "Grain Bowl", 0, valueobject.USDFromCents(1500), nil)
		assertDomainErrorCode(t, err, "INVALID_LINE_ITEM")
	})
}
