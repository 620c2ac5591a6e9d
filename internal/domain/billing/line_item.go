package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/shared"
	"github.com/mealflow/backend/internal/domain/shared/valueobject"
)

// LineItemType represents the kind of charge a line item carries
type LineItemType string

const (
	LineItemTypeMeal         LineItemType = "MEAL"
	LineItemTypeSubscription LineItemType = "SUBSCRIPTION"
	LineItemTypeDiscount     LineItemType = "DISCOUNT"
	LineItemTypeCredit       LineItemType = "CREDIT"
	LineItemTypeAdjustment   LineItemType = "ADJUSTMENT"
)

// IsValid checks if the type is a valid LineItemType
func (t LineItemType) IsValid() bool {
	switch t {
	case LineItemTypeMeal, LineItemTypeSubscription, LineItemTypeDiscount,
		LineItemTypeCredit, LineItemTypeAdjustment:
		return true
	}
	return false
}

// InvoiceLineItem is one aggregated charge on an invoice. Line items are
// owned exclusively by their invoice, created once and never mutated.
type InvoiceLineItem struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	Type           LineItemType
	Description    string
	Quantity       int64
	UnitPriceCents int64
	TotalCents     int64
	Metadata       Metadata
	CreatedAt      time.Time
}

// NewLineItem creates a line item not yet attached to an invoice. The
// invoice id is assigned when the invoice is constructed.
func NewLineItem(itemType LineItemType, description string, quantity int64, unitPrice valueobject.Money, metadata Metadata) (*InvoiceLineItem, error) {
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LINE_ITEM_TYPE", "Line item type is not valid")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item description cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item quantity must be positive")
	}
	if metadata == nil {
		metadata = Metadata{}
	}
	return &InvoiceLineItem{
		ID:             uuid.New(),
		Type:           itemType,
		Description:    description,
		Quantity:       quantity,
		UnitPriceCents: unitPrice.Cents(),
		TotalCents:     unitPrice.MulQuantity(quantity).Cents(),
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}, nil
}

// UnitPrice returns the unit price as Money
func (li *InvoiceLineItem) UnitPrice() valueobject.Money {
	return valueobject.USDFromCents(li.UnitPriceCents)
}

// Total returns the line total as Money
func (li *InvoiceLineItem) Total() valueobject.Money {
	return valueobject.USDFromCents(li.TotalCents)
}
