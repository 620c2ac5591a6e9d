package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/shared/valueobject"
)

// metadataKeyProductID records which product an aggregated MEAL line came from
const metadataKeyProductID = "product_id"

// AggregateOrders folds a company's billable orders for a period into one
// MEAL line item per product, summing quantities across orders. The unit
// price is taken from the first occurrence of the product in the period;
// mid-period price changes are not detected, the invoice reflects the first
// price seen.
//
// Returns the line items in first-seen product order together with the
// subtotal. Returns ErrNoBillableOrders when the orders contain nothing
// billable.
func AggregateOrders(orders []Order) ([]InvoiceLineItem, valueobject.Money, error) {
	type bucket struct {
		description string
		quantity    int64
		unitPrice   valueobject.Money
		productID   uuid.UUID
	}

	index := make(map[uuid.UUID]int)
	buckets := make([]*bucket, 0)

	for _, order := range orders {
		if !order.IsBillable() {
			continue
		}
		for _, item := range order.Items {
			if i, ok := index[item.ProductID]; ok {
				buckets[i].quantity += item.Quantity
				continue
			}
			index[item.ProductID] = len(buckets)
			buckets = append(buckets, &bucket{
				description: item.ProductName,
				quantity:    item.Quantity,
				unitPrice:   valueobject.USDFromCents(item.UnitPriceCents),
				productID:   item.ProductID,
			})
		}
	}

	if len(buckets) == 0 {
		return nil, valueobject.Money{}, ErrNoBillableOrders
	}

	lines := make([]InvoiceLineItem, 0, len(buckets))
	subtotal := valueobject.USDFromCents(0)
	for _, b := range buckets {
		line, err := NewLineItem(LineItemTypeMeal, b.description, b.quantity, b.unitPrice, Metadata{
			metadataKeyProductID: b.productID.String(),
		})
		if err != nil {
			return nil, valueobject.Money{}, fmt.Errorf("aggregate orders: %w", err)
		}
		lines = append(lines, *line)
		subtotal, err = subtotal.Add(line.Total())
		if err != nil {
			return nil, valueobject.Money{}, fmt.Errorf("aggregate orders: %w", err)
		}
	}

	return lines, subtotal, nil
}
