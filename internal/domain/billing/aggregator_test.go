package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(companyID uuid.UUID, status OrderStatus, items ...OrderItem) Order {
	return Order{
		ID:        uuid.New(),
		CompanyID: companyID,
		Status:    status,
		CreatedAt: time.Now(),
		Items:     items,
	}
}

func TestAggregateOrders(t *testing.T) {
	companyID := uuid.New()
	saladID := uuid.New()
	bowlID := uuid.New()

	t.Run("groups items by product and sums quantities", func(t *testing.T) {
		orders := []Order{
			testOrder(companyID, OrderStatusDelivered,
				OrderItem{ProductID: saladID, ProductName: "Garden Salad", Quantity: 2, UnitPriceCents: 1250},
				OrderItem{ProductID: bowlID, ProductName: "Grain Bowl", Quantity: 1, UnitPriceCents: 1500},
			),
			testOrder(companyID, OrderStatusConfirmed,
				OrderItem{ProductID: saladID, ProductName: "Garden Salad", Quantity: 3, UnitPriceCents: 1250},
			),
		}

		lines, subtotal, err := AggregateOrders(orders)
		require.NoError(t, err)
		require.Len(t, lines, 2)

		assert.Equal(t, "Garden Salad", lines[0].Description)
		assert.Equal(t, int64(5), lines[0].Quantity)
		assert.Equal(t, int64(1250), lines[0].UnitPriceCents)
		assert.Equal(t, int64(6250), lines[0].TotalCents)
		assert.Equal(t, LineItemTypeMeal, lines[0].Type)
		assert.Equal(t, saladID.String(), lines[0].Metadata["product_id"])

		assert.Equal(t, "Grain Bowl", lines[1].Description)
		assert.Equal(t, int64(1500), lines[1].TotalCents)

		assert.Equal(t, int64(7750), subtotal.Cents())
	})

	t.Run("unit price comes from first occurrence in period", func(t *testing.T) {
		orders := []Order{
			testOrder(companyID, OrderStatusDelivered,
				OrderItem{ProductID: saladID, ProductName: "Garden Salad", Quantity: 1, UnitPriceCents: 1250},
			),
			// Mid-period price change is not detected
			testOrder(companyID, OrderStatusDelivered,
				OrderItem{ProductID: saladID, ProductName: "Garden Salad", Quantity: 1, UnitPriceCents: 1400},
			),
		}

		lines, subtotal, err := AggregateOrders(orders)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, int64(1250), lines[0].UnitPriceCents)
		assert.Equal(t, int64(2), lines[0].Quantity)
		assert.Equal(t, int64(2500), subtotal.Cents())
	})

	t.Run("subtotal equals sum of line totals", func(t *testing.T) {
		orders := []Order{
			testOrder(companyID, OrderStatusDelivered,
				OrderItem{ProductID: uuid.New(), ProductName: "Wrap", Quantity: 4, UnitPriceCents: 899},
				OrderItem{ProductID: uuid.New(), ProductName: "Soup", Quantity: 2, UnitPriceCents: 549},
			),
		}

		lines, subtotal, err := AggregateOrders(orders)
		require.NoError(t, err)

		var sum int64
		for _, li := range lines {
			assert.Equal(t, li.UnitPriceCents*li.Quantity, li.TotalCents)
			sum += li.TotalCents
		}
		assert.Equal(t, sum, subtotal.Cents())
	})

	t.Run("non-billable orders are skipped", func(t *testing.T) {
		orders := []Order{
			testOrder(companyID, OrderStatusCancelled,
				OrderItem{ProductID: saladID, ProductName: "Garden Salad", Quantity: 1, UnitPriceCents: 1250},
			),
			testOrder(companyID, OrderStatusPending,
				OrderItem{ProductID: bowlID, ProductName: "Grain Bowl", Quantity: 1, UnitPriceCents: 1500},
			),
		}

		_, _, err := AggregateOrders(orders)
		assert.ErrorIs(t, err, ErrNoBillableOrders)
	})

	t.Run("empty order set fails with no billable orders", func(t *testing.T) {
		_, _, err := AggregateOrders(nil)
		assert.ErrorIs(t, err, ErrNoBillableOrders)
	})
}

func TestOrderStatus_IsBillable(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		billable bool
	}{
		{OrderStatusDelivered, true},
		{OrderStatusConfirmed, true},
		{OrderStatusPending, false},
		{OrderStatusPreparing, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.billable, tt.status.IsBillable())
		})
	}
}
