package billing

import (
	"testing"

	"github.com/mealflow/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
)

func TestTax(t *testing.T) {
	tests := []struct {
		name          string
		subtotalCents int64
		taxCents      int64
	}{
		{"zero subtotal", 0, 0},
		{"$100.00 at 6.5%", 10000, 650},
		{"$1000.00 at 6.5%", 100000, 6500},
		{"rounds half up", 10, 1},        // 0.65 cents -> 1
		{"rounds down below half", 6, 0}, // 0.39 cents -> 0
		{"one cent", 1, 0},
		{"large subtotal", 12345678, 802469}, // 802469.07 -> 802469
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := Tax(valueobject.USDFromCents(tt.subtotalCents))
			assert.Equal(t, tt.taxCents, tax.Cents())
			assert.False(t, tax.IsNegative())
			assert.Equal(t, valueobject.USD, tax.Currency())
		})
	}
}

func TestTax_Deterministic(t *testing.T) {
	subtotal := valueobject.USDFromCents(99999)
	assert.Equal(t, Tax(subtotal), Tax(subtotal))
}
