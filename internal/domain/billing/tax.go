package billing

import (
	"github.com/mealflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// taxRate is the flat tax rate applied to every invoice subtotal.
// Jurisdiction-aware tax tables are out of scope.
var taxRate = decimal.New(65, -3) // 6.5%

// Tax computes the flat-rate tax on a subtotal, rounding half-up to whole
// cents. Pure and deterministic.
func Tax(subtotal valueobject.Money) valueobject.Money {
	cents := decimal.NewFromInt(subtotal.Cents()).Mul(taxRate).Round(0)
	m, _ := valueobject.NewMoney(cents.IntPart(), subtotal.Currency())
	return m
}
