package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// maxPrice límite exclusivo de NUMERIC(10,2).
var maxPrice = decimal.NewFromInt(100_000_000)

// NormalizePrice valida el precio contra NUMERIC(10,2): rechaza negativos, más de 2 decimales
// significativos (24.999) y valores fuera de rango. Los ceros a la derecha (8.990) se aceptan.
func NormalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price no puede ser negativo (%s)", domain.ErrInvalidInput, price.String())
	}
	rounded := price.Round(2)
	if !rounded.Equal(price) {
		return decimal.Zero, fmt.Errorf("%w: price admite como máximo 2 decimales (%s)", domain.ErrInvalidInput, price.String())
	}
	if rounded.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, fmt.Errorf("%w: price excede el máximo permitido (%s)", domain.ErrInvalidInput, price.String())
	}
	return rounded, nil
}
