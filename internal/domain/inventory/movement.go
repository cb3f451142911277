package inventory

import (
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// DeriveMovement traduce un cambio de cantidad en un movimiento (servicio de dominio, sin efectos).
// Si next == previous no hay movimiento y devuelve false.
// Dirección: in si next > previous, out en otro caso; magnitud = |next - previous|.
func DeriveMovement(itemID string, previous, next int, reason string, now time.Time) (*entity.StockMovement, bool) {
	if next == previous {
		return nil, false
	}
	movType := entity.MovementTypeOut
	magnitude := previous - next
	if next > previous {
		movType = entity.MovementTypeIn
		magnitude = next - previous
	}
	return &entity.StockMovement{
		ItemID:    itemID,
		Type:      movType,
		Quantity:  magnitude,
		Reason:    reason,
		CreatedAt: now,
	}, true
}

// ApplyMovement calcula la cantidad resultante de aplicar un movimiento in/out a current.
// ok es false si el tipo no es in/out o si una salida deja la cantidad en negativo.
func ApplyMovement(current int, movType string, magnitude int) (next int, ok bool) {
	switch movType {
	case entity.MovementTypeIn:
		return current + magnitude, true
	case entity.MovementTypeOut:
		if magnitude > current {
			return current, false
		}
		return current - magnitude, true
	}
	return current, false
}
