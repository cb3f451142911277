package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// MovementRecorder convierte un cambio de cantidad en exactamente un movimiento persistido.
// No lee ni revalida el artículo; escribe con el repositorio de la transacción del llamador.
type MovementRecorder struct {
	now func() time.Time
}

// NewMovementRecorder construye el registrador. now nil usa la hora UTC actual.
func NewMovementRecorder(now func() time.Time) *MovementRecorder {
	if now == nil {
		now = utcNow
	}
	return &MovementRecorder{now: now}
}

// Record persiste el movimiento derivado de previous → next. Devuelve nil sin escribir si no hubo cambio.
func (r *MovementRecorder) Record(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	itemID string,
	previous, next int,
	reason string,
) (*entity.StockMovement, error) {
	mov, changed := inventory.DeriveMovement(itemID, previous, next, reason, r.now())
	if !changed {
		return nil, nil
	}
	mov.ID = uuid.New().String()
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
