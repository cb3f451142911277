package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// MovementQuery filtro y paginación para listar movimientos.
type MovementQuery struct {
	ItemID string // vacío = todos los artículos
	Limit  int
	Offset int
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
// Los movimientos son de solo inserción: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve la página pedida (más recientes primero) y el total de filas del filtro.
	List(ctx context.Context, q MovementQuery) ([]*entity.StockMovement, int, error)
}
