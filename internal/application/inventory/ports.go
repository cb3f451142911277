package inventory

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y el llamador no observa escrituras parciales.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
