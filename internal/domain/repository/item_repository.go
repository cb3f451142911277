package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// ItemSort criterio de orden de los listados de artículos.
type ItemSort string

const (
	SortByName     ItemSort = "name"     // nombre ascendente
	SortByQuantity ItemSort = "quantity" // cantidad descendente
	SortByPrice    ItemSort = "price"    // precio descendente
	SortByCreated  ItemSort = "created"  // más recientes primero
)

// ParseItemSort convierte el parámetro de consulta; valores desconocidos ordenan por nombre.
func ParseItemSort(s string) ItemSort {
	switch ItemSort(s) {
	case SortByQuantity, SortByPrice, SortByCreated:
		return ItemSort(s)
	}
	return SortByName
}

// ItemQuery filtros y paginación para listar artículos. Filtros vacíos no restringen.
type ItemQuery struct {
	CategoryID string
	Search     string // subcadena sin distinguir mayúsculas en name, description o sku
	Sort       ItemSort
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// Delete borra el artículo y en cascada sus movimientos. Devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// List devuelve la página pedida y el total de filas que cumplen el filtro.
	List(ctx context.Context, q ItemQuery) ([]*entity.Item, int, error)
	// ListBelow devuelve los artículos con quantity < threshold, menor cantidad primero.
	ListBelow(ctx context.Context, threshold int) ([]*entity.Item, error)
	// ListAll devuelve todos los artículos ordenados por categoría y nombre.
	ListAll(ctx context.Context) ([]*entity.Item, error)
}
