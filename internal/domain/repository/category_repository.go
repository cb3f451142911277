package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List devuelve todas las categorías ordenadas por nombre, con ItemCount.
	List(ctx context.Context) ([]*entity.Category, error)
	// Delete borra la categoría y en cascada sus artículos y movimientos.
	// Devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
