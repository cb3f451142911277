package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `
	c.id, c.name, c.description, c.created_at,
	(SELECT count(*) FROM items i WHERE i.category_id = c.id)`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	db conn
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier); timeout 0 = sin límite por sentencia.
func NewCategoryRepository(q Querier, timeout time.Duration) *CategoryRepo {
	return &CategoryRepo{db: conn{q: q, timeout: timeout}}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	_, err := r.db.q.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt,
	)
	return mapError("insert category", err)
}

// GetByID obtiene una categoría por ID con su número de artículos.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, "get category", `SELECT`+categoryColumns+` FROM categories c WHERE c.id = $1`, id)
}

// GetByName obtiene una categoría por nombre exacto.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, "get category by name", `SELECT`+categoryColumns+` FROM categories c WHERE c.name = $1`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Category, error) {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	c, err := scanCategory(r.db.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return c, nil
}

// Update cambia nombre y descripción.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	cmd, err := r.db.q.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		return mapError("update category", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, c.ID)
	}
	return nil
}

// List lista todas las categorías ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	rows, err := r.db.q.Query(ctx, `SELECT`+categoryColumns+` FROM categories c ORDER BY c.name`)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapError("scan category", err)
		}
		list = append(list, c)
	}
	return list, mapError("list categories", rows.Err())
}

// Delete borra la categoría; ON DELETE CASCADE elimina sus artículos y los movimientos de estos
// en la misma sentencia.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	cmd, err := r.db.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.ItemCount); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
