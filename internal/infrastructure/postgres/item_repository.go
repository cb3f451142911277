package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemSelect = `
	SELECT i.id, i.name, i.description, i.quantity, i.price, i.sku, i.category_id, c.name,
	       i.created_at, i.updated_at
	FROM items i
	JOIN categories c ON c.id = i.category_id`

// itemOrder cláusulas ORDER BY por criterio; i.id desempata para que la paginación sea estable.
var itemOrder = map[repository.ItemSort]string{
	repository.SortByName:     "i.name ASC, i.id",
	repository.SortByQuantity: "i.quantity DESC, i.name ASC, i.id",
	repository.SortByPrice:    "i.price DESC, i.name ASC, i.id",
	repository.SortByCreated:  "i.created_at DESC, i.name ASC, i.id",
}

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	db conn
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier); timeout 0 = sin límite por sentencia.
func NewItemRepository(q Querier, timeout time.Duration) *ItemRepo {
	return &ItemRepo{db: conn{q: q, timeout: timeout}}
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	_, err := r.db.q.Exec(ctx, `
		INSERT INTO items (id, name, description, quantity, price, sku, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		it.ID, it.Name, it.Description, it.Quantity, it.Price, it.SKU, it.CategoryID, it.CreatedAt, it.UpdatedAt,
	)
	return mapError("insert item", err)
}

// GetByID obtiene un artículo con el nombre de su categoría.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", itemSelect+` WHERE i.id = $1`, id)
}

// GetForUpdate obtiene el artículo bloqueando su fila hasta el fin de la transacción.
// Solo tiene efecto cuando el repositorio está atado a una tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", itemSelect+` WHERE i.id = $1 FOR UPDATE OF i`, id)
}

// GetBySKU obtiene el artículo que tiene el SKU indicado.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by sku", itemSelect+` WHERE i.sku = $1`, sku)
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Item, error) {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	it, err := scanItem(r.db.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return it, nil
}

// Update actualiza todos los campos editables del artículo.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	cmd, err := r.db.q.Exec(ctx, `
		UPDATE items SET name = $2, description = $3, quantity = $4, price = $5, sku = $6,
		       category_id = $7, updated_at = $8
		WHERE id = $1`,
		it.ID, it.Name, it.Description, it.Quantity, it.Price, it.SKU, it.CategoryID, it.UpdatedAt,
	)
	if err != nil {
		return mapError("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ID)
	}
	return nil
}

// Delete borra el artículo; ON DELETE CASCADE elimina sus movimientos.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	cmd, err := r.db.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return mapError("delete item", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return nil
}

// List devuelve una página de artículos y el total que cumple el filtro (count(*) OVER ()).
func (r *ItemRepo) List(ctx context.Context, q repository.ItemQuery) ([]*entity.Item, int, error) {
	var (
		where []string
		args  []any
	)
	if q.CategoryID != "" {
		args = append(args, q.CategoryID)
		where = append(where, "i.category_id = $"+strconv.Itoa(len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		p := "$" + strconv.Itoa(len(args))
		where = append(where, "(i.name ILIKE "+p+" OR i.description ILIKE "+p+" OR COALESCE(i.sku, '') ILIKE "+p+")")
	}

	var sb strings.Builder
	sb.WriteString(`
	SELECT i.id, i.name, i.description, i.quantity, i.price, i.sku, i.category_id, c.name,
	       i.created_at, i.updated_at, count(*) OVER ()
	FROM items i
	JOIN categories c ON c.id = i.category_id`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	order, ok := itemOrder[q.Sort]
	if !ok {
		order = itemOrder[repository.SortByName]
	}
	sb.WriteString(" ORDER BY " + order)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	args = append(args, q.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	rows, err := r.db.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, mapError("list items", err)
	}
	defer rows.Close()

	var (
		list  []*entity.Item
		total int
	)
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Description, &it.Quantity, &it.Price, &it.SKU, &it.CategoryID,
			&it.CategoryName, &it.CreatedAt, &it.UpdatedAt, &total,
		); err != nil {
			return nil, 0, mapError("scan item", err)
		}
		normalizeItem(&it)
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list items", err)
	}
	if len(list) == 0 && q.Offset > 0 {
		// Página fuera de rango: la ventana no devuelve filas, el total se consulta aparte.
		if total, err = r.count(ctx, where, args[:len(args)-countPagingArgs(q)]); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func countPagingArgs(q repository.ItemQuery) int {
	if q.Limit > 0 {
		return 2
	}
	return 1
}

func (r *ItemRepo) count(ctx context.Context, where []string, args []any) (int, error) {
	query := `SELECT count(*) FROM items i`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	var n int
	if err := r.db.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError("count items", err)
	}
	return n, nil
}

// ListBelow devuelve los artículos con quantity < threshold, menor cantidad primero.
func (r *ItemRepo) ListBelow(ctx context.Context, threshold int) ([]*entity.Item, error) {
	return r.list(ctx, "list low stock", itemSelect+` WHERE i.quantity < $1 ORDER BY i.quantity ASC, i.name ASC, i.id`, threshold)
}

// ListAll devuelve todos los artículos ordenados por categoría y nombre.
func (r *ItemRepo) ListAll(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, "list all items", itemSelect+` ORDER BY c.name ASC, i.name ASC, i.id`)
}

func (r *ItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Item, error) {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	rows, err := r.db.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		list = append(list, it)
	}
	return list, mapError(op, rows.Err())
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.Quantity, &it.Price, &it.SKU, &it.CategoryID,
		&it.CategoryName, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	normalizeItem(&it)
	return &it, nil
}

func normalizeItem(it *entity.Item) {
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
}
