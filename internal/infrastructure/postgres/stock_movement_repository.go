package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persistencia de movimientos de stock (solo inserción).
type StockMovementRepo struct {
	db conn
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier, timeout time.Duration) *StockMovementRepo {
	return &StockMovementRepo{db: conn{q: q, timeout: timeout}}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()
	_, err := r.db.q.Exec(ctx, `
		INSERT INTO stock_movements (id, item_id, movement_type, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ItemID, m.Type, m.Quantity, m.Reason, m.CreatedAt,
	)
	return mapError("insert stock movement", err)
}

// List devuelve movimientos con el nombre del artículo, más recientes primero, y el total del
// filtro. Filas y total salen de la misma sentencia (count(*) OVER ()).
func (r *StockMovementRepo) List(ctx context.Context, q repository.MovementQuery) ([]*entity.StockMovement, int, error) {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()

	itemID := any(nil) // NULL = todos los artículos
	if q.ItemID != "" {
		itemID = q.ItemID
	}
	limit := any(nil) // LIMIT NULL = sin límite
	if q.Limit > 0 {
		limit = q.Limit
	}
	rows, err := r.db.q.Query(ctx, `
		SELECT m.id, m.item_id, i.name, m.movement_type, m.quantity, m.reason, m.created_at, count(*) OVER ()
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		WHERE ($1::uuid IS NULL OR m.item_id = $1::uuid)
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2 OFFSET $3`,
		itemID, limit, q.Offset,
	)
	if err != nil {
		return nil, 0, mapError("list stock movements", err)
	}
	defer rows.Close()

	var total int
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Type, &m.Quantity, &m.Reason, &m.CreatedAt, &total); err != nil {
			return nil, 0, mapError("scan stock movement", err)
		}
		m.CreatedAt = m.CreatedAt.UTC()
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list stock movements", err)
	}
	if len(list) == 0 && q.Offset > 0 {
		// Página fuera de rango: la ventana no devuelve filas, el total se consulta aparte.
		if err := r.db.q.QueryRow(ctx,
			`SELECT count(*) FROM stock_movements WHERE ($1::uuid IS NULL OR item_id = $1::uuid)`,
			itemID,
		).Scan(&total); err != nil {
			return nil, 0, mapError("count stock movements", err)
		}
	}
	return list, total, nil
}
