package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de agregados de solo lectura.
type ReportRepo struct {
	db conn
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier, timeout time.Duration) *ReportRepo {
	return &ReportRepo{db: conn{q: q, timeout: timeout}}
}

// GetStats calcula los agregados en una sola sentencia: todos los valores salen de la misma
// instantánea de la tabla items.
func (r *ReportRepo) GetStats(ctx context.Context, lowStockThreshold int) (repository.StockStats, error) {
	ctx, cancel := r.db.ctx(ctx)
	defer cancel()

	query := `
		SELECT
			count(*),
			(SELECT count(*) FROM categories),
			COALESCE(SUM(quantity * price), 0)::NUMERIC,
			count(*) FILTER (WHERE quantity < $1),
			count(*) FILTER (WHERE quantity = 0)
		FROM items`

	var s repository.StockStats
	err := r.db.q.QueryRow(ctx, query, lowStockThreshold).Scan(
		&s.TotalItems, &s.TotalCategories, &s.TotalValue, &s.LowStockCount, &s.OutOfStockCount,
	)
	if err != nil {
		return repository.StockStats{}, mapError("get stock stats", err)
	}
	return s, nil
}
