package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/report"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and report.SnapshotReader.
var (
	_ inventory.TxRunner    = (*TxRunner)(nil)
	_ report.SnapshotReader = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool. timeout acota la transacción completa (0 = sin límite).
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Dentro de la tx el límite lo pone el contexto de Run, no cada sentencia.
	categoryRepo := NewCategoryRepository(tx, 0)
	itemRepo := NewItemRepository(tx, 0)
	movRepo := NewStockMovementRepository(tx, 0)

	if err := fn(categoryRepo, itemRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// ReadSnapshot ejecuta fn en una transacción REPEATABLE READ de solo lectura: todas las
// consultas de fn ven la misma instantánea aunque haya escrituras concurrentes.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	reportRepo repository.ReportRepository,
) error) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return mapError("begin read-only transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewItemRepository(tx, 0), NewReportRepository(tx, 0)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit read-only transaction", err)
	}
	return nil
}

func (r *TxRunner) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, r.timeout)
}
