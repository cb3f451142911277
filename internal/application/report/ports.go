package report

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// StockReport datos de entrada del informe de valoración de stock.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Currency    string // código ISO 4217 para mostrar importes
	Threshold   int    // umbral de stock bajo aplicado a la columna de estado
	Items       []*entity.Item
	Stats       repository.StockStats
}

// StockReportGenerator genera la representación PDF del informe de stock.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report StockReport) ([]byte, error)
}

// SnapshotReader ejecuta fn con repositorios de solo lectura que ven la misma instantánea de datos.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		reportRepo repository.ReportRepository,
	) error) error
}
