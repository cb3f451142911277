package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockStats agregados del inventario calculados sobre una sola lectura consistente.
type StockStats struct {
	TotalItems      int
	TotalCategories int
	TotalValue      decimal.Decimal // Σ quantity × price
	LowStockCount   int             // quantity < umbral
	OutOfStockCount int             // quantity = 0
}

// ReportRepository consultas de solo lectura para estadísticas.
type ReportRepository interface {
	GetStats(ctx context.Context, lowStockThreshold int) (StockStats, error)
}
