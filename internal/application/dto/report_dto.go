package dto

import "github.com/shopspring/decimal"

// StatsResponse agregados del inventario (GET /api/stats).
type StatsResponse struct {
	TotalItems      int             `json:"total_items"`
	TotalCategories int             `json:"total_categories"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

// LowStockResponse artículos bajo el umbral indicado.
type LowStockResponse struct {
	Threshold int            `json:"threshold"`
	Items     []ItemResponse `json:"items"`
}

// DashboardResponse resumen para la portada: estadísticas, stock bajo y últimos movimientos.
type DashboardResponse struct {
	Stats           StatsResponse      `json:"stats"`
	LowStockItems   []ItemResponse     `json:"low_stock_items"`
	RecentMovements []MovementResponse `json:"recent_movements"`
}
