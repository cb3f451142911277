package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral de stock bajo cuando el llamador no indica otro.
const DefaultLowStockThreshold = 10

// Item representa un artículo en stock. Quantity nunca es negativa.
// SKU es opcional (nil) pero único entre todos los artículos cuando está presente.
type Item struct {
	ID           string
	Name         string
	Description  string
	Quantity     int
	Price        decimal.Decimal // NUMERIC(10,2)
	SKU          *string
	CategoryID   string
	CategoryName string // solo lectura: join con categories
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalValue valor de la línea: cantidad × precio.
func (i *Item) TotalValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsLowStock indica si la cantidad está por debajo del umbral.
// Un umbral <= 0 se reemplaza por DefaultLowStockThreshold.
func (i *Item) IsLowStock(threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return i.Quantity < threshold
}

// IsOutOfStock indica si no quedan unidades.
func (i *Item) IsOutOfStock() bool {
	return i.Quantity == 0
}

// SKUValue devuelve el SKU o "" si no tiene.
func (i *Item) SKUValue() string {
	if i.SKU == nil {
		return ""
	}
	return *i.SKU
}
