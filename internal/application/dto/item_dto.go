package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	Price       decimal.Decimal `json:"price" validate:"-"`
	SKU         string          `json:"sku" validate:"max=50"`
	CategoryID  string          `json:"category_id" validate:"required"`
}

// UpdateItemRequest entrada para actualizar un artículo; solo se aplican los campos presentes.
// SKU vacío ("") quita el SKU del artículo.
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price" validate:"-"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,min=1"`
}

// ItemResponse salida de un artículo con sus valores derivados.
type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	SKU          *string         `json:"sku"`
	CategoryName string          `json:"category"`
	CategoryID   string          `json:"category_id"`
	TotalValue   decimal.Decimal `json:"total_value"`
	LowStock     bool            `json:"low_stock"`
	OutOfStock   bool            `json:"out_of_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemFilter filtros del listado de artículos.
type ItemFilter struct {
	CategoryID string `query:"category"`
	Search     string `query:"search"`
	Sort       string `query:"sort"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
